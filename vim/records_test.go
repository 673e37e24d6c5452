package vim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slzatz/vimbridge/vim/native"
)

// countingArray is an engine array that records how often it is freed.
type countingArray[T any] struct {
	items []T
	frees int
}

func (a *countingArray[T]) Len() int   { return len(a.items) }
func (a *countingArray[T]) At(i int) T { return a.items[i] }
func (a *countingArray[T]) Free()      { a.frees++ }

func TestCopyArray(t *testing.T) {
	t.Run("Keeps order and length", func(t *testing.T) {
		arr := &countingArray[native.Highlight]{items: []native.Highlight{
			{Start: native.Pos{Lnum: 1, Col: 0}, End: native.Pos{Lnum: 1, Col: 3}},
			{Start: native.Pos{Lnum: 4, Col: 2}, End: native.Pos{Lnum: 4, Col: 5}},
		}}

		got := copyArray[native.Highlight](arr, highlightOf)

		require.Len(t, got, 2)
		assert.Equal(t, Highlight{Start: Position{1, 0}, End: Position{1, 3}}, got[0])
		assert.Equal(t, Highlight{Start: Position{4, 2}, End: Position{4, 5}}, got[1])
		assert.Equal(t, 1, arr.frees)
	})

	t.Run("Empty array is freed", func(t *testing.T) {
		arr := &countingArray[string]{}
		got := copyArray[string](arr, identity[string])
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, 1, arr.frees)
	})

	t.Run("Nil array", func(t *testing.T) {
		got := copyArray[string, string](nil, identity[string])
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Freed after conversion panics", func(t *testing.T) {
		arr := &countingArray[string]{items: []string{"a"}}
		assert.Panics(t, func() {
			copyArray[string](arr, func(string) int { panic("boom") })
		})
		assert.Equal(t, 1, arr.frees)
	})
}

func TestPositionConversion(t *testing.T) {
	p := Position{Line: 7, Column: 3}
	assert.Equal(t, native.Pos{Lnum: 7, Col: 3}, p.native())
	assert.Equal(t, p, positionOf(p.native()))
	assert.Equal(t, "7:3", p.String())
}

func TestBufferHandle(t *testing.T) {
	assert.True(t, Buffer{}.IsZero())
	assert.False(t, optionalBuffer(0).IsSome())

	b, ok := optionalBuffer(5).Get()
	require.True(t, ok)
	assert.False(t, b.IsZero())
	assert.Equal(t, bufferOf(5), b)
	assert.Equal(t, "buffer(nil)", Buffer{}.String())
}
