package vim

import (
	"fmt"

	"github.com/slzatz/vimbridge/vim/native"
)

// Position is a (line, column) pair. Lines are 1-based, columns are
// byte offsets as reported by the engine.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Range is a start and end position in engine order.
type Range struct {
	Start Position
	End   Position
}

// Highlight is a search match range.
type Highlight struct {
	Start Position
	End   Position
}

// AutoClosingPair is an opening/closing character pair.
type AutoClosingPair struct {
	Open  rune
	Close rune
}

// CommandLineState is a snapshot of the engine's command line.
type CommandLineState struct {
	Text        Option[string]
	Position    int
	Type        CmdlineType
	Completions []string
}

func positionOf(p native.Pos) Position {
	return Position{Line: p.Lnum, Column: p.Col}
}

func (p Position) native() native.Pos {
	return native.Pos{Lnum: p.Line, Col: p.Column}
}

func highlightOf(h native.Highlight) Highlight {
	return Highlight{
		Start: positionOf(h.Start),
		End:   positionOf(h.End),
	}
}

// copyArray copies an engine-owned array into a host slice of exactly
// its length, in engine order, and frees the engine array afterwards.
func copyArray[T, U any](a native.Array[T], conv func(T) U) []U {
	if a == nil {
		return []U{}
	}
	defer a.Free()

	n := a.Len()
	out := make([]U, n)
	for i := 0; i < n; i++ {
		out[i] = conv(a.At(i))
	}
	return out
}

func identity[T any](v T) T { return v }
