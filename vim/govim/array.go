package govim

// sliceArray hands a Go slice across the native.Array interface. Free
// drops the slice so a second read sees an empty array.
type sliceArray[T any] struct {
	items []T
	freed bool
}

func newArray[T any](items []T) *sliceArray[T] {
	return &sliceArray[T]{items: items}
}

func (a *sliceArray[T]) Len() int { return len(a.items) }

func (a *sliceArray[T]) At(i int) T { return a.items[i] }

func (a *sliceArray[T]) Free() {
	a.items = nil
	a.freed = true
}
