// Package native describes the C-shaped API of the editing engine.
//
// Everything here uses the engine's own encodings: buffers are raw
// pointer-sized tokens, modes are OR-able bit flags, visual and
// command-line types are single characters and arrays are handed out
// as pointer+count pairs that the caller must free. The vim package
// translates these into host values.
package native

// Buf is an engine buffer pointer (buf_T *). Zero is NULL.
// Only the engine may interpret it.
type Buf uintptr

// Pos mirrors pos_T.
type Pos struct {
	Lnum int
	Col  int
}

// Highlight mirrors searchHighlight_T.
type Highlight struct {
	Start Pos
	End   Pos
}

// AutoClosingPair mirrors autoClosingPair_T.
type AutoClosingPair struct {
	Open  rune
	Close rune
}

// BufferUpdate mirrors bufferUpdate_T. Lnume is the first line below
// the changed range before the change, Xtra the number of lines added
// (negative when lines were deleted).
type BufferUpdate struct {
	Buf   Buf
	Lnum  int
	Lnume int
	Xtra  int64
}

// Array is an engine-allocated array. Ownership passes to the caller,
// which must call Free exactly once after copying the elements out.
type Array[T any] interface {
	Len() int
	At(i int) T
	Free()
}

// Callbacks holds the engine's callback slots (vimSet*Callback).
// A nil slot is never invoked.
type Callbacks struct {
	BufferUpdate     func(u BufferUpdate)
	AutoCommand      func(event int, buf Buf)
	DirectoryChanged func(path string)
	Message          func(title, contents string, priority int)
	Quit             func(buf Buf, forced bool)
	WindowMovement   func(kind, count int)
	WindowSplit      func(kind int, path string)
}

// Engine is the engine entry point table. It is implemented by the
// libvim binding (package cvim) and by the pure Go engine (package govim).
type Engine interface {
	SetCallbacks(cb Callbacks)
	Init(args []string)

	// Input feeds one literal key, Key one <notation> key.
	Input(key string)
	Key(notation string)
	Execute(cmd string)

	Mode() int

	BufferOpen(path string, lnum int, flags int) Buf
	BufferGetByID(id int) Buf
	BufferGetID(buf Buf) int
	BufferGetCurrent() Buf
	BufferSetCurrent(buf Buf)
	BufferGetFilename(buf Buf) (string, bool)
	BufferGetFiletype(buf Buf) (string, bool)
	BufferGetModified(buf Buf) bool
	BufferGetLastChangedTick(buf Buf) int64
	BufferGetLineCount(buf Buf) int
	BufferGetLine(buf Buf, lnum int) string

	CursorGetLine() int
	CursorGetColumn() int
	CursorSetPosition(pos Pos)

	WindowGetWidth() int
	WindowGetHeight() int
	WindowGetTopLine() int
	WindowGetLeftColumn() int
	WindowSetWidth(width int)
	WindowSetHeight(height int)
	WindowSetTopLeft(top, left int)

	VisualIsActive() bool
	VisualGetType() byte
	VisualGetRange() (start, end Pos)

	SearchGetHighlights(start, end int) Array[Highlight]
	SearchGetMatchingPair(flags int) (Pos, bool)

	CommandLineGetCompletions() Array[string]
	CommandLineGetPosition() int
	CommandLineGetText() (string, bool)
	CommandLineGetType() byte

	OptionSetTabSize(size int)
	OptionGetTabSize() int
	OptionSetInsertSpaces(insertSpaces bool)
	OptionGetInsertSpaces() bool
	// OptionSetAutoClosingPairs sets the p_acp flag.
	OptionSetAutoClosingPairs(enabled bool)
	OptionGetAutoClosingPairs() bool
	// SetAutoClosingPairs replaces the pair list (acp_set_pairs). It
	// returns false when the engine could not allocate the list.
	SetAutoClosingPairs(pairs []AutoClosingPair) bool
}
