package vim

import (
	"github.com/slzatz/vimbridge/vim/native"
)

// Bridge is the host-facing surface of one engine instance. It keeps
// no editor state of its own: every method converts its arguments,
// calls the engine and converts the result.
//
// Methods that hand control to the engine and may therefore fire
// callbacks (Init, Input, Command, BufferOpen, BufferSetCurrent)
// release runtime ownership for the duration of the engine call and
// take it back before returning. Pure queries run under the caller's
// ownership and never touch the runtime.
type Bridge struct {
	engine      native.Engine
	rt          Runtime
	disp        *dispatcher
	initialized bool
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithRuntime sets the ownership protocol. The default is an
// OwnerLock held by the goroutine that calls New.
func WithRuntime(rt Runtime) BridgeOption {
	return func(b *Bridge) { b.rt = rt }
}

// New wraps engine. The engine is not started until Init.
func New(engine native.Engine, opts ...BridgeOption) *Bridge {
	b := &Bridge{engine: engine}
	for _, opt := range opts {
		opt(b)
	}
	if b.rt == nil {
		b.rt = NewOwnerLock()
	}
	return b
}

// Runtime returns the ownership protocol in use.
func (b *Bridge) Runtime() Runtime { return b.rt }

// Init installs all seven handlers into the engine's callback slots
// and starts the engine with no arguments. A handler missing from h is
// a configuration error and the engine is not started.
func (b *Bridge) Init(h Handlers) error {
	if err := h.Validate(); err != nil {
		return err
	}
	b.disp = newDispatcher(h, b.rt, Logger())
	b.engine.SetCallbacks(b.disp.callbacks())
	b.initialized = true
	Logger().Debug("engine starting")
	return b.enter(func() { b.engine.Init(nil) })
}

// InitFromRegistry resolves the handlers from r and calls Init.
func (b *Bridge) InitFromRegistry(r *Registry) error {
	h, err := ResolveHandlers(r)
	if err != nil {
		return err
	}
	return b.Init(h)
}

// enter hands ownership to the engine while fn runs and reports any
// handler failures that happened meanwhile.
func (b *Bridge) enter(fn func()) error {
	b.rt.Release()
	func() {
		defer b.rt.Acquire()
		fn()
	}()
	return b.disp.takeFailures()
}

// Input feeds keystrokes. Key notation such as <Esc> or <C-w> is sent
// as one key.
func (b *Bridge) Input(keys string) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	return b.enter(func() {
		for _, k := range native.SplitKeys(keys) {
			if native.IsNotation(k) {
				b.engine.Key(k)
			} else {
				b.engine.Input(k)
			}
		}
	})
}

// Command executes an ex command.
func (b *Bridge) Command(cmd string) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	return b.enter(func() { b.engine.Execute(cmd) })
}

// Mode returns the current mode ordinal.
func (b *Bridge) Mode() Mode {
	return ModeFromFlags(b.engine.Mode())
}

// BufferOpen opens path (or returns the buffer already showing it) and
// makes it current.
func (b *Bridge) BufferOpen(path string) (Buffer, error) {
	if !b.initialized {
		return Buffer{}, ErrNotInitialized
	}
	var p native.Buf
	err := b.enter(func() { p = b.engine.BufferOpen(path, 1, 0) })
	return bufferOf(p), err
}

// BufferGetByID returns the buffer with the given number.
func (b *Bridge) BufferGetByID(id int) Option[Buffer] {
	return optionalBuffer(b.engine.BufferGetByID(id))
}

// BufferID returns the buffer's number.
func (b *Bridge) BufferID(buf Buffer) int {
	return b.engine.BufferGetID(buf.p)
}

// BufferCurrent returns the current buffer.
func (b *Bridge) BufferCurrent() Buffer {
	return bufferOf(b.engine.BufferGetCurrent())
}

// BufferSetCurrent switches the current window to buf.
func (b *Bridge) BufferSetCurrent(buf Buffer) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	return b.enter(func() { b.engine.BufferSetCurrent(buf.p) })
}

// BufferFilename returns the buffer's file name, absent for unnamed
// buffers and for the null handle.
func (b *Bridge) BufferFilename(buf Buffer) Option[string] {
	if buf.IsZero() {
		return None[string]()
	}
	return OptionOf(b.engine.BufferGetFilename(buf.p))
}

// BufferFiletype returns the buffer's filetype. An empty filetype, as
// libvim reports for buffers it could not detect, is absent.
func (b *Bridge) BufferFiletype(buf Buffer) Option[string] {
	if buf.IsZero() {
		return None[string]()
	}
	ft, ok := b.engine.BufferGetFiletype(buf.p)
	if !ok || ft == "" {
		return None[string]()
	}
	return Some(ft)
}

func (b *Bridge) BufferModified(buf Buffer) bool {
	return b.engine.BufferGetModified(buf.p)
}

// BufferChangedTick returns the buffer's change counter.
func (b *Bridge) BufferChangedTick(buf Buffer) int64 {
	return b.engine.BufferGetLastChangedTick(buf.p)
}

func (b *Bridge) BufferLineCount(buf Buffer) int {
	return b.engine.BufferGetLineCount(buf.p)
}

// BufferLine returns line lnum (1-based).
func (b *Bridge) BufferLine(buf Buffer, lnum int) string {
	return b.engine.BufferGetLine(buf.p, lnum)
}

// BufferLines returns a copy of every line of buf.
func (b *Bridge) BufferLines(buf Buffer) []string {
	n := b.engine.BufferGetLineCount(buf.p)
	lines := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		lines = append(lines, b.engine.BufferGetLine(buf.p, i))
	}
	return lines
}

func (b *Bridge) CursorLine() int   { return b.engine.CursorGetLine() }
func (b *Bridge) CursorColumn() int { return b.engine.CursorGetColumn() }

// CursorPosition returns the cursor as a Position.
func (b *Bridge) CursorPosition() Position {
	return Position{Line: b.engine.CursorGetLine(), Column: b.engine.CursorGetColumn()}
}

// SetCursorPosition moves the cursor. The engine clamps out of range
// positions.
func (b *Bridge) SetCursorPosition(line, column int) {
	b.engine.CursorSetPosition(Position{Line: line, Column: column}.native())
}

func (b *Bridge) WindowWidth() int      { return b.engine.WindowGetWidth() }
func (b *Bridge) WindowHeight() int     { return b.engine.WindowGetHeight() }
func (b *Bridge) WindowTopLine() int    { return b.engine.WindowGetTopLine() }
func (b *Bridge) WindowLeftColumn() int { return b.engine.WindowGetLeftColumn() }

func (b *Bridge) SetWindowWidth(width int)   { b.engine.WindowSetWidth(width) }
func (b *Bridge) SetWindowHeight(height int) { b.engine.WindowSetHeight(height) }

// SetWindowTopLeft scrolls the window so that top is the first line
// shown and left the first column.
func (b *Bridge) SetWindowTopLeft(top, left int) {
	b.engine.WindowSetTopLeft(top, left)
}

// VisualRange returns the visual selection as reported by the engine.
// Without an active selection the engine reports its stale or zero
// positions; use VisualType to tell.
func (b *Bridge) VisualRange() Range {
	start, end := b.engine.VisualGetRange()
	return Range{Start: positionOf(start), End: positionOf(end)}
}

func (b *Bridge) VisualType() VisualType {
	return VisualTypeFrom(b.engine.VisualIsActive(), b.engine.VisualGetType())
}

// SearchHighlights returns the matches of the last search pattern
// between lines start and end, in engine order.
func (b *Bridge) SearchHighlights(start, end int) []Highlight {
	return copyArray(b.engine.SearchGetHighlights(start, end), highlightOf)
}

// SearchMatchingPair returns the bracket matching the one under the
// cursor.
func (b *Bridge) SearchMatchingPair() Option[Position] {
	pos, ok := b.engine.SearchGetMatchingPair(0)
	if !ok {
		return None[Position]()
	}
	return Some(positionOf(pos))
}

func (b *Bridge) CommandLineCompletions() []string {
	return copyArray(b.engine.CommandLineGetCompletions(), identity[string])
}

func (b *Bridge) CommandLinePosition() int {
	return b.engine.CommandLineGetPosition()
}

// CommandLineText returns the command line text, absent when the
// command line is not active.
func (b *Bridge) CommandLineText() Option[string] {
	return OptionOf(b.engine.CommandLineGetText())
}

func (b *Bridge) CommandLineType() CmdlineType {
	return CmdlineTypeFrom(b.engine.CommandLineGetType())
}

// CommandLine returns a snapshot of the command line.
func (b *Bridge) CommandLine() CommandLineState {
	return CommandLineState{
		Text:        b.CommandLineText(),
		Position:    b.CommandLinePosition(),
		Type:        b.CommandLineType(),
		Completions: b.CommandLineCompletions(),
	}
}

func (b *Bridge) SetTabSize(size int) { b.engine.OptionSetTabSize(size) }
func (b *Bridge) TabSize() int        { return b.engine.OptionGetTabSize() }

func (b *Bridge) SetInsertSpaces(insertSpaces bool) { b.engine.OptionSetInsertSpaces(insertSpaces) }
func (b *Bridge) InsertSpaces() bool                { return b.engine.OptionGetInsertSpaces() }

// SetAutoClosingPairs replaces the engine's auto-closing pair list.
// It returns ErrAllocation when the engine could not take the list;
// the previous list is then left in place.
func (b *Bridge) SetAutoClosingPairs(pairs []AutoClosingPair) error {
	np := make([]native.AutoClosingPair, len(pairs))
	for i, p := range pairs {
		np[i] = native.AutoClosingPair{Open: p.Open, Close: p.Close}
	}
	if !b.engine.SetAutoClosingPairs(np) {
		return ErrAllocation
	}
	return nil
}

// SetAutoClosingPairsEnabled turns auto-closing on or off.
func (b *Bridge) SetAutoClosingPairsEnabled(enabled bool) {
	b.engine.OptionSetAutoClosingPairs(enabled)
}

// AutoClosingPairs reports whether auto-closing is enabled.
func (b *Bridge) AutoClosingPairs() bool {
	return b.engine.OptionGetAutoClosingPairs()
}
