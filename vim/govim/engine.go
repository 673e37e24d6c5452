package govim

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/slzatz/vimbridge/vim/native"
	"go.uber.org/zap"
)

// Window defaults match a plain 80x24 terminal.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

var defaultPairs = []native.AutoClosingPair{
	{Open: '(', Close: ')'},
	{Open: '[', Close: ']'},
	{Open: '{', Close: '}'},
	{Open: '"', Close: '"'},
	{Open: '\'', Close: '\''},
}

// GoEngine implements native.Engine in pure Go. Buffer handles are
// buffer numbers, so a handle stays valid for as long as the buffer
// exists.
type GoEngine struct {
	callbacks     native.Callbacks
	buffers       map[int]*GoBuffer
	nextBufferId  int
	currentBuffer *GoBuffer
	cwd           string

	mode     int    // native mode bits; Visual and CmdLine are tracked separately
	count    int    // pending count, 0 when none was typed
	pending  string // operator, "r" or "c-w"
	gPending bool
	opCount  int

	register         string
	registerLinewise bool

	visualActive bool
	visualType   byte
	visualStart  native.Pos

	cmdType     byte
	cmdText     string
	cmdPos      int
	cmdFromMode int

	searchPattern   string
	searchDirection int
	hlsearch        bool

	tabSize      int
	insertSpaces bool
	acp          bool
	pairs        []native.AutoClosingPair

	width, height    int
	topLine, leftCol int

	undoBase *undoState
}

// NewEngine creates a new vim engine
func NewEngine() *GoEngine {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &GoEngine{
		buffers:         make(map[int]*GoBuffer),
		nextBufferId:    1,
		cwd:             cwd,
		mode:            native.Normal,
		searchDirection: 1,
		tabSize:         8,
		pairs:           append([]native.AutoClosingPair(nil), defaultPairs...),
		width:           defaultWidth,
		height:          defaultHeight,
		topLine:         1,
	}
}

var _ native.Engine = (*GoEngine)(nil)

func (e *GoEngine) SetCallbacks(cb native.Callbacks) {
	e.callbacks = cb
}

// Init creates the unnamed first buffer. Arguments are ignored.
func (e *GoEngine) Init(args []string) {
	if e.currentBuffer != nil {
		return
	}
	b := e.newBuffer("")
	e.fireAutoCommand(native.EventBufNew, b)
	e.currentBuffer = b
	e.fireAutoCommand(native.EventBufEnter, b)
	log.Debug("engine initialized", zap.String("cwd", e.cwd))
}

func (e *GoEngine) Input(key string) {
	e.feed(native.NormalizeKey(key))
}

func (e *GoEngine) Key(notation string) {
	e.feed(native.NormalizeKey(notation))
}

// Execute runs an ex command as if typed after ':'.
func (e *GoEngine) Execute(cmd string) {
	e.beginUndo()
	e.exCommand(cmd)
	e.endUndo()
	e.scrollToCursor()
}

func (e *GoEngine) feed(k string) {
	if e.currentBuffer == nil {
		return
	}
	if lit, ok := literalNames[k]; ok {
		k = lit
	}
	if e.idle() && (k == "u" || k == "c-r") {
		for range max(e.count, 1) {
			if k == "u" {
				e.undo()
			} else {
				e.redo()
			}
		}
		e.count = 0
		e.scrollToCursor()
		return
	}
	e.beginUndo()
	switch {
	case e.cmdType != 0:
		e.cmdlineKey(k)
	case e.mode&native.Insert != 0:
		e.insertKey(k)
	case e.visualActive:
		e.visualKey(k)
	default:
		e.normalKey(k)
	}
	e.endUndo()
	e.scrollToCursor()
}

// idle reports whether the engine is in normal mode with nothing
// pending.
func (e *GoEngine) idle() bool {
	return e.cmdType == 0 && e.mode == native.Normal && !e.visualActive && e.pending == "" && !e.gPending
}

func (e *GoEngine) Mode() int {
	switch {
	case e.cmdType != 0:
		return native.CmdLine
	case e.mode&native.Insert != 0:
		return e.mode
	case e.visualActive:
		return native.Visual
	case isOperator(e.pending):
		return native.OpPending
	}
	return native.Normal
}

func (e *GoEngine) newBuffer(name string) *GoBuffer {
	b := &GoBuffer{
		id:        e.nextBufferId,
		lines:     []string{""},
		name:      name,
		filetype:  detectFiletype(name),
		lastTick:  1,
		cursorRow: 1,
	}
	e.nextBufferId++
	e.buffers[b.id] = b
	return b
}

func (e *GoEngine) lookup(buf native.Buf) *GoBuffer {
	return e.buffers[int(buf)]
}

func (e *GoEngine) sortedIds() []int {
	ids := make([]int, 0, len(e.buffers))
	for id := range e.buffers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (e *GoEngine) abs(path string) string {
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.cwd, path)
	}
	return filepath.Clean(path)
}

// BufferOpen opens path, or finds the buffer already holding it, and
// makes it current with the cursor on lnum.
func (e *GoEngine) BufferOpen(path string, lnum int, flags int) native.Buf {
	name := e.abs(path)
	b := e.findBuffer(name)
	if b == nil {
		b = e.newBuffer(name)
		e.fireAutoCommand(native.EventBufNew, b)
		if name != "" {
			e.fireAutoCommand(native.EventBufReadPre, b)
			if existed := e.loadFile(b); existed {
				e.fireAutoCommand(native.EventBufReadPost, b)
			} else {
				e.fireAutoCommand(native.EventBufNewFile, b)
			}
		}
		log.Debug("buffer opened", zap.Int("id", b.id), zap.String("name", name))
	}
	e.switchTo(b)
	b.setCursor(max(lnum, 1), 0)
	e.scrollToCursor()
	return native.Buf(b.id)
}

func (e *GoEngine) findBuffer(name string) *GoBuffer {
	if name == "" {
		return nil
	}
	for _, b := range e.buffers {
		if b.name == name {
			return b
		}
	}
	return nil
}

// switchTo makes b current, leaving visual and pending state behind.
func (e *GoEngine) switchTo(b *GoBuffer) {
	if e.currentBuffer == b {
		return
	}
	if old := e.currentBuffer; old != nil {
		e.fireAutoCommand(native.EventBufLeave, old)
	}
	e.currentBuffer = b
	e.visualActive = false
	e.resetPending()
	e.topLine, e.leftCol = 1, 0
	e.fireAutoCommand(native.EventBufEnter, b)
	e.fireAutoCommand(native.EventBufWinEnter, b)
}

func (e *GoEngine) BufferGetByID(id int) native.Buf {
	if _, ok := e.buffers[id]; !ok {
		return 0
	}
	return native.Buf(id)
}

func (e *GoEngine) BufferGetID(buf native.Buf) int {
	if b := e.lookup(buf); b != nil {
		return b.id
	}
	return 0
}

func (e *GoEngine) BufferGetCurrent() native.Buf {
	if e.currentBuffer == nil {
		return 0
	}
	return native.Buf(e.currentBuffer.id)
}

func (e *GoEngine) BufferSetCurrent(buf native.Buf) {
	if b := e.lookup(buf); b != nil {
		e.switchTo(b)
	}
}

func (e *GoEngine) BufferGetFilename(buf native.Buf) (string, bool) {
	b := e.lookup(buf)
	if b == nil || b.name == "" {
		return "", false
	}
	return b.name, true
}

func (e *GoEngine) BufferGetFiletype(buf native.Buf) (string, bool) {
	b := e.lookup(buf)
	if b == nil || b.filetype == "" {
		return "", false
	}
	return b.filetype, true
}

func (e *GoEngine) BufferGetModified(buf native.Buf) bool {
	if b := e.lookup(buf); b != nil {
		return b.modified
	}
	return false
}

func (e *GoEngine) BufferGetLastChangedTick(buf native.Buf) int64 {
	if b := e.lookup(buf); b != nil {
		return b.lastTick
	}
	return 0
}

func (e *GoEngine) BufferGetLineCount(buf native.Buf) int {
	if b := e.lookup(buf); b != nil {
		return len(b.lines)
	}
	return 0
}

func (e *GoEngine) BufferGetLine(buf native.Buf, lnum int) string {
	if b := e.lookup(buf); b != nil {
		return b.line(lnum)
	}
	return ""
}

func (e *GoEngine) CursorGetLine() int {
	if e.currentBuffer == nil {
		return 1
	}
	return e.currentBuffer.cursorRow
}

func (e *GoEngine) CursorGetColumn() int {
	if e.currentBuffer == nil {
		return 0
	}
	return e.currentBuffer.cursorCol
}

func (e *GoEngine) CursorSetPosition(pos native.Pos) {
	b := e.currentBuffer
	if b == nil {
		return
	}
	b.setCursor(pos.Lnum, pos.Col)
	b.clampNormal(e.mode&native.Insert != 0)
	e.scrollToCursor()
}

func (e *GoEngine) WindowGetWidth() int      { return e.width }
func (e *GoEngine) WindowGetHeight() int     { return e.height }
func (e *GoEngine) WindowGetTopLine() int    { return e.topLine }
func (e *GoEngine) WindowGetLeftColumn() int { return e.leftCol }

func (e *GoEngine) WindowSetWidth(width int) {
	e.width = max(width, 1)
	e.scrollToCursor()
}

func (e *GoEngine) WindowSetHeight(height int) {
	e.height = max(height, 1)
	e.scrollToCursor()
}

// WindowSetTopLeft scrolls the view. A cursor left outside the view is
// moved to its nearest edge.
func (e *GoEngine) WindowSetTopLeft(top, left int) {
	b := e.currentBuffer
	if b == nil {
		return
	}
	e.topLine = min(max(top, 1), len(b.lines))
	e.leftCol = max(left, 0)
	switch {
	case b.cursorRow < e.topLine:
		b.setCursor(e.topLine, b.cursorCol)
	case b.cursorRow >= e.topLine+e.height:
		b.setCursor(e.topLine+e.height-1, b.cursorCol)
	}
}

// scrollToCursor keeps the cursor inside the window.
func (e *GoEngine) scrollToCursor() {
	b := e.currentBuffer
	if b == nil {
		return
	}
	if b.cursorRow < e.topLine {
		e.topLine = b.cursorRow
	} else if b.cursorRow >= e.topLine+e.height {
		e.topLine = b.cursorRow - e.height + 1
	}
	if b.cursorCol < e.leftCol {
		e.leftCol = b.cursorCol
	} else if b.cursorCol >= e.leftCol+e.width {
		e.leftCol = b.cursorCol - e.width + 1
	}
}

func (e *GoEngine) VisualIsActive() bool { return e.visualActive }

func (e *GoEngine) VisualGetType() byte { return e.visualType }

// VisualGetRange returns the anchor and the cursor. Both are zero when
// no selection is active.
func (e *GoEngine) VisualGetRange() (native.Pos, native.Pos) {
	if !e.visualActive || e.currentBuffer == nil {
		return native.Pos{}, native.Pos{}
	}
	b := e.currentBuffer
	return e.visualStart, native.Pos{Lnum: b.cursorRow, Col: b.cursorCol}
}

func (e *GoEngine) OptionSetTabSize(size int) {
	if size > 0 {
		e.tabSize = size
	}
}

func (e *GoEngine) OptionGetTabSize() int { return e.tabSize }

func (e *GoEngine) OptionSetInsertSpaces(insertSpaces bool) { e.insertSpaces = insertSpaces }
func (e *GoEngine) OptionGetInsertSpaces() bool             { return e.insertSpaces }

func (e *GoEngine) OptionSetAutoClosingPairs(enabled bool) { e.acp = enabled }
func (e *GoEngine) OptionGetAutoClosingPairs() bool        { return e.acp }

// SetAutoClosingPairs replaces the pair list. It cannot fail here.
func (e *GoEngine) SetAutoClosingPairs(pairs []native.AutoClosingPair) bool {
	e.pairs = append([]native.AutoClosingPair(nil), pairs...)
	return true
}

func (e *GoEngine) fireAutoCommand(event int, b *GoBuffer) {
	if e.callbacks.AutoCommand == nil {
		return
	}
	var buf native.Buf
	if b != nil {
		buf = native.Buf(b.id)
	}
	e.callbacks.AutoCommand(event, buf)
}

func (e *GoEngine) fireBufferUpdate(b *GoBuffer, lnum, lnume int, xtra int64) {
	if e.callbacks.BufferUpdate == nil {
		return
	}
	e.callbacks.BufferUpdate(native.BufferUpdate{
		Buf:   native.Buf(b.id),
		Lnum:  lnum,
		Lnume: lnume,
		Xtra:  xtra,
	})
}

func (e *GoEngine) message(priority int, title, contents string) {
	log.Debug("message", zap.Int("priority", priority), zap.String("contents", contents))
	if e.callbacks.Message != nil {
		e.callbacks.Message(title, contents, priority)
	}
}

func (e *GoEngine) errorf(contents string) {
	e.message(native.MsgError, "", contents)
}

func (e *GoEngine) fireQuit(b *GoBuffer, forced bool) {
	if e.callbacks.Quit == nil {
		return
	}
	var buf native.Buf
	if b != nil {
		buf = native.Buf(b.id)
	}
	e.callbacks.Quit(buf, forced)
}

func (e *GoEngine) fireWindowMovement(kind, count int) {
	if e.callbacks.WindowMovement != nil {
		e.callbacks.WindowMovement(kind, count)
	}
}

func (e *GoEngine) fireWindowSplit(kind int, path string) {
	if e.callbacks.WindowSplit != nil {
		e.callbacks.WindowSplit(kind, path)
	}
}

func (e *GoEngine) fireDirectoryChanged(path string) {
	if e.callbacks.DirectoryChanged != nil {
		e.callbacks.DirectoryChanged(path)
	}
}
