package govim

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/slzatz/vimbridge/vim/native"
	"go.uber.org/zap"
)

// GoBuffer is the Go implementation of a vim buffer
type GoBuffer struct {
	id        int
	lines     []string
	name      string
	filetype  string
	modified  bool
	lastTick  int64
	cursorRow int // 1-based
	cursorCol int // byte offset

	undoStack []*undoState
	redoStack []*undoState
}

// undoState is a whole-buffer snapshot taken before a change.
type undoState struct {
	buf      *GoBuffer
	lines    []string
	row, col int
	tick     int64
}

// line returns the line at lnum (1-based); out of range lines are empty.
func (b *GoBuffer) line(lnum int) string {
	if lnum < 1 || lnum > len(b.lines) {
		return ""
	}
	return b.lines[lnum-1]
}

func (b *GoBuffer) current() string {
	return b.line(b.cursorRow)
}

// setCursor moves the cursor, clamping the row to the buffer and the
// column to the line length.
func (b *GoBuffer) setCursor(row, col int) {
	b.cursorRow = min(max(row, 1), len(b.lines))
	b.cursorCol = min(max(col, 0), len(b.current()))
}

// clampNormal keeps the cursor on a character. Insert mode may sit one
// past the end of the line.
func (b *GoBuffer) clampNormal(insert bool) {
	limit := len(b.current())
	if !insert {
		limit = lastCharStart(b.current())
	}
	b.cursorCol = min(max(b.cursorCol, 0), limit)
}

func (b *GoBuffer) snapshot() *undoState {
	return &undoState{
		buf:   b,
		lines: append([]string(nil), b.lines...),
		row:   b.cursorRow,
		col:   b.cursorCol,
		tick:  b.lastTick,
	}
}

// detectFiletype names the filetype for path the way vim's filetype
// plugin would: the lexer's short name, with plain text as "text".
func detectFiletype(path string) string {
	if path == "" {
		return ""
	}
	l := lexers.Match(filepath.Base(path))
	if l == nil {
		return ""
	}
	cfg := l.Config()
	name := strings.ToLower(cfg.Name)
	if name == "plaintext" {
		return "text"
	}
	if strings.ContainsAny(name, " +#/") && len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return name
}

// loadFile reads b's file. It reports whether the file existed; a
// missing file leaves the buffer with one empty line.
func (e *GoEngine) loadFile(b *GoBuffer) bool {
	data, err := os.ReadFile(b.name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.errorf("E484: Can't open file " + b.name)
			log.Warn("read failed", zap.String("name", b.name), zap.Error(err))
		}
		return false
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	b.lines = strings.Split(text, "\n")
	return true
}

// saveFile writes b to path with a trailing newline.
func (e *GoEngine) saveFile(b *GoBuffer, path string) error {
	e.fireAutoCommand(native.EventBufWritePre, b)
	data := strings.Join(b.lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return err
	}
	if path == b.name {
		b.modified = false
	}
	e.fireAutoCommand(native.EventBufWritePost, b)
	return nil
}

// change replaces lines from..to (inclusive, 1-based) with repl and
// reports the edit. to == from-1 inserts repl before line from. The
// buffer always keeps at least one line.
func (e *GoEngine) change(b *GoBuffer, from, to int, repl []string) {
	removed := to - from + 1
	lines := make([]string, 0, len(b.lines)-removed+len(repl))
	lines = append(lines, b.lines[:from-1]...)
	lines = append(lines, repl...)
	lines = append(lines, b.lines[to:]...)
	xtra := int64(len(repl) - removed)
	if len(lines) == 0 {
		lines = []string{""}
		xtra++
	}
	b.lines = lines
	b.modified = true
	b.lastTick++
	e.fireBufferUpdate(b, from, to+1, xtra)
}

func (e *GoEngine) setLine(b *GoBuffer, lnum int, text string) {
	e.change(b, lnum, lnum, []string{text})
}

func (e *GoEngine) insertLines(b *GoBuffer, before int, lines []string) {
	e.change(b, before, before-1, lines)
}

func (e *GoEngine) deleteLines(b *GoBuffer, from, to int) {
	e.change(b, from, to, nil)
}

// beginUndo snapshots the current buffer when a new command starts.
func (e *GoEngine) beginUndo() {
	if e.undoBase == nil && e.idle() && e.currentBuffer != nil {
		e.undoBase = e.currentBuffer.snapshot()
	}
}

// endUndo records the snapshot once the command has finished, if the
// command changed the buffer.
func (e *GoEngine) endUndo() {
	if e.undoBase == nil || !e.idle() {
		return
	}
	base := e.undoBase
	e.undoBase = nil
	if b := base.buf; b.lastTick != base.tick {
		b.undoStack = append(b.undoStack, base)
		b.redoStack = nil
	}
}

func (e *GoEngine) undo() {
	b := e.currentBuffer
	if len(b.undoStack) == 0 {
		e.message(native.MsgInfo, "", "Already at oldest change")
		return
	}
	s := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]
	b.redoStack = append(b.redoStack, b.snapshot())
	e.restore(b, s)
}

func (e *GoEngine) redo() {
	b := e.currentBuffer
	if len(b.redoStack) == 0 {
		e.message(native.MsgInfo, "", "Already at newest change")
		return
	}
	s := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]
	b.undoStack = append(b.undoStack, b.snapshot())
	e.restore(b, s)
}

func (e *GoEngine) restore(b *GoBuffer, s *undoState) {
	e.change(b, 1, len(b.lines), append([]string(nil), s.lines...))
	b.setCursor(s.row, s.col)
	b.clampNormal(false)
}
