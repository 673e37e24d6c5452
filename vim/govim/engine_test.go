package govim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/slzatz/vimbridge/vim/native"
)

// recorder collects callback traffic.
type recorder struct {
	updates  []native.BufferUpdate
	autocmds []int
	messages []string
	quits    []native.Buf
	forced   []bool
	moves    []int
	splits   []string
	dirs     []string
}

func (r *recorder) callbacks() native.Callbacks {
	return native.Callbacks{
		BufferUpdate:     func(u native.BufferUpdate) { r.updates = append(r.updates, u) },
		AutoCommand:      func(ev int, buf native.Buf) { r.autocmds = append(r.autocmds, ev) },
		DirectoryChanged: func(path string) { r.dirs = append(r.dirs, path) },
		Message:          func(title, contents string, priority int) { r.messages = append(r.messages, contents) },
		Quit: func(buf native.Buf, forced bool) {
			r.quits = append(r.quits, buf)
			r.forced = append(r.forced, forced)
		},
		WindowMovement: func(kind, count int) { r.moves = append(r.moves, kind) },
		WindowSplit:    func(kind int, path string) { r.splits = append(r.splits, path) },
	}
}

// newTestEngine returns an initialized engine whose current buffer
// holds lines, with the cursor on line 1.
func newTestEngine(t *testing.T, lines ...string) (*GoEngine, *recorder) {
	t.Helper()
	engine := NewEngine()
	engine.cwd = t.TempDir()
	rec := &recorder{}
	engine.SetCallbacks(rec.callbacks())
	engine.Init(nil)
	if len(lines) > 0 {
		engine.currentBuffer.lines = append([]string(nil), lines...)
	}
	return engine, rec
}

func feed(e *GoEngine, keys string) {
	for _, k := range native.SplitKeys(keys) {
		if native.IsNotation(k) {
			e.Key(k)
		} else {
			e.Input(k)
		}
	}
}

func lines(e *GoEngine) string {
	return strings.Join(e.currentBuffer.lines, "\n")
}

func TestInitCreatesUnnamedBuffer(t *testing.T) {
	engine, rec := newTestEngine(t)

	cur := engine.BufferGetCurrent()
	if engine.BufferGetID(cur) != 1 {
		t.Errorf("Expected buffer 1, got %d", engine.BufferGetID(cur))
	}
	if _, ok := engine.BufferGetFilename(cur); ok {
		t.Error("Expected unnamed buffer to have no filename")
	}
	if ft, ok := engine.BufferGetFiletype(cur); ok {
		t.Errorf("Expected unnamed buffer to have no filetype, got %q", ft)
	}
	if engine.BufferGetLineCount(cur) != 1 {
		t.Errorf("Expected 1 line, got %d", engine.BufferGetLineCount(cur))
	}
	want := []int{native.EventBufNew, native.EventBufEnter}
	if len(rec.autocmds) != 2 || rec.autocmds[0] != want[0] || rec.autocmds[1] != want[1] {
		t.Errorf("Expected autocommands %v, got %v", want, rec.autocmds)
	}
	if engine.Mode() != native.Normal {
		t.Errorf("Expected normal mode, got %#x", engine.Mode())
	}
}

func TestBufferOpen(t *testing.T) {
	engine, rec := newTestEngine(t)
	path := filepath.Join(engine.cwd, "main.go")
	if err := os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec.autocmds = nil

	buf := engine.BufferOpen("main.go", 1, 0)

	if engine.BufferGetCurrent() != buf {
		t.Error("Expected opened buffer to be current")
	}
	if name, _ := engine.BufferGetFilename(buf); name != path {
		t.Errorf("Expected filename %q, got %q", path, name)
	}
	if ft, _ := engine.BufferGetFiletype(buf); ft != "go" {
		t.Errorf("Expected filetype go, got %q", ft)
	}
	if engine.BufferGetLineCount(buf) != 3 {
		t.Errorf("Expected 3 lines, got %d", engine.BufferGetLineCount(buf))
	}
	if engine.BufferGetLine(buf, 3) != "func main() {}" {
		t.Errorf("Unexpected line 3: %q", engine.BufferGetLine(buf, 3))
	}
	if engine.BufferGetModified(buf) {
		t.Error("Expected freshly read buffer to be unmodified")
	}

	want := []int{
		native.EventBufNew, native.EventBufReadPre, native.EventBufReadPost,
		native.EventBufLeave, native.EventBufEnter, native.EventBufWinEnter,
	}
	if len(rec.autocmds) != len(want) {
		t.Fatalf("Expected autocommands %v, got %v", want, rec.autocmds)
	}
	for i := range want {
		if rec.autocmds[i] != want[i] {
			t.Errorf("Autocommand %d: expected %d, got %d", i, want[i], rec.autocmds[i])
		}
	}

	t.Run("Reopen returns the same buffer", func(t *testing.T) {
		if again := engine.BufferOpen(path, 1, 0); again != buf {
			t.Errorf("Expected buffer %d, got %d", buf, again)
		}
	})

	t.Run("Missing file is a new file", func(t *testing.T) {
		rec.autocmds = nil
		nb := engine.BufferOpen("new.txt", 1, 0)
		if engine.BufferGetLineCount(nb) != 1 || engine.BufferGetLine(nb, 1) != "" {
			t.Error("Expected one empty line")
		}
		if rec.autocmds[2] != native.EventBufNewFile {
			t.Errorf("Expected BufNewFile, got %v", rec.autocmds)
		}
		if ft, _ := engine.BufferGetFiletype(nb); ft != "text" {
			t.Errorf("Expected filetype text, got %q", ft)
		}
	})

	t.Run("Unknown extension", func(t *testing.T) {
		nb := engine.BufferOpen("notes.zzqq", 1, 0)
		if ft, ok := engine.BufferGetFiletype(nb); ok {
			t.Errorf("Expected no filetype, got %q", ft)
		}
	})
}

func TestBufferHandles(t *testing.T) {
	engine, _ := newTestEngine(t)
	first := engine.BufferGetCurrent()
	second := engine.BufferOpen("other.txt", 1, 0)

	if engine.BufferGetByID(engine.BufferGetID(second)) != second {
		t.Error("Expected id round trip to return the same handle")
	}
	if engine.BufferGetByID(99) != 0 {
		t.Error("Expected unknown id to give the null handle")
	}
	if engine.BufferGetID(0) != 0 {
		t.Error("Expected the null handle to have id 0")
	}

	engine.BufferSetCurrent(first)
	if engine.BufferGetCurrent() != first {
		t.Error("Expected first buffer to be current again")
	}
	engine.BufferSetCurrent(0)
	if engine.BufferGetCurrent() != first {
		t.Error("Expected null handle to be ignored")
	}
}

func TestBufferUpdates(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		keys  string
		want  native.BufferUpdate
	}{
		{"Insert character", []string{"abc"}, "ix", native.BufferUpdate{Lnum: 1, Lnume: 2, Xtra: 0}},
		{"Open line below", []string{"a", "b"}, "o", native.BufferUpdate{Lnum: 2, Lnume: 2, Xtra: 1}},
		{"Delete two lines", []string{"a", "b", "c"}, "2dd", native.BufferUpdate{Lnum: 1, Lnume: 3, Xtra: -2}},
		{"Split line", []string{"abcd"}, "ll" + "i<CR>", native.BufferUpdate{Lnum: 1, Lnume: 2, Xtra: 1}},
		{"Join lines", []string{"a", "b"}, "J", native.BufferUpdate{Lnum: 1, Lnume: 3, Xtra: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, rec := newTestEngine(t, tt.lines...)
			tick := engine.currentBuffer.lastTick
			feed(engine, tt.keys)

			if len(rec.updates) == 0 {
				t.Fatal("Expected a buffer update")
			}
			got := rec.updates[0]
			tt.want.Buf = engine.BufferGetCurrent()
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
			if engine.currentBuffer.lastTick <= tick {
				t.Error("Expected changed tick to advance")
			}
			if !engine.currentBuffer.modified {
				t.Error("Expected buffer to be modified")
			}
		})
	}
}

func TestInsertMode(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		keys    string
		want    string
		wantCol int
	}{
		{"Insert and escape", []string{""}, "iHello<Esc>", "Hello", 4},
		{"Append", []string{"ab"}, "aX<Esc>", "aXb", 1},
		{"Append at end", []string{"ab"}, "A!<Esc>", "ab!", 2},
		{"Insert at first non-blank", []string{"  ab"}, "I-<Esc>", "  -ab", 2},
		{"Backspace", []string{"abc"}, "A<BS><Esc>", "ab", 1},
		{"Backspace joins lines", []string{"ab", "cd"}, "j" + "i<BS><Esc>", "abcd", 1},
		{"Delete key", []string{"abc"}, "i<Del><Esc>", "bc", 0},
		{"Enter splits line", []string{"abcd"}, "lli<CR><Esc>", "ab\ncd", 0},
		{"Open below", []string{"a"}, "ob<Esc>", "a\nb", 0},
		{"Open above", []string{"a"}, "Ob<Esc>", "b\na", 0},
		{"Replace mode", []string{"abcd"}, "RXY<Esc>", "XYcd", 1},
		{"Literal less-than", []string{""}, "i<lt>a<Esc>", "<a", 1},
		{"Multibyte", []string{""}, "iéa<Esc>", "éa", 2},
		{"Invalid UTF-8 bytes", []string{""}, "i\xff\xfe<Esc>", "\xff\xfe", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t, tt.lines...)
			feed(engine, tt.keys)
			if got := lines(engine); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if engine.CursorGetColumn() != tt.wantCol {
				t.Errorf("Expected column %d, got %d", tt.wantCol, engine.CursorGetColumn())
			}
			if engine.Mode() != native.Normal {
				t.Errorf("Expected normal mode after <Esc>, got %#x", engine.Mode())
			}
		})
	}
}

func TestInsertTab(t *testing.T) {
	engine, _ := newTestEngine(t, "ab")
	engine.OptionSetTabSize(4)
	engine.OptionSetInsertSpaces(true)
	feed(engine, "A<Tab>x<Esc>")
	if got := lines(engine); got != "ab  x" {
		t.Errorf("Expected spaces to the next tab stop, got %q", got)
	}

	engine.OptionSetInsertSpaces(false)
	feed(engine, "0i<Tab><Esc>")
	if got := lines(engine); got != "\tab  x" {
		t.Errorf("Expected a tab character, got %q", got)
	}
}

func TestAutoClosingPairs(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"Open inserts close", "i(<Esc>", "()"},
		{"Typing close skips over", "i()x<Esc>", "()x"},
		{"Backspace removes pair", "i(<BS><Esc>", ""},
		{"Quotes", `i"a"<Esc>`, `"a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t)
			engine.OptionSetAutoClosingPairs(true)
			feed(engine, tt.keys)
			if got := lines(engine); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("Custom pairs", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		engine.OptionSetAutoClosingPairs(true)
		if !engine.SetAutoClosingPairs([]native.AutoClosingPair{{Open: '<', Close: '>'}}) {
			t.Fatal("Expected pairs to be accepted")
		}
		feed(engine, "i<lt>(<Esc>")
		if got := lines(engine); got != "<(>" {
			t.Errorf("Expected %q, got %q", "<(>", got)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		feed(engine, "i(<Esc>")
		if got := lines(engine); got != "(" {
			t.Errorf("Expected %q, got %q", "(", got)
		}
	})
}

func TestOptions(t *testing.T) {
	engine, _ := newTestEngine(t)

	if engine.OptionGetTabSize() != 8 {
		t.Errorf("Expected default tab size 8, got %d", engine.OptionGetTabSize())
	}
	engine.OptionSetTabSize(2)
	if engine.OptionGetTabSize() != 2 {
		t.Errorf("Expected tab size 2, got %d", engine.OptionGetTabSize())
	}
	engine.OptionSetTabSize(0)
	if engine.OptionGetTabSize() != 2 {
		t.Error("Expected non-positive tab size to be ignored")
	}
	for _, v := range []bool{true, false} {
		engine.OptionSetInsertSpaces(v)
		if engine.OptionGetInsertSpaces() != v {
			t.Errorf("Expected insert spaces %v", v)
		}
		engine.OptionSetAutoClosingPairs(v)
		if engine.OptionGetAutoClosingPairs() != v {
			t.Errorf("Expected auto-closing pairs %v", v)
		}
	}
}

func TestCursorAndWindow(t *testing.T) {
	var content []string
	for i := 0; i < 100; i++ {
		content = append(content, "line")
	}
	engine, _ := newTestEngine(t, content...)

	if engine.WindowGetWidth() != defaultWidth || engine.WindowGetHeight() != defaultHeight {
		t.Errorf("Unexpected window size %dx%d", engine.WindowGetWidth(), engine.WindowGetHeight())
	}

	t.Run("Set position clamps", func(t *testing.T) {
		engine.CursorSetPosition(native.Pos{Lnum: 500, Col: 99})
		if engine.CursorGetLine() != 100 || engine.CursorGetColumn() != 3 {
			t.Errorf("Expected (100,3), got (%d,%d)", engine.CursorGetLine(), engine.CursorGetColumn())
		}
	})

	t.Run("Window follows cursor", func(t *testing.T) {
		if top := engine.WindowGetTopLine(); top != 100-defaultHeight+1 {
			t.Errorf("Expected top line %d, got %d", 100-defaultHeight+1, top)
		}
		feed(engine, "gg")
		if engine.WindowGetTopLine() != 1 {
			t.Errorf("Expected top line 1, got %d", engine.WindowGetTopLine())
		}
	})

	t.Run("Set top left moves cursor into view", func(t *testing.T) {
		engine.WindowSetTopLeft(50, 2)
		if engine.WindowGetTopLine() != 50 || engine.WindowGetLeftColumn() != 2 {
			t.Errorf("Expected (50,2), got (%d,%d)", engine.WindowGetTopLine(), engine.WindowGetLeftColumn())
		}
		if engine.CursorGetLine() != 50 {
			t.Errorf("Expected cursor on line 50, got %d", engine.CursorGetLine())
		}
	})

	t.Run("Resize", func(t *testing.T) {
		engine.WindowSetWidth(120)
		engine.WindowSetHeight(40)
		if engine.WindowGetWidth() != 120 || engine.WindowGetHeight() != 40 {
			t.Errorf("Expected 120x40, got %dx%d", engine.WindowGetWidth(), engine.WindowGetHeight())
		}
	})
}

func TestUndoRedo(t *testing.T) {
	engine, _ := newTestEngine(t, "one")

	feed(engine, "A two<Esc>")
	feed(engine, "A three<Esc>")
	if got := lines(engine); got != "one two three" {
		t.Fatalf("Unexpected text %q", got)
	}

	feed(engine, "u")
	if got := lines(engine); got != "one two" {
		t.Errorf("Expected first undo to give %q, got %q", "one two", got)
	}
	feed(engine, "u")
	if got := lines(engine); got != "one" {
		t.Errorf("Expected second undo to give %q, got %q", "one", got)
	}
	feed(engine, "<C-r>")
	if got := lines(engine); got != "one two" {
		t.Errorf("Expected redo to give %q, got %q", "one two", got)
	}
}
