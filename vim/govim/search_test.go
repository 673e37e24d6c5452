package govim

import (
	"testing"

	"github.com/slzatz/vimbridge/vim/native"
)

func TestSearch(t *testing.T) {
	tests := []struct {
		name    string
		start   [2]int
		keys    string
		wantRow int
		wantCol int
	}{
		{"Forward", [2]int{1, 0}, "/bar<CR>", 1, 4},
		{"Forward next line", [2]int{1, 4}, "/bar<CR>", 2, 0},
		{"Next match", [2]int{1, 0}, "/bar<CR>n", 2, 0},
		{"Wraps to top", [2]int{3, 0}, "/foo<CR>", 1, 0},
		{"Backward", [2]int{3, 0}, "?bar<CR>", 2, 8},
		{"Reverse direction", [2]int{1, 0}, "/bar<CR>nN", 1, 4},
		{"Regexp", [2]int{1, 0}, "/b.z<CR>", 1, 8},
		{"Word anchor", [2]int{1, 0}, `/\<baz<CR>`, 1, 8},
		{"Invalid regexp is literal", [2]int{1, 0}, "/([<CR>", 3, 4},
		{"Count", [2]int{1, 0}, "/bar<CR>2n", 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t,
				"foo bar baz",
				"bar and bar",
				"bar ([x",
			)
			engine.currentBuffer.setCursor(tt.start[0], tt.start[1])
			feed(engine, tt.keys)

			if engine.CursorGetLine() != tt.wantRow || engine.CursorGetColumn() != tt.wantCol {
				t.Errorf("Expected cursor at (%d,%d), got (%d,%d)",
					tt.wantRow, tt.wantCol, engine.CursorGetLine(), engine.CursorGetColumn())
			}
			if engine.Mode() != native.Normal {
				t.Errorf("Expected normal mode, got %#x", engine.Mode())
			}
		})
	}

	t.Run("Not found", func(t *testing.T) {
		engine, rec := newTestEngine(t, "abc")
		feed(engine, "/zzz<CR>")
		if len(rec.messages) != 1 || rec.messages[0] != "E486: Pattern not found: zzz" {
			t.Errorf("Unexpected messages %v", rec.messages)
		}
	})
}

func TestSearchHighlights(t *testing.T) {
	engine, _ := newTestEngine(t,
		"foo bar foo",
		"nothing",
		"foo",
	)

	t.Run("No pattern", func(t *testing.T) {
		hl := engine.SearchGetHighlights(1, 3)
		if hl.Len() != 0 {
			t.Errorf("Expected no highlights, got %d", hl.Len())
		}
	})

	feed(engine, "/foo<CR>")

	t.Run("All lines", func(t *testing.T) {
		hl := engine.SearchGetHighlights(1, 3)
		want := []native.Highlight{
			{Start: native.Pos{Lnum: 1, Col: 0}, End: native.Pos{Lnum: 1, Col: 3}},
			{Start: native.Pos{Lnum: 1, Col: 8}, End: native.Pos{Lnum: 1, Col: 11}},
			{Start: native.Pos{Lnum: 3, Col: 0}, End: native.Pos{Lnum: 3, Col: 3}},
		}
		if hl.Len() != len(want) {
			t.Fatalf("Expected %d highlights, got %d", len(want), hl.Len())
		}
		for i, w := range want {
			if hl.At(i) != w {
				t.Errorf("Highlight %d: expected %v, got %v", i, w, hl.At(i))
			}
		}
		hl.Free()
		if hl.Len() != 0 {
			t.Error("Expected freed array to be empty")
		}
	})

	t.Run("Within range", func(t *testing.T) {
		hl := engine.SearchGetHighlights(2, 3)
		for i := 0; i < hl.Len(); i++ {
			h := hl.At(i)
			if h.Start.Lnum < 2 || h.End.Lnum > 3 {
				t.Errorf("Highlight %v outside lines 2..3", h)
			}
		}
		if hl.Len() != 1 {
			t.Errorf("Expected 1 highlight, got %d", hl.Len())
		}
	})

	t.Run("Empty range", func(t *testing.T) {
		if hl := engine.SearchGetHighlights(3, 1); hl.Len() != 0 {
			t.Errorf("Expected no highlights, got %d", hl.Len())
		}
	})

	t.Run("Cleared by nohlsearch", func(t *testing.T) {
		engine.Execute("noh")
		if hl := engine.SearchGetHighlights(1, 3); hl.Len() != 0 {
			t.Errorf("Expected no highlights, got %d", hl.Len())
		}
	})
}
