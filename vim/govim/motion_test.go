package govim

import (
	"testing"
)

func TestBasicMotions(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		wantRow int
		wantCol int
	}{
		{"Move down", "j", 2, 0},
		{"Move down with count", "2j", 3, 0},
		{"Move down stops at last line", "9j", 4, 0},
		{"Move right", "l", 1, 1},
		{"Move right with count", "3l", 1, 3},
		{"Move right stops at last char", "99l", 1, 13},
		{"Move left at start", "h", 1, 0},
		{"End of line", "$", 1, 13},
		{"End of next line", "2$", 2, 17},
		{"Start of line", "$0", 1, 0},
		{"First non-blank", "jjj^", 4, 2},
		{"Last line", "G", 4, 2},
		{"Line with count", "2G", 2, 0},
		{"First line", "Ggg", 1, 0},
		{"Line with gg count", "3gg", 3, 0},
		{"Arrow keys", "<Down><Right>", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t,
				"Line one here!",
				"Line two is longer",
				"Short",
				"  indented",
			)
			feed(engine, tt.keys)

			if engine.CursorGetLine() != tt.wantRow || engine.CursorGetColumn() != tt.wantCol {
				t.Errorf("Expected cursor at (%d,%d), got (%d,%d)",
					tt.wantRow, tt.wantCol, engine.CursorGetLine(), engine.CursorGetColumn())
			}
		})
	}
}

func TestWordMotions(t *testing.T) {
	tests := []struct {
		name    string
		start   [2]int
		keys    string
		wantRow int
		wantCol int
	}{
		{"Next word", [2]int{1, 0}, "w", 1, 4},
		{"Next word over punctuation", [2]int{1, 4}, "w", 1, 7},
		{"Punctuation is its own word", [2]int{1, 7}, "w", 1, 9},
		{"Next word crosses lines", [2]int{1, 9}, "w", 2, 0},
		{"Empty line is a word", [2]int{2, 5}, "w", 3, 0},
		{"Word count", [2]int{1, 0}, "3w", 1, 9},
		{"End of word", [2]int{1, 0}, "e", 1, 2},
		{"End of next word", [2]int{1, 2}, "e", 1, 6},
		{"Back a word", [2]int{1, 9}, "b", 1, 7},
		{"Back from line start", [2]int{2, 0}, "b", 1, 9},
		{"Back over empty line", [2]int{4, 0}, "b", 3, 0},
		{"Last word stops at end", [2]int{4, 0}, "w", 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t,
				"foo bar.(baz",
				"next line",
				"",
				"final",
			)
			engine.currentBuffer.setCursor(tt.start[0], tt.start[1])
			feed(engine, tt.keys)

			if engine.CursorGetLine() != tt.wantRow || engine.CursorGetColumn() != tt.wantCol {
				t.Errorf("Expected cursor at (%d,%d), got (%d,%d)",
					tt.wantRow, tt.wantCol, engine.CursorGetLine(), engine.CursorGetColumn())
			}
		})
	}
}

func TestMatchingPair(t *testing.T) {
	tests := []struct {
		name    string
		start   [2]int
		wantRow int
		wantCol int
		found   bool
	}{
		{"Open paren", [2]int{1, 8}, 1, 14, true},
		{"Close paren", [2]int{1, 14}, 1, 8, true},
		{"Bracket after cursor", [2]int{1, 0}, 1, 14, true},
		{"Across lines", [2]int{1, 16}, 3, 0, true},
		{"Back across lines", [2]int{3, 0}, 1, 16, true},
		{"Nested", [2]int{2, 1}, 2, 11, true},
		{"No bracket", [2]int{4, 0}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t,
				"func foo(a int) {",
				"\tx := [y[0]]",
				"}",
				"plain",
			)
			engine.currentBuffer.setCursor(tt.start[0], tt.start[1])
			pos, ok := engine.SearchGetMatchingPair(0)

			if ok != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, ok)
			}
			if ok && (pos.Lnum != tt.wantRow || pos.Col != tt.wantCol) {
				t.Errorf("Expected (%d,%d), got (%d,%d)", tt.wantRow, tt.wantCol, pos.Lnum, pos.Col)
			}
		})
	}

	t.Run("Percent motion", func(t *testing.T) {
		engine, _ := newTestEngine(t, "(a (b) c)")
		feed(engine, "%")
		if engine.CursorGetColumn() != 8 {
			t.Errorf("Expected column 8, got %d", engine.CursorGetColumn())
		}
	})
}
