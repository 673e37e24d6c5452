package govim

import (
	"regexp"
	"strings"

	"github.com/slzatz/vimbridge/vim/native"
)

// compilePattern accepts Go regexp syntax plus vim's \< and \> word
// anchors. A pattern that does not compile is searched for literally.
func compilePattern(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	p := strings.NewReplacer(`\<`, `\b`, `\>`, `\b`).Replace(pattern)
	re, err := regexp.Compile(p)
	if err != nil {
		return regexp.MustCompile(regexp.QuoteMeta(pattern))
	}
	return re
}

// search starts a new search for pattern; an empty pattern repeats the
// last one.
func (e *GoEngine) search(pattern string, dir int) {
	if pattern != "" {
		e.searchPattern = pattern
	}
	if e.searchPattern == "" {
		e.errorf("E35: No previous regular expression")
		return
	}
	e.searchDirection = dir
	e.hlsearch = true
	e.searchNext(dir, 1)
}

// searchNext moves to the count'th match in direction dir, wrapping
// around the buffer.
func (e *GoEngine) searchNext(dir, count int) bool {
	re := compilePattern(e.searchPattern)
	if re == nil {
		e.errorf("E35: No previous regular expression")
		return false
	}
	e.hlsearch = true
	b := e.currentBuffer
	row, col := b.cursorRow, b.cursorCol
	for range count {
		r, c, wrapped, ok := b.find(re, row, col, dir)
		if !ok {
			e.errorf("E486: Pattern not found: " + e.searchPattern)
			return false
		}
		if wrapped {
			if dir > 0 {
				e.message(native.MsgWarning, "", "search hit BOTTOM, continuing at TOP")
			} else {
				e.message(native.MsgWarning, "", "search hit TOP, continuing at BOTTOM")
			}
		}
		row, col = r, c
	}
	b.setCursor(row, col)
	return true
}

// find returns the first match strictly after (dir > 0) or before
// (dir < 0) the given position.
func (b *GoBuffer) find(re *regexp.Regexp, row, col, dir int) (r, c int, wrapped, ok bool) {
	n := len(b.lines)
	for i := 0; i <= n; i++ {
		if dir > 0 {
			r = (row-1+i)%n + 1
		} else {
			r = ((row-1-i)%n+n)%n + 1
		}
		wrapped = wrapped || (dir > 0 && r < row) || (dir < 0 && r > row)
		matches := re.FindAllStringIndex(b.line(r), -1)
		if dir > 0 {
			for _, m := range matches {
				switch {
				case i == 0 && m[0] <= col:
				case i == n && m[0] > col:
				default:
					return r, m[0], wrapped || i == n, true
				}
			}
			continue
		}
		for j := len(matches) - 1; j >= 0; j-- {
			m := matches[j]
			switch {
			case i == 0 && m[0] >= col:
			case i == n && m[0] < col:
			default:
				return r, m[0], wrapped || i == n, true
			}
		}
	}
	return 0, 0, false, false
}

// SearchGetHighlights returns every match of the last pattern on lines
// start..end. End columns are exclusive.
func (e *GoEngine) SearchGetHighlights(start, end int) native.Array[native.Highlight] {
	var out []native.Highlight
	b := e.currentBuffer
	re := compilePattern(e.searchPattern)
	if b == nil || re == nil || !e.hlsearch {
		return newArray(out)
	}
	for row := max(start, 1); row <= min(end, len(b.lines)); row++ {
		for _, m := range re.FindAllStringIndex(b.line(row), -1) {
			if m[0] == m[1] {
				continue
			}
			out = append(out, native.Highlight{
				Start: native.Pos{Lnum: row, Col: m[0]},
				End:   native.Pos{Lnum: row, Col: m[1]},
			})
		}
	}
	return newArray(out)
}

var brackets = map[byte]struct {
	match byte
	dir   int
}{
	'(': {')', 1}, ')': {'(', -1},
	'[': {']', 1}, ']': {'[', -1},
	'{': {'}', 1}, '}': {'{', -1},
}

// SearchGetMatchingPair finds the bracket matching the first bracket at
// or after the cursor on the current line. flags is unused.
func (e *GoEngine) SearchGetMatchingPair(flags int) (native.Pos, bool) {
	b := e.currentBuffer
	if b == nil {
		return native.Pos{}, false
	}
	line := b.current()
	col := b.cursorCol
	for col < len(line) {
		if _, ok := brackets[line[col]]; ok {
			break
		}
		col++
	}
	if col >= len(line) {
		return native.Pos{}, false
	}

	open := line[col]
	br := brackets[open]
	r, c := b.cursorRow, col
	step := func() bool {
		if br.dir > 0 {
			c++
			for c >= len(b.line(r)) {
				if r++; r > len(b.lines) {
					return false
				}
				c = 0
			}
			return true
		}
		c--
		for c < 0 {
			if r--; r < 1 {
				return false
			}
			c = len(b.line(r)) - 1
		}
		return true
	}

	depth := 0
	for {
		switch b.line(r)[c] {
		case open:
			depth++
		case br.match:
			if depth--; depth == 0 {
				return native.Pos{Lnum: r, Col: c}, true
			}
		}
		if !step() {
			return native.Pos{}, false
		}
	}
}
