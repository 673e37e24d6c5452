package govim

import "unicode/utf8"

// motion is where a cursor motion lands. Operators use linewise and
// inclusive to decide how much text the motion covers.
type motion struct {
	row, col  int
	linewise  bool
	inclusive bool
}

// charClass groups bytes for word motions: 0 blank, 1 punctuation,
// 2 keyword. Bytes of multibyte characters count as keyword.
func charClass(c byte) int {
	switch {
	case c == ' ' || c == '\t':
		return 0
	case c == '_', c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= 0x80:
		return 2
	}
	return 1
}

func lastCharStart(s string) int {
	if s == "" {
		return 0
	}
	_, n := utf8.DecodeLastRuneInString(s)
	return len(s) - n
}

func nextCharStart(s string, col int) int {
	if col >= len(s) {
		return len(s)
	}
	_, n := utf8.DecodeRuneInString(s[col:])
	return col + n
}

func prevCharStart(s string, col int) int {
	if col <= 0 {
		return 0
	}
	_, n := utf8.DecodeLastRuneInString(s[:col])
	return col - n
}

func firstNonBlank(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return lastCharStart(s)
}

// motionFor resolves a motion key at the cursor. ok is false when k is
// not a motion.
func (e *GoEngine) motionFor(k string, count int, hasCount bool) (m motion, ok bool) {
	b := e.currentBuffer
	row, col := b.cursorRow, b.cursorCol
	line := b.current()

	switch k {
	case "h", "left":
		for range count {
			col = prevCharStart(line, col)
		}
		return motion{row: row, col: col}, true
	case "l", "right", " ":
		for range count {
			col = nextCharStart(line, col)
		}
		return motion{row: row, col: col}, true
	case "j", "down", "c-n":
		return motion{row: min(row+count, len(b.lines)), col: col, linewise: true}, true
	case "k", "up", "c-p":
		return motion{row: max(row-count, 1), col: col, linewise: true}, true
	case "0", "home":
		return motion{row: row}, true
	case "^":
		return motion{row: row, col: firstNonBlank(line)}, true
	case "$", "end":
		row = min(row+count-1, len(b.lines))
		return motion{row: row, col: lastCharStart(b.line(row)), inclusive: true}, true
	case "w":
		for range count {
			row, col = b.nextWordStart(row, col)
		}
		return motion{row: row, col: col}, true
	case "b":
		for range count {
			row, col = b.prevWordStart(row, col)
		}
		return motion{row: row, col: col}, true
	case "e":
		for range count {
			row, col = b.wordEnd(row, col)
		}
		return motion{row: row, col: col, inclusive: true}, true
	case "G":
		target := len(b.lines)
		if hasCount {
			target = min(count, len(b.lines))
		}
		return motion{row: target, col: firstNonBlank(b.line(target)), linewise: true}, true
	case "gg":
		target := 1
		if hasCount {
			target = min(count, len(b.lines))
		}
		return motion{row: target, col: firstNonBlank(b.line(target)), linewise: true}, true
	case "%":
		pos, found := e.SearchGetMatchingPair(0)
		if !found {
			return motion{}, false
		}
		return motion{row: pos.Lnum, col: pos.Col, inclusive: true}, true
	}
	return motion{}, false
}

// nextWordStart returns the start of the next word. An empty line
// counts as a word. On the last line it stops past the end.
func (b *GoBuffer) nextWordStart(row, col int) (int, int) {
	line := b.line(row)
	if col < len(line) {
		if cls := charClass(line[col]); cls != 0 {
			for col < len(line) && charClass(line[col]) == cls {
				col++
			}
		}
	}
	for {
		for col < len(line) && charClass(line[col]) == 0 {
			col++
		}
		if col < len(line) {
			return row, col
		}
		if row >= len(b.lines) {
			return row, len(line)
		}
		row++
		col = 0
		line = b.line(row)
		if line == "" {
			return row, 0
		}
	}
}

// wordEnd returns the last character of the current or next word.
func (b *GoBuffer) wordEnd(row, col int) (int, int) {
	line := b.line(row)
	col = nextCharStart(line, col)
	for {
		for col < len(line) && charClass(line[col]) == 0 {
			col++
		}
		if col < len(line) {
			break
		}
		if row >= len(b.lines) {
			return row, lastCharStart(line)
		}
		row++
		col = 0
		line = b.line(row)
	}
	cls := charClass(line[col])
	for col+1 < len(line) && charClass(line[col+1]) == cls {
		col++
	}
	return row, lastCharStart(line[:col+1])
}

// prevWordStart returns the start of the current or previous word.
func (b *GoBuffer) prevWordStart(row, col int) (int, int) {
	line := b.line(row)
	for {
		col--
		for col >= 0 && charClass(line[col]) == 0 {
			col--
		}
		if col >= 0 {
			break
		}
		if row <= 1 {
			return 1, 0
		}
		row--
		line = b.line(row)
		col = len(line)
		if line == "" {
			return row, 0
		}
	}
	cls := charClass(line[col])
	for col > 0 && charClass(line[col-1]) == cls {
		col--
	}
	return row, col
}
