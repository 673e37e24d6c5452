package govim

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/slzatz/vimbridge/vim/native"
)

// literalNames maps key names that stand for printable characters.
var literalNames = map[string]string{
	"lt":     "<",
	"space":  " ",
	"bar":    "|",
	"bslash": `\`,
}

// keyText returns the text a key inserts, if any. A lone byte that is
// not valid UTF-8 is inserted as is.
func keyText(k string) (string, bool) {
	if k == "" {
		return "", false
	}
	r, n := utf8.DecodeRuneInString(k)
	if r == utf8.RuneError && n == 1 && len(k) == 1 {
		return k, true
	}
	if n != len(k) || r == utf8.RuneError || !unicode.IsPrint(r) {
		return "", false
	}
	return k, true
}

func isOperator(p string) bool {
	switch p {
	case "d", "c", "y", ">", "<":
		return true
	}
	return false
}

func isCount(k string, pending int) bool {
	return len(k) == 1 && k[0] >= '0' && k[0] <= '9' && (k != "0" || pending > 0)
}

func (e *GoEngine) resetPending() {
	e.count = 0
	e.opCount = 0
	e.pending = ""
	e.gPending = false
}

// takeCount consumes the typed counts. The operator count and the
// motion count multiply, so 2d3w deletes six words.
func (e *GoEngine) takeCount() (count int, hasCount bool) {
	hasCount = e.count > 0 || e.opCount > 0
	count = max(e.count, 1) * max(e.opCount, 1)
	e.count = 0
	e.opCount = 0
	return count, hasCount
}

func (e *GoEngine) normalKey(k string) {
	b := e.currentBuffer
	if k == "esc" || k == "c-c" {
		e.resetPending()
		return
	}
	switch e.pending {
	case "r":
		count, _ := e.takeCount()
		e.pending = ""
		e.replaceChars(k, count)
		return
	case "c-w":
		count, _ := e.takeCount()
		e.pending = ""
		e.windowCommand(k, count)
		return
	}
	if isCount(k, e.count) {
		e.count = e.count*10 + int(k[0]-'0')
		return
	}
	if e.gPending {
		e.gPending = false
		if k != "g" {
			e.resetPending()
			return
		}
		k = "gg"
	} else if k == "g" {
		e.gPending = true
		return
	}

	if op := e.pending; isOperator(op) {
		e.pending = ""
		count, hasCount := e.takeCount()
		e.operatorKey(op, k, count, hasCount)
		return
	}

	switch k {
	case "d", "c", "y", ">", "<":
		e.pending = k
		e.opCount, e.count = e.count, 0
		return
	case "r", "c-w":
		e.pending = k
		return
	}

	count, hasCount := e.takeCount()
	row, col := b.cursorRow, b.cursorCol
	line := b.current()
	switch k {
	case "i", "insert":
		e.mode = native.Insert
	case "a":
		b.cursorCol = nextCharStart(line, col)
		e.mode = native.Insert
	case "I":
		b.cursorCol = firstNonBlank(line)
		e.mode = native.Insert
	case "A":
		b.cursorCol = len(line)
		e.mode = native.Insert
	case "o":
		e.insertLines(b, row+1, []string{""})
		b.setCursor(row+1, 0)
		e.mode = native.Insert
	case "O":
		e.insertLines(b, row, []string{""})
		b.setCursor(row, 0)
		e.mode = native.Insert
	case "R":
		e.mode = native.Replace
	case "v":
		e.startVisual(native.VisualChar)
	case "V":
		e.startVisual(native.VisualLine)
	case "c-v":
		e.startVisual(native.VisualBlock)
	case ":", "/", "?":
		e.openCmdline(k[0])
	case "n":
		e.searchNext(e.searchDirection, count)
	case "N":
		e.searchNext(-e.searchDirection, count)
	case "x", "del":
		if line != "" {
			e.operatorKey("d", "l", count, hasCount)
		}
	case "X":
		if col > 0 {
			e.operatorKey("d", "h", count, hasCount)
		}
	case "s":
		e.operatorKey("c", "l", count, hasCount)
	case "D":
		e.operatorKey("d", "$", count, hasCount)
	case "C":
		e.operatorKey("c", "$", count, hasCount)
	case "S":
		e.operatorKey("c", "c", count, hasCount)
	case "Y":
		e.operatorKey("y", "y", count, hasCount)
	case "J":
		e.joinLines(row, min(row+max(count, 2)-1, len(b.lines)))
	case "p":
		e.put(true, count)
	case "P":
		e.put(false, count)
	case "~":
		e.toggleCase(count)
	default:
		if m, ok := e.motionFor(k, count, hasCount); ok {
			b.setCursor(m.row, m.col)
			b.clampNormal(false)
		}
	}
}

// operatorKey applies op over the text covered by motion key k. A
// doubled operator (dd, yy, >>) works on count whole lines.
func (e *GoEngine) operatorKey(op, k string, count int, hasCount bool) {
	b := e.currentBuffer
	start := native.Pos{Lnum: b.cursorRow, Col: b.cursorCol}
	if k == op {
		end := native.Pos{Lnum: min(start.Lnum+count-1, len(b.lines))}
		e.operate(op, native.Pos{Lnum: start.Lnum}, end, true)
		return
	}
	if op == "c" && k == "w" && start.Col < len(b.current()) && charClass(b.current()[start.Col]) != 0 {
		k = "e"
	}
	m, ok := e.motionFor(k, count, hasCount)
	if !ok {
		return
	}
	if k == "w" && m.row > start.Lnum {
		m = motion{row: start.Lnum, col: len(b.current())}
	}
	end := native.Pos{Lnum: m.row, Col: m.col}
	if before(end, start) {
		start, end = end, start
	}
	if m.linewise {
		e.operate(op, start, end, true)
		return
	}
	if m.inclusive {
		end.Col = nextCharStart(b.line(end.Lnum), end.Col)
	}
	if start == end {
		return
	}
	e.operate(op, start, end, false)
}

func before(a, b native.Pos) bool {
	return a.Lnum < b.Lnum || (a.Lnum == b.Lnum && a.Col < b.Col)
}

// operate applies op to lines start..end (linewise) or to the text from
// start up to the exclusive end position.
func (e *GoEngine) operate(op string, start, end native.Pos, linewise bool) {
	b := e.currentBuffer
	if op == ">" || op == "<" {
		e.shiftLines(start.Lnum, end.Lnum, op == ">")
		return
	}
	if linewise {
		e.yank(strings.Join(b.lines[start.Lnum-1:end.Lnum], "\n"), true)
		switch op {
		case "y":
			b.setCursor(start.Lnum, b.cursorCol)
		case "d":
			e.deleteLines(b, start.Lnum, end.Lnum)
			b.setCursor(start.Lnum, 0)
			b.cursorCol = firstNonBlank(b.current())
		case "c":
			e.change(b, start.Lnum, end.Lnum, []string{""})
			b.setCursor(start.Lnum, 0)
			e.mode = native.Insert
		}
		return
	}
	e.yank(b.textRange(start, end), false)
	switch op {
	case "y":
		b.setCursor(start.Lnum, start.Col)
	case "d", "c":
		first := b.line(start.Lnum)
		last := b.line(end.Lnum)
		e.change(b, start.Lnum, end.Lnum, []string{first[:min(start.Col, len(first))] + last[min(end.Col, len(last)):]})
		b.setCursor(start.Lnum, start.Col)
		if op == "c" {
			e.mode = native.Insert
		} else {
			b.clampNormal(false)
		}
	}
}

// textRange returns the text from start up to the exclusive end.
func (b *GoBuffer) textRange(start, end native.Pos) string {
	first := b.line(start.Lnum)
	if start.Lnum == end.Lnum {
		return first[min(start.Col, len(first)):min(end.Col, len(first))]
	}
	parts := []string{first[min(start.Col, len(first)):]}
	for r := start.Lnum + 1; r < end.Lnum; r++ {
		parts = append(parts, b.line(r))
	}
	last := b.line(end.Lnum)
	parts = append(parts, last[:min(end.Col, len(last))])
	return strings.Join(parts, "\n")
}

func (e *GoEngine) yank(text string, linewise bool) {
	e.register = text
	e.registerLinewise = linewise
}

// put inserts the register count times after (p) or before (P) the
// cursor.
func (e *GoEngine) put(after bool, count int) {
	b := e.currentBuffer
	if e.register == "" && !e.registerLinewise {
		e.errorf(`E353: Nothing in register "`)
		return
	}
	row, col := b.cursorRow, b.cursorCol
	if e.registerLinewise {
		var lines []string
		for range count {
			lines = append(lines, strings.Split(e.register, "\n")...)
		}
		at := row
		if after {
			at++
		}
		e.insertLines(b, at, lines)
		b.setCursor(at, 0)
		b.cursorCol = firstNonBlank(b.current())
		return
	}
	line := b.current()
	if after && line != "" {
		col = nextCharStart(line, col)
	}
	parts := strings.Split(strings.Repeat(e.register, count), "\n")
	if len(parts) == 1 {
		e.setLine(b, row, line[:col]+parts[0]+line[col:])
		b.setCursor(row, lastCharStart(line[:col]+parts[0]))
		return
	}
	repl := append([]string{line[:col] + parts[0]}, parts[1:len(parts)-1]...)
	repl = append(repl, parts[len(parts)-1]+line[col:])
	e.change(b, row, row, repl)
	b.setCursor(row, col)
}

// joinLines joins lines from..to into one, separating them with a
// single space.
func (e *GoEngine) joinLines(from, to int) {
	b := e.currentBuffer
	if to <= from {
		return
	}
	joined := b.line(from)
	col := len(joined)
	for r := from + 1; r <= to; r++ {
		next := strings.TrimLeft(b.line(r), " \t")
		col = len(joined)
		switch {
		case next == "":
		case joined == "" || strings.HasSuffix(joined, " "):
			joined += next
		default:
			joined += " " + next
		}
	}
	e.change(b, from, to, []string{joined})
	b.setCursor(from, col)
	b.clampNormal(false)
}

// replaceChars overwrites count characters with the typed character.
// Nothing happens if the line is too short.
func (e *GoEngine) replaceChars(k string, count int) {
	text, ok := keyText(k)
	if !ok {
		return
	}
	b := e.currentBuffer
	line := b.current()
	end := b.cursorCol
	for range count {
		if end >= len(line) {
			return
		}
		end = nextCharStart(line, end)
	}
	repl := strings.Repeat(text, count)
	e.setLine(b, b.cursorRow, line[:b.cursorCol]+repl+line[end:])
	b.cursorCol = lastCharStart(line[:b.cursorCol] + repl)
}

func (e *GoEngine) toggleCase(count int) {
	b := e.currentBuffer
	line := b.current()
	if line == "" {
		return
	}
	end := b.cursorCol
	for range count {
		end = nextCharStart(line, end)
	}
	seg := []rune(line[b.cursorCol:end])
	for i, r := range seg {
		if unicode.IsUpper(r) {
			seg[i] = unicode.ToLower(r)
		} else {
			seg[i] = unicode.ToUpper(r)
		}
	}
	e.setLine(b, b.cursorRow, line[:b.cursorCol]+string(seg)+line[end:])
	b.cursorCol = end
	b.clampNormal(false)
}

func (e *GoEngine) indentUnit() string {
	if e.insertSpaces {
		return strings.Repeat(" ", e.tabSize)
	}
	return "\t"
}

// shiftLines indents or dedents lines from..to by one tab stop.
func (e *GoEngine) shiftLines(from, to int, right bool) {
	b := e.currentBuffer
	repl := make([]string, 0, to-from+1)
	for r := from; r <= to; r++ {
		line := b.line(r)
		switch {
		case right && line != "":
			line = e.indentUnit() + line
		case !right && strings.HasPrefix(line, "\t"):
			line = line[1:]
		case !right:
			n := 0
			for n < len(line) && n < e.tabSize && line[n] == ' ' {
				n++
			}
			line = line[n:]
		}
		repl = append(repl, line)
	}
	e.change(b, from, to, repl)
	b.setCursor(from, 0)
	b.cursorCol = firstNonBlank(b.current())
}

var windowKeys = map[string]int{
	"h": native.WinCursorLeft, "left": native.WinCursorLeft, "c-h": native.WinCursorLeft,
	"l": native.WinCursorRight, "right": native.WinCursorRight, "c-l": native.WinCursorRight,
	"k": native.WinCursorUp, "up": native.WinCursorUp, "c-k": native.WinCursorUp,
	"j": native.WinCursorDown, "down": native.WinCursorDown, "c-j": native.WinCursorDown,
	"H": native.WinMoveFullLeft,
	"L": native.WinMoveFullRight,
	"K": native.WinMoveFullUp,
	"J": native.WinMoveFullDown,
	"t": native.WinCursorTopLeft, "c-t": native.WinCursorTopLeft,
	"b": native.WinCursorBottomRight, "c-b": native.WinCursorBottomRight,
	"p": native.WinCursorPrevious, "c-p": native.WinCursorPrevious,
	"r": native.WinMoveRotateDownwards, "c-r": native.WinMoveRotateDownwards,
	"R": native.WinMoveRotateUpwards,
}

// windowCommand handles the key after <C-w>. Window layout belongs to
// the host, so the engine only reports what was asked for.
func (e *GoEngine) windowCommand(k string, count int) {
	if kind, ok := windowKeys[k]; ok {
		e.fireWindowMovement(kind, count)
		return
	}
	name := e.currentBuffer.name
	switch k {
	case "s", "S", "c-s":
		e.fireWindowSplit(native.SplitHorizontal, name)
	case "v", "c-v":
		e.fireWindowSplit(native.SplitVertical, name)
	case "n", "c-n":
		e.fireWindowSplit(native.SplitHorizontal, "")
	}
}

func (e *GoEngine) insertKey(k string) {
	b := e.currentBuffer
	row, col := b.cursorRow, b.cursorCol
	line := b.current()
	switch k {
	case "esc", "c-c", "c-[":
		e.mode = native.Normal
		b.cursorCol = prevCharStart(line, col)
		b.clampNormal(false)
	case "cr", "c-j", "c-m":
		e.change(b, row, row, []string{line[:col], line[col:]})
		b.setCursor(row+1, 0)
	case "bs", "c-h":
		e.backspace()
	case "del":
		switch {
		case col < len(line):
			e.setLine(b, row, line[:col]+line[nextCharStart(line, col):])
		case row < len(b.lines):
			e.change(b, row, row+1, []string{line + b.line(row+1)})
		}
		b.setCursor(row, col)
	case "tab":
		text := "\t"
		if e.insertSpaces {
			text = strings.Repeat(" ", e.tabSize-col%e.tabSize)
		}
		e.insertText(text)
	case "left":
		b.cursorCol = prevCharStart(line, col)
	case "right":
		b.cursorCol = nextCharStart(line, col)
	case "up":
		b.setCursor(row-1, col)
	case "down":
		b.setCursor(row+1, col)
	case "home":
		b.cursorCol = 0
	case "end":
		b.cursorCol = len(line)
	default:
		if text, ok := keyText(k); ok {
			e.insertText(text)
		}
	}
}

func (e *GoEngine) backspace() {
	b := e.currentBuffer
	row, col := b.cursorRow, b.cursorCol
	line := b.current()
	if e.mode == native.Replace {
		b.cursorCol = prevCharStart(line, col)
		return
	}
	if col == 0 {
		if row > 1 {
			prev := b.line(row - 1)
			e.change(b, row-1, row, []string{prev + line})
			b.setCursor(row-1, len(prev))
		}
		return
	}
	from, to := prevCharStart(line, col), col
	if e.acp && col < len(line) {
		open, _ := utf8.DecodeRuneInString(line[from:])
		next, n := utf8.DecodeRuneInString(line[col:])
		if c, ok := e.closeFor(open); ok && c == next {
			to = col + n
		}
	}
	e.setLine(b, row, line[:from]+line[to:])
	b.cursorCol = from
}

func (e *GoEngine) closeFor(open rune) (rune, bool) {
	for _, p := range e.pairs {
		if p.Open == open {
			return p.Close, true
		}
	}
	return 0, false
}

func (e *GoEngine) isClose(r rune) bool {
	for _, p := range e.pairs {
		if p.Close == r {
			return true
		}
	}
	return false
}

// insertText types text at the cursor. In replace mode it overwrites.
// With auto-closing pairs on, an opening character also inserts its
// closer and typing a closer over an identical one just moves past it.
func (e *GoEngine) insertText(text string) {
	b := e.currentBuffer
	row, col := b.cursorRow, b.cursorCol
	line := b.current()
	if e.mode == native.Replace {
		end := col
		for range utf8.RuneCountInString(text) {
			end = nextCharStart(line, end)
		}
		e.setLine(b, row, line[:col]+text+line[end:])
		b.cursorCol = col + len(text)
		return
	}
	if e.acp && utf8.RuneCountInString(text) == 1 {
		r, _ := utf8.DecodeRuneInString(text)
		if e.isClose(r) && strings.HasPrefix(line[col:], text) {
			b.cursorCol = col + len(text)
			return
		}
		if c, ok := e.closeFor(r); ok {
			e.setLine(b, row, line[:col]+text+string(c)+line[col:])
			b.cursorCol = col + len(text)
			return
		}
	}
	e.setLine(b, row, line[:col]+text+line[col:])
	b.cursorCol = col + len(text)
}

func (e *GoEngine) startVisual(t byte) {
	b := e.currentBuffer
	e.visualActive = true
	e.visualType = t
	e.visualStart = native.Pos{Lnum: b.cursorRow, Col: b.cursorCol}
}

var visualKeys = map[string]byte{
	"v":   native.VisualChar,
	"V":   native.VisualLine,
	"c-v": native.VisualBlock,
}

func (e *GoEngine) visualKey(k string) {
	b := e.currentBuffer
	if isCount(k, e.count) {
		e.count = e.count*10 + int(k[0]-'0')
		return
	}
	if e.gPending {
		e.gPending = false
		if k != "g" {
			e.count = 0
			return
		}
		k = "gg"
	} else if k == "g" {
		e.gPending = true
		return
	}
	count, hasCount := e.takeCount()

	if t, ok := visualKeys[k]; ok {
		if t == e.visualType {
			e.visualActive = false
		} else {
			e.visualType = t
		}
		return
	}
	switch k {
	case "esc", "c-c":
		e.visualActive = false
	case "o":
		anchor := e.visualStart
		e.visualStart = native.Pos{Lnum: b.cursorRow, Col: b.cursorCol}
		b.setCursor(anchor.Lnum, anchor.Col)
	case ":":
		e.visualActive = false
		e.openCmdline(':')
	case "d", "x", "del":
		e.visualOperator("d")
	case "c", "s":
		e.visualOperator("c")
	case "y", ">", "<":
		e.visualOperator(k)
	case "J":
		start, end := e.visualLines()
		e.visualActive = false
		e.joinLines(start, max(end, start+1))
	default:
		if m, ok := e.motionFor(k, count, hasCount); ok {
			b.setCursor(m.row, m.col)
			b.clampNormal(false)
		}
	}
}

func (e *GoEngine) visualLines() (int, int) {
	a, c := e.visualStart.Lnum, e.currentBuffer.cursorRow
	return min(a, c), max(a, c)
}

// visualOperator applies op to the selection and leaves visual mode.
func (e *GoEngine) visualOperator(op string) {
	b := e.currentBuffer
	start := e.visualStart
	end := native.Pos{Lnum: b.cursorRow, Col: b.cursorCol}
	if before(end, start) {
		start, end = end, start
	}
	e.visualActive = false
	switch e.visualType {
	case native.VisualLine:
		e.operate(op, start, end, true)
	case native.VisualBlock:
		e.blockOperate(op, start.Lnum, end.Lnum, min(e.visualStart.Col, b.cursorCol), max(e.visualStart.Col, b.cursorCol))
	default:
		end.Col = nextCharStart(b.line(end.Lnum), end.Col)
		e.operate(op, start, end, false)
	}
}

// blockOperate applies op to the rectangle of columns left..right
// (inclusive) on lines from..to.
func (e *GoEngine) blockOperate(op string, from, to, left, right int) {
	b := e.currentBuffer
	if op == ">" || op == "<" {
		e.shiftLines(from, to, op == ">")
		return
	}
	var cut, kept []string
	for r := from; r <= to; r++ {
		line := b.line(r)
		lo := min(left, len(line))
		hi := min(nextCharStart(line, right), len(line))
		cut = append(cut, line[lo:hi])
		kept = append(kept, line[:lo]+line[hi:])
	}
	e.yank(strings.Join(cut, "\n"), false)
	if op != "y" {
		e.change(b, from, to, kept)
	}
	b.setCursor(from, left)
	if op == "c" {
		e.mode = native.Insert
	} else {
		b.clampNormal(false)
	}
}

func (e *GoEngine) openCmdline(t byte) {
	e.cmdType = t
	e.cmdText = ""
	e.cmdPos = 0
}

func (e *GoEngine) closeCmdline() {
	e.cmdType = native.CmdNone
	e.cmdText = ""
	e.cmdPos = 0
}

func (e *GoEngine) cmdlineKey(k string) {
	text, pos := e.cmdText, e.cmdPos
	switch k {
	case "esc", "c-c":
		e.closeCmdline()
	case "cr", "c-j", "c-m":
		t := e.cmdType
		e.closeCmdline()
		switch t {
		case native.CmdEx:
			e.exCommand(text)
		case native.CmdForward:
			e.search(text, 1)
		case native.CmdBackward:
			e.search(text, -1)
		}
	case "bs", "c-h":
		if text == "" {
			e.closeCmdline()
			return
		}
		if pos > 0 {
			p := prevCharStart(text, pos)
			e.cmdText, e.cmdPos = text[:p]+text[pos:], p
		}
	case "del":
		if pos < len(text) {
			e.cmdText = text[:pos] + text[nextCharStart(text, pos):]
		}
	case "left":
		e.cmdPos = prevCharStart(text, pos)
	case "right":
		e.cmdPos = nextCharStart(text, pos)
	case "home", "c-b":
		e.cmdPos = 0
	case "end", "c-e":
		e.cmdPos = len(text)
	case "c-u":
		e.cmdText, e.cmdPos = text[pos:], 0
	case "tab":
		e.completeCmdline()
	default:
		if s, ok := keyText(k); ok {
			e.cmdText = text[:pos] + s + text[pos:]
			e.cmdPos = pos + len(s)
		}
	}
}

// completeCmdline replaces the word being typed with its first
// completion.
func (e *GoEngine) completeCmdline() {
	options := e.completions()
	if len(options) == 0 {
		return
	}
	i := strings.LastIndexByte(e.cmdText, ' ') + 1
	e.cmdText = e.cmdText[:i] + options[0]
	e.cmdPos = len(e.cmdText)
}

func (e *GoEngine) CommandLineGetText() (string, bool) {
	if e.cmdType == native.CmdNone {
		return "", false
	}
	return e.cmdText, true
}

func (e *GoEngine) CommandLineGetPosition() int { return e.cmdPos }

func (e *GoEngine) CommandLineGetType() byte { return e.cmdType }

func (e *GoEngine) CommandLineGetCompletions() native.Array[string] {
	return newArray(e.completions())
}
