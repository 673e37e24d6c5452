package govim

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/slzatz/vimbridge/vim/native"
	"go.uber.org/zap"
)

// exArgs is a parsed ex command line.
type exArgs struct {
	from, to int
	ranged   bool
	bang     bool
	arg      string
}

type exCmd struct {
	name   string
	abbrev int // shortest accepted prefix
	run    func(e *GoEngine, a exArgs)
}

var exCommands = []exCmd{
	{"buffer", 1, (*GoEngine).exBuffer},
	{"bdelete", 2, (*GoEngine).exBdelete},
	{"bnext", 2, (*GoEngine).exBnext},
	{"bprevious", 2, (*GoEngine).exBprevious},
	{"cd", 2, (*GoEngine).exCd},
	{"delete", 1, (*GoEngine).exDelete},
	{"edit", 1, (*GoEngine).exEdit},
	{"echo", 2, (*GoEngine).exEcho},
	{"join", 1, (*GoEngine).exJoin},
	{"new", 3, func(e *GoEngine, a exArgs) { e.fireWindowSplit(native.SplitHorizontal, e.abs(a.arg)) }},
	{"nohlsearch", 3, func(e *GoEngine, a exArgs) { e.hlsearch = false }},
	{"pwd", 2, func(e *GoEngine, a exArgs) { e.message(native.MsgInfo, "", e.cwd) }},
	{"qall", 2, func(e *GoEngine, a exArgs) { e.fireQuit(nil, a.bang) }},
	{"quit", 1, func(e *GoEngine, a exArgs) { e.fireQuit(e.currentBuffer, a.bang) }},
	{"set", 2, (*GoEngine).exSet},
	{"split", 2, func(e *GoEngine, a exArgs) { e.exSplit(native.SplitHorizontal, a) }},
	{"substitute", 1, (*GoEngine).exSubstitute},
	{"vnew", 3, func(e *GoEngine, a exArgs) { e.fireWindowSplit(native.SplitVertical, e.abs(a.arg)) }},
	{"vsplit", 2, func(e *GoEngine, a exArgs) { e.exSplit(native.SplitVertical, a) }},
	{"write", 1, func(e *GoEngine, a exArgs) { e.exWrite(a) }},
	{"wq", 2, (*GoEngine).exWq},
	{"xit", 1, (*GoEngine).exXit},
	{"yank", 1, (*GoEngine).exYank},
}

func lookupCommand(name string) *exCmd {
	if name == "" {
		return nil
	}
	for i := range exCommands {
		c := &exCommands[i]
		if len(name) >= c.abbrev && strings.HasPrefix(c.name, name) {
			return c
		}
	}
	return nil
}

// exCommand parses and runs one ex command line. A bare range moves
// the cursor to its last line.
func (e *GoEngine) exCommand(cmdline string) {
	s := strings.TrimLeft(cmdline, " :")
	if s == "" {
		return
	}
	a, rest, ok := e.parseRange(s)
	if !ok {
		e.errorf("E16: Invalid range")
		return
	}
	rest = strings.TrimLeft(rest, " ")
	if rest == "" {
		if a.ranged {
			b := e.currentBuffer
			b.setCursor(a.to, 0)
			b.cursorCol = firstNonBlank(b.current())
		}
		return
	}
	i := 0
	for i < len(rest) && (rest[i] >= 'a' && rest[i] <= 'z' || rest[i] >= 'A' && rest[i] <= 'Z') {
		i++
	}
	name := rest[:i]
	rest = rest[i:]
	if strings.HasPrefix(rest, "!") {
		a.bang = true
		rest = rest[1:]
	}
	a.arg = strings.TrimSpace(rest)
	c := lookupCommand(name)
	if c == nil {
		e.errorf("E492: Not an editor command: " + strings.TrimSpace(cmdline))
		return
	}
	log.Debug("ex command", zap.String("name", c.name), zap.String("arg", a.arg), zap.Bool("bang", a.bang))
	c.run(e, a)
}

// parseRange reads an optional "%", "N" or "N,M" prefix, where each
// address is a number, "." or "$". Without a range both ends are the
// cursor line.
func (e *GoEngine) parseRange(s string) (exArgs, string, bool) {
	b := e.currentBuffer
	n := len(b.lines)
	a := exArgs{from: b.cursorRow, to: b.cursorRow}
	if strings.HasPrefix(s, "%") {
		a.from, a.to, a.ranged = 1, n, true
		return a, s[1:], true
	}
	from, s, ok := e.parseAddress(s)
	if !ok {
		return a, s, true
	}
	a.from, a.to, a.ranged = from, from, true
	if strings.HasPrefix(s, ",") {
		to, rest, ok := e.parseAddress(s[1:])
		if !ok {
			return a, s, false
		}
		a.to, s = to, rest
	}
	if a.from > a.to {
		a.from, a.to = a.to, a.from
	}
	a.from = min(max(a.from, 1), n)
	a.to = min(max(a.to, 1), n)
	return a, s, true
}

func (e *GoEngine) parseAddress(s string) (int, string, bool) {
	switch {
	case s == "":
		return 0, s, false
	case s[0] == '.':
		return e.currentBuffer.cursorRow, s[1:], true
	case s[0] == '$':
		return len(e.currentBuffer.lines), s[1:], true
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, _ := strconv.Atoi(s[:i])
	return n, s[i:], true
}

func (e *GoEngine) exEdit(a exArgs) {
	b := e.currentBuffer
	if a.arg != "" {
		e.BufferOpen(a.arg, 1, 0)
		return
	}
	if b.name == "" {
		e.errorf("E32: No file name")
		return
	}
	if b.modified && !a.bang {
		e.errorf("E37: No write since last change (add ! to override)")
		return
	}
	n := len(b.lines)
	if e.loadFile(b) {
		b.lastTick++
		b.modified = false
		e.fireBufferUpdate(b, 1, n+1, int64(len(b.lines)-n))
		b.setCursor(b.cursorRow, b.cursorCol)
		b.clampNormal(false)
	}
}

// exWrite writes the buffer, naming an unnamed buffer after the given
// file. It reports whether the write succeeded.
func (e *GoEngine) exWrite(a exArgs) bool {
	b := e.currentBuffer
	path := b.name
	if a.arg != "" {
		path = e.abs(a.arg)
		if b.name == "" {
			b.name = path
			b.filetype = detectFiletype(path)
		}
	}
	if path == "" {
		e.errorf("E32: No file name")
		return false
	}
	if err := e.saveFile(b, path); err != nil {
		log.Warn("write failed", zap.String("path", path), zap.Error(err))
		e.errorf("E212: Can't open file for writing: " + path)
		return false
	}
	size := 0
	for _, l := range b.lines {
		size += len(l) + 1
	}
	e.message(native.MsgInfo, "", fmt.Sprintf("%q %dL, %dB written", path, len(b.lines), size))
	return true
}

func (e *GoEngine) exWq(a exArgs) {
	if e.exWrite(exArgs{arg: a.arg}) {
		e.fireQuit(e.currentBuffer, a.bang)
	}
}

func (e *GoEngine) exXit(a exArgs) {
	if e.currentBuffer.modified && !e.exWrite(exArgs{arg: a.arg}) {
		return
	}
	e.fireQuit(e.currentBuffer, a.bang)
}

func (e *GoEngine) exSet(a exArgs) {
	for _, f := range strings.Fields(a.arg) {
		e.setOption(f)
	}
}

var boolOptions = map[string]string{
	"et": "expandtab", "expandtab": "expandtab",
	"acp": "autoclosingpairs", "autoclosingpairs": "autoclosingpairs",
	"hls": "hlsearch", "hlsearch": "hlsearch",
}

// setOption handles one :set argument: "opt=val", "opt", "noopt" or
// "opt?".
func (e *GoEngine) setOption(f string) {
	name, value, hasValue := strings.Cut(f, "=")
	query := strings.HasSuffix(name, "?")
	name = strings.TrimSuffix(name, "?")

	if name == "ts" || name == "tabstop" {
		if query || !hasValue {
			e.message(native.MsgInfo, "", fmt.Sprintf("  tabstop=%d", e.tabSize))
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			e.errorf("E487: Argument must be positive: " + f)
			return
		}
		e.tabSize = n
		return
	}

	on := true
	full, ok := boolOptions[name]
	if !ok && strings.HasPrefix(name, "no") {
		full, ok = boolOptions[name[2:]]
		on = false
	}
	switch {
	case !ok:
		e.errorf("E518: Unknown option: " + name)
		return
	case hasValue:
		e.errorf("E474: Invalid argument: " + f)
		return
	}
	target := map[string]*bool{
		"expandtab":        &e.insertSpaces,
		"autoclosingpairs": &e.acp,
		"hlsearch":         &e.hlsearch,
	}[full]
	if query {
		prefix := "  "
		if !*target {
			prefix += "no"
		}
		e.message(native.MsgInfo, "", prefix+full)
		return
	}
	*target = on
}

func (e *GoEngine) exCd(a exArgs) {
	target := a.arg
	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			e.errorf("E472: Command failed")
			return
		}
		target = home
	}
	path := e.abs(target)
	if fi, err := os.Stat(path); err != nil || !fi.IsDir() {
		e.errorf(fmt.Sprintf("E344: Can't find directory %q in cdpath", target))
		return
	}
	e.cwd = path
	e.fireDirectoryChanged(path)
}

// exSplit reports a split request; the host owns window layout. With
// no argument the new window shows the current file.
func (e *GoEngine) exSplit(kind int, a exArgs) {
	path := e.currentBuffer.name
	if a.arg != "" {
		path = e.abs(a.arg)
	}
	e.fireWindowSplit(kind, path)
}

func (e *GoEngine) exBuffer(a exArgs) {
	if a.arg == "" {
		return
	}
	n, err := strconv.Atoi(a.arg)
	if err != nil {
		var found []*GoBuffer
		for _, id := range e.sortedIds() {
			if b := e.buffers[id]; strings.Contains(b.name, a.arg) {
				found = append(found, b)
			}
		}
		switch len(found) {
		case 0:
			e.errorf("E94: No matching buffer for " + a.arg)
		case 1:
			e.switchTo(found[0])
		default:
			e.errorf("E93: More than one match for " + a.arg)
		}
		return
	}
	b, ok := e.buffers[n]
	if !ok {
		e.errorf(fmt.Sprintf("E86: Buffer %d does not exist", n))
		return
	}
	e.switchTo(b)
}

func (e *GoEngine) exBnext(a exArgs)     { e.cycleBuffer(1) }
func (e *GoEngine) exBprevious(a exArgs) { e.cycleBuffer(-1) }

func (e *GoEngine) cycleBuffer(dir int) {
	ids := e.sortedIds()
	i := sort.SearchInts(ids, e.currentBuffer.id)
	e.switchTo(e.buffers[ids[(i+dir+len(ids))%len(ids)]])
}

// exBdelete removes a buffer. Deleting the current buffer moves to the
// next one, or to a fresh unnamed buffer when it was the last.
func (e *GoEngine) exBdelete(a exArgs) {
	b := e.currentBuffer
	if a.arg != "" {
		n, err := strconv.Atoi(a.arg)
		if b = e.buffers[n]; err != nil || b == nil {
			e.errorf("E516: No buffers were deleted: bd " + a.arg)
			return
		}
	}
	if b.modified && !a.bang {
		e.errorf(fmt.Sprintf("E89: No write since last change for buffer %d (add ! to override)", b.id))
		return
	}
	e.fireAutoCommand(native.EventBufUnload, b)
	e.fireAutoCommand(native.EventBufDelete, b)
	delete(e.buffers, b.id)
	if b != e.currentBuffer {
		return
	}
	ids := e.sortedIds()
	var next *GoBuffer
	if len(ids) == 0 {
		next = e.newBuffer("")
		e.fireAutoCommand(native.EventBufNew, next)
	} else {
		i := sort.SearchInts(ids, b.id)
		next = e.buffers[ids[i%len(ids)]]
	}
	e.currentBuffer = nil
	e.switchTo(next)
}

func (e *GoEngine) exEcho(a exArgs) {
	text := a.arg
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		text = text[1 : len(text)-1]
	}
	e.message(native.MsgInfo, "", text)
}

func (e *GoEngine) exDelete(a exArgs) {
	e.operate("d", native.Pos{Lnum: a.from}, native.Pos{Lnum: a.to}, true)
}

func (e *GoEngine) exYank(a exArgs) {
	b := e.currentBuffer
	e.yank(strings.Join(b.lines[a.from-1:a.to], "\n"), true)
}

func (e *GoEngine) exJoin(a exArgs) {
	to := a.to
	if to == a.from {
		to = min(a.from+1, len(e.currentBuffer.lines))
	}
	e.joinLines(a.from, to)
}

// exSubstitute runs :s/pattern/replacement/flags over the range. & and
// \1..\9 in the replacement refer to the match and its groups.
func (e *GoEngine) exSubstitute(a exArgs) {
	b := e.currentBuffer
	if a.arg == "" {
		e.errorf("E35: No previous regular expression")
		return
	}
	sep := a.arg[:1]
	parts := strings.SplitN(a.arg[1:], sep, 3)
	pattern := parts[0]
	var repl, flags string
	if len(parts) > 1 {
		repl = parts[1]
	}
	if len(parts) > 2 {
		flags = parts[2]
	}
	if pattern == "" {
		pattern = e.searchPattern
	}
	re := compilePattern(pattern)
	if re == nil {
		e.errorf("E35: No previous regular expression")
		return
	}
	e.searchPattern = pattern
	template := replacementTemplate(repl)
	global := strings.Contains(flags, "g")

	lines := make([]string, 0, a.to-a.from+1)
	last := 0
	for r := a.from; r <= a.to; r++ {
		line := b.line(r)
		next := substitute(re, line, template, global)
		if next != line {
			last = r
		}
		lines = append(lines, next)
	}
	if last == 0 {
		e.errorf("E486: Pattern not found: " + pattern)
		return
	}
	e.change(b, a.from, a.to, lines)
	b.setCursor(last, 0)
	b.cursorCol = firstNonBlank(b.current())
}

func substitute(re *regexp.Regexp, line, template string, global bool) string {
	if global {
		return re.ReplaceAllString(line, template)
	}
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil {
		return line
	}
	out := re.ExpandString(nil, template, line, loc)
	return line[:loc[0]] + string(out) + line[loc[1]:]
}

// replacementTemplate converts vim replacement syntax to a regexp
// template.
func replacementTemplate(repl string) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		switch {
		case c == '&':
			sb.WriteString("${0}")
		case c == '$':
			sb.WriteString("$$")
		case c == '\\' && i+1 < len(repl):
			i++
			if d := repl[i]; d >= '0' && d <= '9' {
				sb.WriteString("${" + string(d) + "}")
			} else {
				sb.WriteByte(d)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// completions lists candidates for the word being typed on an ex
// command line: command names, option names, buffers or files.
func (e *GoEngine) completions() []string {
	if e.cmdType != native.CmdEx {
		return nil
	}
	text := strings.TrimLeft(e.cmdText, " :")
	name, arg, hasArg := strings.Cut(text, " ")
	if !hasArg {
		var out []string
		for _, c := range exCommands {
			if strings.HasPrefix(c.name, name) {
				out = append(out, c.name)
			}
		}
		return out
	}
	name = strings.TrimSuffix(name, "!")
	c := lookupCommand(name)
	if c == nil {
		return nil
	}
	word := arg[strings.LastIndexByte(arg, ' ')+1:]
	switch c.name {
	case "edit", "write", "split", "vsplit", "new", "vnew", "wq", "xit":
		return e.fileCompletions(word, false)
	case "cd":
		return e.fileCompletions(word, true)
	case "set":
		var out []string
		for _, o := range []string{"autoclosingpairs", "expandtab", "hlsearch", "tabstop"} {
			if strings.HasPrefix(o, word) {
				out = append(out, o)
			}
		}
		return out
	case "buffer", "bdelete":
		var out []string
		for _, id := range e.sortedIds() {
			if b := e.buffers[id]; b.name != "" && strings.Contains(b.name, word) {
				out = append(out, b.name)
			}
		}
		return out
	}
	return nil
}

// fileCompletions lists entries under the working directory that start
// with prefix. Directories get a trailing slash.
func (e *GoEngine) fileCompletions(prefix string, dirsOnly bool) []string {
	dir, base := filepath.Split(prefix)
	prefixDir := dir
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(e.abs(dir))
	if err != nil {
		return nil
	}
	var out []string
	for _, ent := range entries {
		n := ent.Name()
		if !strings.HasPrefix(n, base) || (strings.HasPrefix(n, ".") && !strings.HasPrefix(base, ".")) {
			continue
		}
		name := n
		if prefixDir != "" {
			name = filepath.Join(prefixDir, n)
		}
		if ent.IsDir() {
			out = append(out, name+string(filepath.Separator))
		} else if !dirsOnly {
			out = append(out, name)
		}
	}
	return out
}
