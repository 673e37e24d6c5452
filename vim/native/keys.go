package native

import (
	"strings"
	"unicode/utf8"
)

// SplitKeys splits host input into engine keys. Text such as "<Esc>"
// or "<C-w>" becomes one notation key; every other rune is a literal
// key. A '<' that does not start a complete notation is literal.
func SplitKeys(s string) []string {
	var keys []string
	for len(s) > 0 {
		if s[0] == '<' {
			if end := strings.IndexByte(s, '>'); end > 1 && !strings.ContainsAny(s[1:end], "< ") {
				keys = append(keys, s[:end+1])
				s = s[end+1:]
				continue
			}
		}
		_, n := utf8.DecodeRuneInString(s)
		keys = append(keys, s[:n])
		s = s[n:]
	}
	return keys
}

// IsNotation reports whether key is a <notation> key.
func IsNotation(key string) bool {
	return len(key) > 2 && key[0] == '<' && key[len(key)-1] == '>'
}

// NormalizeKey maps a notation key or control character to a canonical
// lower-case name such as "esc", "cr", "bs", "tab", "c-w" or "lt".
// Literal printable keys are returned unchanged.
func NormalizeKey(key string) string {
	if IsNotation(key) {
		name := strings.ToLower(key[1 : len(key)-1])
		switch name {
		case "return", "enter":
			return "cr"
		case "backspace":
			return "bs"
		case "escape":
			return "esc"
		case "delete":
			return "del"
		}
		if strings.HasPrefix(name, "ctrl-") {
			return "c-" + strings.TrimPrefix(name, "ctrl-")
		}
		return name
	}
	if len(key) == 1 {
		switch c := key[0]; {
		case c == 0x1b:
			return "esc"
		case c == '\r' || c == '\n':
			return "cr"
		case c == '\t':
			return "tab"
		case c == 0x7f || c == 0x08:
			return "bs"
		case c > 0 && c < 0x20:
			return "c-" + string(rune('a'+c-1))
		}
	}
	return key
}
