package cli

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlightLine colors one screen line with the lexer for filetype.
// Lines are tokenised on their own, so constructs spanning lines such
// as block comments are colored per line. Unknown filetypes, unknown
// styles and lexer errors leave the line as it is.
func highlightLine(line, filetype, style string) string {
	if line == "" || filetype == "" || style == "" {
		return line
	}
	l := lexers.Get(filetype)
	if l == nil {
		return line
	}
	l = chroma.Coalesce(l)

	s, ok := styles.Registry[style]
	if !ok {
		return line
	}

	it, err := l.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var sb strings.Builder
	if err := formatters.TTY256.Format(&sb, s, it); err != nil {
		return line
	}
	return strings.TrimRight(sb.String(), "\n")
}
