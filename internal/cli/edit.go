package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/slzatz/vimbridge/rawmode"
	"github.com/slzatz/vimbridge/terminal"
	"github.com/slzatz/vimbridge/vim"
)

// ErrNotTerminal is returned by edit when stdin or stdout is redirected.
var ErrNotTerminal = errors.New("edit needs an interactive terminal")

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	modeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E1E")).
			Background(lipgloss.Color("#98FB98")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	fillerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func newEditCommand(flags *globalFlags) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "edit [FILE]",
		Short: "Edit FILE interactively in the terminal",
		Long: `Edit FILE with the engine in a full-screen terminal view.

Keys go straight to the engine. The session ends when the engine asks
to quit, for example after :q or :wq.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return ErrNotTerminal
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			h, err := newHost(cmd.Context(), cfg, flags.cgoSQLite, true)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if _, err := h.bridge.BufferOpen(args[0]); err != nil {
					h.close()
					return err
				}
			}

			loopErr := editLoop(h, os.Stdout, style)
			if err := h.close(); err != nil && loopErr == nil {
				loopErr = err
			}
			return loopErr
		},
	}

	cmd.Flags().StringVar(&style, "style", "monokai", "chroma style for syntax colors, empty to disable")

	return cmd
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func editLoop(h *host, stdout io.Writer, style string) error {
	state, err := rawmode.Enable()
	if err != nil {
		return err
	}
	defer rawmode.Restore(state)

	out := bufio.NewWriter(stdout)
	defer func() {
		fmt.Fprint(out, "\x1b[2J\x1b[H\x1b[?25h")
		out.Flush()
	}()

	var status vim.Message
	for !h.quit {
		cols, rows := 80, 24
		if ws, err := rawmode.GetWindowSize(); err == nil {
			cols, rows = ws.Fit()
		}
		// two rows for the status line and the command line
		h.bridge.SetWindowWidth(cols)
		h.bridge.SetWindowHeight(max(rows-2, 1))

		if m := h.takeMessage(); m.Body != "" {
			status = m
		}
		v := viewOf(h.bridge, status, cols, rows)
		v.style = style
		render(out, v)
		if err := out.Flush(); err != nil {
			return err
		}

		key, err := terminal.ReadKey()
		if errors.Is(err, terminal.ErrNoInput) {
			continue
		}
		if err != nil {
			return err
		}
		notation := key.Notation()
		if notation == "" {
			continue
		}
		status = vim.Message{}
		if err := h.bridge.Input(notation); err != nil {
			status = vim.Message{Priority: vim.MessageError, Body: err.Error()}
		}
	}
	return nil
}

// view is everything render draws, captured from the bridge.
type view struct {
	cols, rows int
	lines      []string
	top        int
	tabSize    int
	cursor     vim.Position
	mode       vim.Mode
	name       string
	filetype   string
	style      string
	modified   bool
	cmdline    vim.Option[string]
	cmdType    vim.CmdlineType
	cmdPos     int
	message    vim.Message
}

var cmdlinePrefix = map[vim.CmdlineType]string{
	vim.CmdlineCommand:        ":",
	vim.CmdlineSearchForward:  "/",
	vim.CmdlineSearchBackward: "?",
}

func viewOf(b *vim.Bridge, msg vim.Message, cols, rows int) view {
	buf := b.BufferCurrent()
	top := max(b.WindowTopLine(), 1)
	height := max(rows-2, 1)
	count := b.BufferLineCount(buf)

	v := view{
		cols:     cols,
		rows:     rows,
		top:      top,
		tabSize:  b.TabSize(),
		cursor:   b.CursorPosition(),
		mode:     b.Mode(),
		name:     b.BufferFilename(buf).OrElse("[No Name]"),
		filetype: b.BufferFiletype(buf).OrElse(""),
		modified: b.BufferModified(buf),
		cmdline:  b.CommandLineText(),
		cmdType:  b.CommandLineType(),
		cmdPos:   b.CommandLinePosition(),
		message:  msg,
	}
	for l := top; l < top+height && l <= count; l++ {
		v.lines = append(v.lines, b.BufferLine(buf, l))
	}
	return v
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(s string, tabSize int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabSize - col%tabSize
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// displayColumn converts a byte column into a screen column.
func displayColumn(line string, byteCol, tabSize int) int {
	if byteCol > len(line) {
		byteCol = len(line)
	}
	return runewidth.StringWidth(expandTabs(line[:byteCol], tabSize))
}

func render(w io.Writer, v view) {
	height := max(v.rows-2, 1)
	fmt.Fprint(w, "\x1b[?25l\x1b[H")

	for i := 0; i < height; i++ {
		if i < len(v.lines) {
			line := runewidth.Truncate(expandTabs(v.lines[i], v.tabSize), v.cols, "")
			fmt.Fprint(w, highlightLine(line, v.filetype, v.style))
		} else {
			fmt.Fprint(w, fillerStyle.Render("~"))
		}
		fmt.Fprint(w, "\x1b[K\r\n")
	}

	fmt.Fprint(w, statusLine(v))
	fmt.Fprint(w, "\x1b[K\r\n")

	cursorRow := v.cursor.Line - v.top + 1
	cursorCol := 1
	if i := cursorRow - 1; i >= 0 && i < len(v.lines) {
		cursorCol = displayColumn(v.lines[i], v.cursor.Column, v.tabSize) + 1
	}

	if text, ok := v.cmdline.Get(); ok {
		prefix := cmdlinePrefix[v.cmdType]
		fmt.Fprint(w, runewidth.Truncate(prefix+text, v.cols, ""))
		cursorRow = v.rows
		cursorCol = runewidth.StringWidth(prefix+text[:min(v.cmdPos, len(text))]) + 1
	} else if v.message.Body != "" {
		body := runewidth.Truncate(v.message.Body, v.cols, "")
		if v.message.Priority == vim.MessageError {
			body = errorStyle.Render(body)
		}
		fmt.Fprint(w, body)
	}
	fmt.Fprint(w, "\x1b[K")

	fmt.Fprintf(w, "\x1b[%d;%dH\x1b[?25h", max(cursorRow, 1), min(cursorCol, v.cols))
}

func statusLine(v view) string {
	mode := modeStyle.Render(strings.ToUpper(v.mode.String()))
	name := v.name
	if v.modified {
		name += " [+]"
	}
	pos := fmt.Sprintf("%d:%d ", v.cursor.Line, v.cursor.Column+1)

	fill := v.cols - lipgloss.Width(mode) - runewidth.StringWidth(name) - runewidth.StringWidth(pos) - 1
	if fill < 1 {
		name = runewidth.Truncate(name, max(v.cols-lipgloss.Width(mode)-runewidth.StringWidth(pos)-2, 0), "…")
		fill = 1
	}
	return mode + statusStyle.Render(" "+name+strings.Repeat(" ", fill)+pos)
}
