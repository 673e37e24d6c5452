package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slzatz/vimbridge/internal/journal"
	"github.com/slzatz/vimbridge/internal/logging"
)

func newExecCommand(flags *globalFlags) *cobra.Command {
	var showEvents bool

	cmd := &cobra.Command{
		Use:   "exec FILE [STEP...]",
		Short: "Open FILE, run keys and ex commands, print the result",
		Long: `Open FILE in the engine and run each STEP in order.

A step that starts with ':' is an ex command, anything else is typed as
keys; key notation such as <Esc>, <CR> or <C-w> is sent as one key.
When all steps have run, or the engine asks to quit, the buffer, mode
and cursor are printed.

  vimbridge exec notes.txt 'ggdd' ':s/foo/bar/g' ':w'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			h, err := newHost(cmd.Context(), cfg, flags.cgoSQLite, false)
			if err != nil {
				return err
			}

			runErr := runSteps(h, args[0], args[1:])
			report(cmd.OutOrStdout(), h, showEvents)
			if err := h.close(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&showEvents, "events", false, "print every event the engine delivered")

	return cmd
}

func runSteps(h *host, path string, steps []string) error {
	if _, err := h.bridge.BufferOpen(path); err != nil {
		return err
	}
	for i, s := range steps {
		if h.quit {
			h.log.Debug("quit requested, skipping remaining steps", "remaining", len(steps)-i)
			break
		}
		if err := h.step(s); err != nil {
			return fmt.Errorf("step %d %q: %w", i+1, s, err)
		}
	}
	return nil
}

func report(w io.Writer, h *host, showEvents bool) {
	b := h.bridge
	buf := b.BufferCurrent()

	name := b.BufferFilename(buf).OrElse("[No Name]")
	fmt.Fprintf(w, "%s", name)
	if ft, ok := b.BufferFiletype(buf).Get(); ok {
		fmt.Fprintf(w, " (%s)", ft)
	}
	if b.BufferModified(buf) {
		fmt.Fprint(w, " [+]")
	}
	fmt.Fprintln(w)

	for i, line := range b.BufferLines(buf) {
		fmt.Fprintf(w, "%4d  %s\n", i+1, line)
	}

	fmt.Fprintf(w, "mode: %s  cursor: %s  visual: %s\n", b.Mode(), b.CursorPosition(), b.VisualType())
	if m := h.takeMessage(); m.Body != "" {
		fmt.Fprintf(w, "%s: %s\n", m.Priority, m.Body)
	}
	if h.quit {
		fmt.Fprintln(w, "quit requested")
	}

	if showEvents {
		fmt.Fprintln(w, "events:")
		for _, e := range h.events {
			fmt.Fprintf(w, "  %-22s %v\n", e.Name(), journal.Payload(e, h.bufferID))
		}
	}
	h.log.Debug("reported", logging.FieldPath, name, "events", len(h.events))
}
