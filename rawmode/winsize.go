// Package rawmode switches the controlling terminal in and out of raw
// mode and reports its size.
package rawmode

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdin is not a terminal.
var ErrNotTerminal = errors.New("rawmode: stdin is not a terminal")

// Winsize represents terminal window dimensions in a platform-agnostic way
type Winsize struct {
	Row    uint16
	Col    uint16
	Xpixel uint16
	Ypixel uint16
}

// State is the terminal configuration saved by Enable.
type State struct {
	fd    int
	state *term.State
}

// Enable puts stdin into raw mode and returns the previous state.
func Enable() (*State, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &State{fd: fd, state: old}, nil
}

// Restore puts the terminal back the way Enable found it.
func Restore(s *State) error {
	if s == nil {
		return nil
	}
	return term.Restore(s.fd, s.state)
}

// Fit clamps the reported size to at least one row and column.
func (ws Winsize) Fit() (cols, rows int) {
	return max(int(ws.Col), 1), max(int(ws.Row), 1)
}
