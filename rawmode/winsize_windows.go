//go:build windows

package rawmode

import (
	"os"

	"golang.org/x/term"
)

// GetWindowSize reports the console size. Pixel dimensions are not
// available on Windows.
func GetWindowSize() (*Winsize, error) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return nil, err
	}
	return &Winsize{Row: uint16(rows), Col: uint16(cols)}, nil
}
