//go:build !windows

package rawmode

import (
	"os"

	"golang.org/x/sys/unix"
)

// GetWindowSize asks the terminal on stdout for its size, including
// the pixel dimensions.
func GetWindowSize() (*Winsize, error) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return nil, err
	}
	return &Winsize{Row: ws.Row, Col: ws.Col, Xpixel: ws.Xpixel, Ypixel: ws.Ypixel}, nil
}
