// Package terminal reads keys from a raw-mode terminal and renders
// them in the engine's key notation.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Special keys
const (
	KeyNoSpl     = iota
	KeyArrowLeft = iota + 999
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyIns
)

var specialKeys = map[[4]byte]int{
	{'[', 'A', 0, 0}:     KeyArrowUp,
	{'[', 'B', 0, 0}:     KeyArrowDown,
	{'[', 'D', 0, 0}:     KeyArrowLeft,
	{'[', 'C', 0, 0}:     KeyArrowRight,
	{'[', '5', '~', 0}:   KeyPageUp,
	{'[', '6', '~', 0}:   KeyPageDown,
	{'[', 'H', 0, 0}:     KeyHome,
	{'[', 'F', 0, 0}:     KeyEnd,
	{'[', '1', '~', 0}:   KeyHome,
	{'[', '4', '~', 0}:   KeyEnd,
	{'[', '3', '~', 0}:   KeyDelete,
	{'[', '2', '~', 0}:   KeyIns,
	{'O', 'P', 0, 0}:     KeyF1,
	{'O', 'Q', 0, 0}:     KeyF2,
	{'O', 'R', 0, 0}:     KeyF3,
	{'O', 'S', 0, 0}:     KeyF4,
	{'[', '1', '5', '~'}: KeyF5,
	{'[', '1', '7', '~'}: KeyF6,
	{'[', '1', '8', '~'}: KeyF7,
	{'[', '1', '9', '~'}: KeyF8,
	{'[', '2', '0', '~'}: KeyF9,
	{'[', '2', '1', '~'}: KeyF10,
	{'[', '2', '3', '~'}: KeyF11,
	{'[', '2', '4', '~'}: KeyF12,
}

// ErrNoInput indicates that there is no input when reading from keyboard
// in raw mode. This happens when timeout is set to a low number
var ErrNoInput = errors.New("no input")

// Key represents the key entered by the user
type Key struct {
	Regular rune
	Special int
}

// Reader decodes keys, including VT100 escape sequences, from a byte
// stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

var stdin = NewReader(os.Stdin)

// ReadKey reads a key from Stdin. Stdin should be put in raw mode
// first (see package rawmode).
func ReadKey() (Key, error) {
	return stdin.ReadKey()
}

// ReadKey reads one key. A lone escape with nothing buffered behind it
// is the Escape key.
func (kr *Reader) ReadKey() (Key, error) {
	r, n, err := kr.r.ReadRune()
	if err != nil {
		return Key{}, err
	}
	if n == 0 {
		return Key{}, ErrNoInput
	}
	if r != 27 {
		return Key{r, KeyNoSpl}, nil
	}
	if kr.r.Buffered() == 0 {
		return Key{27, KeyNoSpl}, nil
	}

	stack := [4]byte{}
	for j := 0; j < 4; j++ {
		b, err := kr.r.ReadByte()
		if err != nil {
			return Key{}, err
		}
		stack[j] = b
		if key, found := specialKeys[stack]; found {
			return Key{0, key}, nil
		}
		if kr.r.Buffered() == 0 {
			break
		}
	}
	// unrecognized sequence; the bytes read are dropped
	return Key{27, KeyNoSpl}, nil
}

var specialNotation = map[int]string{
	KeyArrowLeft:  "<Left>",
	KeyArrowRight: "<Right>",
	KeyArrowUp:    "<Up>",
	KeyArrowDown:  "<Down>",
	KeyDelete:     "<Del>",
	KeyHome:       "<Home>",
	KeyEnd:        "<End>",
	KeyPageUp:     "<PageUp>",
	KeyPageDown:   "<PageDown>",
	KeyIns:        "<Insert>",
}

// Notation renders k the way Bridge.Input expects it: printable runes
// as themselves, everything else as <Name>. Keys with no engine
// meaning (function keys) render as "".
func (k Key) Notation() string {
	if k.Special != KeyNoSpl {
		return specialNotation[k.Special]
	}
	switch r := k.Regular; {
	case r == 27:
		return "<Esc>"
	case r == '\r' || r == '\n':
		return "<CR>"
	case r == 127 || r == 8:
		return "<BS>"
	case r == '\t':
		return "<Tab>"
	case r == '<':
		return "<lt>"
	case r > 0 && r < 27:
		return fmt.Sprintf("<C-%c>", 'a'+r-1)
	case r == 0:
		return ""
	default:
		return string(r)
	}
}
