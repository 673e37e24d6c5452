package vim

import (
	"fmt"

	"github.com/slzatz/vimbridge/vim/native"
)

// Buffer is an opaque handle to an engine-owned buffer. It carries no
// state and the bridge never checks whether the engine still
// considers it valid; queries on a stale handle get whatever the
// engine answers. The zero Buffer is "no buffer".
type Buffer struct {
	p native.Buf
}

func bufferOf(p native.Buf) Buffer { return Buffer{p: p} }

// optionalBuffer maps a NULL engine pointer to None.
func optionalBuffer(p native.Buf) Option[Buffer] {
	if p == 0 {
		return None[Buffer]()
	}
	return Some(Buffer{p: p})
}

// IsZero reports whether b is the null handle.
func (b Buffer) IsZero() bool { return b.p == 0 }

func (b Buffer) String() string {
	if b.p == 0 {
		return "buffer(nil)"
	}
	return fmt.Sprintf("buffer(%#x)", uintptr(b.p))
}
