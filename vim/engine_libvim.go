//go:build cgo && libvim

package vim

import (
	"github.com/slzatz/vimbridge/vim/cvim"
	"github.com/slzatz/vimbridge/vim/native"
)

const libvimAvailable = true

func newLibvimEngine() (native.Engine, error) {
	return cvim.NewEngine(), nil
}
