//go:build !cgo || !libvim

package vim

import "github.com/slzatz/vimbridge/vim/native"

const libvimAvailable = false

func newLibvimEngine() (native.Engine, error) {
	return nil, ErrLibvimUnavailable
}
