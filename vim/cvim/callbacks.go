//go:build cgo && libvim

package cvim

/*
void vimbridgeRegisterCallbacks(void);
*/
import "C"

import (
	"unsafe"

	"github.com/slzatz/vimbridge/vim/native"
)

// callbacks is read by the exported trampolines below. libvim has one
// set of callback slots per process, and so does this package.
var callbacks native.Callbacks

func registerCallbacks(cb native.Callbacks) {
	callbacks = cb
	C.vimbridgeRegisterCallbacks()
}

//export goBufferUpdate
func goBufferUpdate(buf unsafe.Pointer, lnum, lnume, xtra C.long) {
	if callbacks.BufferUpdate == nil {
		return
	}
	callbacks.BufferUpdate(native.BufferUpdate{
		Buf:   native.Buf(buf),
		Lnum:  int(lnum),
		Lnume: int(lnume),
		Xtra:  int64(xtra),
	})
}

//export goAutoCommand
func goAutoCommand(event C.int, buf unsafe.Pointer) {
	if callbacks.AutoCommand == nil {
		return
	}
	callbacks.AutoCommand(int(event), native.Buf(buf))
}

//export goDirectoryChanged
func goDirectoryChanged(path *C.char) {
	if callbacks.DirectoryChanged == nil {
		return
	}
	callbacks.DirectoryChanged(C.GoString(path))
}

//export goMessage
func goMessage(title, contents *C.char, priority C.int) {
	if callbacks.Message == nil {
		return
	}
	callbacks.Message(C.GoString(title), C.GoString(contents), int(priority))
}

//export goQuit
func goQuit(buf unsafe.Pointer, forced C.int) {
	if callbacks.Quit == nil {
		return
	}
	callbacks.Quit(native.Buf(buf), forced != 0)
}

//export goWindowMovement
func goWindowMovement(kind, count C.int) {
	if callbacks.WindowMovement == nil {
		return
	}
	callbacks.WindowMovement(int(kind), int(count))
}

//export goWindowSplit
func goWindowSplit(kind C.int, path *C.char) {
	if callbacks.WindowSplit == nil {
		return
	}
	callbacks.WindowSplit(int(kind), C.GoString(path))
}
