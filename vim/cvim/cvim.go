//go:build cgo && libvim

package cvim

/*
#cgo CFLAGS: -I${SRCDIR}/libvim/src -I${SRCDIR}/libvim/src/proto -DHAVE_CONFIG_H
#cgo LDFLAGS: ${SRCDIR}/libvim/src/libvim.a -lm -ltinfo -ldl -lacl
#include <stdlib.h>
#include "libvim.h"
*/
import "C"

import (
	"unsafe"

	"github.com/slzatz/vimbridge/vim/native"
)

// Engine implements native.Engine on top of libvim.
type Engine struct{}

// NewEngine returns a handle onto the process-wide libvim instance.
func NewEngine() *Engine {
	return &Engine{}
}

var _ native.Engine = (*Engine)(nil)

// cstr copies s into C memory; the caller frees it with the returned func.
func cstr(s string) (*C.char_u, func()) {
	p := C.CString(s)
	return (*C.char_u)(unsafe.Pointer(p)), func() { C.free(unsafe.Pointer(p)) }
}

// goString copies a NUL terminated engine string. NULL is reported as
// absent.
func goString(p *C.char_u) (string, bool) {
	if p == nil {
		return "", false
	}
	return C.GoString((*C.char)(unsafe.Pointer(p))), true
}

func bufT(b native.Buf) *C.buf_T {
	return (*C.buf_T)(unsafe.Pointer(b))
}

func bufOf(p *C.buf_T) native.Buf {
	return native.Buf(unsafe.Pointer(p))
}

func posOf(p C.pos_T) native.Pos {
	return native.Pos{Lnum: int(p.lnum), Col: int(p.col)}
}

func (e *Engine) SetCallbacks(cb native.Callbacks) {
	registerCallbacks(cb)
}

// void vimInit(int argc, char **argv);
func (e *Engine) Init(args []string) {
	argv := make([]*C.char, len(args)+1)
	for i, a := range args {
		argv[i] = C.CString(a)
		defer C.free(unsafe.Pointer(argv[i]))
	}
	C.vimInit(C.int(len(args)), (**C.char)(unsafe.Pointer(&argv[0])))
}

// void vimInput(char_u *input);
func (e *Engine) Input(key string) {
	s, free := cstr(key)
	defer free()
	C.vimInput(s)
}

// void vimKey(char_u *key);
func (e *Engine) Key(notation string) {
	s, free := cstr(notation)
	defer free()
	C.vimKey(s)
}

// void vimExecute(char_u *cmd);
func (e *Engine) Execute(cmd string) {
	s, free := cstr(cmd)
	defer free()
	C.vimExecute(s)
}

func (e *Engine) Mode() int {
	return int(C.vimGetMode())
}

// buf_T *vimBufferOpen(char_u *ffname_arg, linenr_T lnum, int flags);
func (e *Engine) BufferOpen(path string, lnum int, flags int) native.Buf {
	s, free := cstr(path)
	defer free()
	return bufOf(C.vimBufferOpen(s, C.linenr_T(lnum), C.int(flags)))
}

func (e *Engine) BufferGetByID(id int) native.Buf {
	return bufOf(C.vimBufferGetById(C.int(id)))
}

func (e *Engine) BufferGetID(buf native.Buf) int {
	if buf == 0 {
		return 0
	}
	return int(C.vimBufferGetId(bufT(buf)))
}

func (e *Engine) BufferGetCurrent() native.Buf {
	return bufOf(C.vimBufferGetCurrent())
}

func (e *Engine) BufferSetCurrent(buf native.Buf) {
	if buf == 0 {
		return
	}
	C.vimBufferSetCurrent(bufT(buf))
}

func (e *Engine) BufferGetFilename(buf native.Buf) (string, bool) {
	if buf == 0 {
		return "", false
	}
	return goString(C.vimBufferGetFilename(bufT(buf)))
}

func (e *Engine) BufferGetFiletype(buf native.Buf) (string, bool) {
	if buf == 0 {
		return "", false
	}
	return goString(C.vimBufferGetFiletype(bufT(buf)))
}

func (e *Engine) BufferGetModified(buf native.Buf) bool {
	if buf == 0 {
		return false
	}
	return C.vimBufferGetModified(bufT(buf)) == C.TRUE
}

func (e *Engine) BufferGetLastChangedTick(buf native.Buf) int64 {
	if buf == 0 {
		return 0
	}
	return int64(C.vimBufferGetLastChangedTick(bufT(buf)))
}

// size_t vimBufferGetLineCount(buf_T *buf);
func (e *Engine) BufferGetLineCount(buf native.Buf) int {
	if buf == 0 {
		return 0
	}
	return int(C.vimBufferGetLineCount(bufT(buf)))
}

// char_u *vimBufferGetLine(buf_T *buf, linenr_T lnum);
func (e *Engine) BufferGetLine(buf native.Buf, lnum int) string {
	if buf == 0 {
		return ""
	}
	s, _ := goString(C.vimBufferGetLine(bufT(buf), C.linenr_T(lnum)))
	return s
}

func (e *Engine) CursorGetLine() int {
	return int(C.vimCursorGetLine())
}

func (e *Engine) CursorGetColumn() int {
	return int(C.vimCursorGetColumn())
}

func (e *Engine) CursorSetPosition(pos native.Pos) {
	var p C.pos_T
	p.lnum = C.linenr_T(pos.Lnum)
	p.col = C.colnr_T(pos.Col)
	C.vimCursorSetPosition(p)
}

func (e *Engine) WindowGetWidth() int      { return int(C.vimWindowGetWidth()) }
func (e *Engine) WindowGetHeight() int     { return int(C.vimWindowGetHeight()) }
func (e *Engine) WindowGetTopLine() int    { return int(C.vimWindowGetTopLine()) }
func (e *Engine) WindowGetLeftColumn() int { return int(C.vimWindowGetLeftColumn()) }

func (e *Engine) WindowSetWidth(width int)   { C.vimWindowSetWidth(C.int(width)) }
func (e *Engine) WindowSetHeight(height int) { C.vimWindowSetHeight(C.int(height)) }

func (e *Engine) WindowSetTopLeft(top, left int) {
	C.vimWindowSetTopLeft(C.int(top), C.int(left))
}

func (e *Engine) VisualIsActive() bool {
	return C.vimVisualIsActive() != C.FALSE
}

func (e *Engine) VisualGetType() byte {
	return byte(C.vimVisualGetType())
}

func (e *Engine) VisualGetRange() (native.Pos, native.Pos) {
	var start, end C.pos_T
	C.vimVisualGetRange(&start, &end)
	return posOf(start), posOf(end)
}

// void vimSearchGetHighlights(linenr_T start_lnum, linenr_T end_lnum, int *num_highlights, searchHighlight_T **highlights);
func (e *Engine) SearchGetHighlights(start, end int) native.Array[native.Highlight] {
	var (
		n  C.int
		hl *C.searchHighlight_T
	)
	C.vimSearchGetHighlights(C.linenr_T(start), C.linenr_T(end), &n, &hl)
	return &highlightArray{p: hl, n: int(n)}
}

func (e *Engine) SearchGetMatchingPair(flags int) (native.Pos, bool) {
	p := C.vimSearchGetMatchingPair(C.int(flags))
	if p == nil {
		return native.Pos{}, false
	}
	return posOf(*p), true
}

// void vimCommandLineGetCompletions(char_u ***completions, int *count);
func (e *Engine) CommandLineGetCompletions() native.Array[string] {
	var (
		list **C.char_u
		n    C.int
	)
	C.vimCommandLineGetCompletions(&list, &n)
	return &stringArray{p: list, n: int(n)}
}

func (e *Engine) CommandLineGetPosition() int {
	return int(C.vimCommandLineGetPosition())
}

func (e *Engine) CommandLineGetText() (string, bool) {
	return goString(C.vimCommandLineGetText())
}

func (e *Engine) CommandLineGetType() byte {
	return byte(C.vimCommandLineGetType())
}

func (e *Engine) OptionSetTabSize(size int) { C.vimOptionSetTabSize(C.int(size)) }
func (e *Engine) OptionGetTabSize() int     { return int(C.vimOptionGetTabSize()) }

func (e *Engine) OptionSetInsertSpaces(insertSpaces bool) {
	v := C.int(C.FALSE)
	if insertSpaces {
		v = C.TRUE
	}
	C.vimOptionSetInsertSpaces(v)
}

func (e *Engine) OptionGetInsertSpaces() bool {
	return C.vimOptionGetInsertSpaces() != C.FALSE
}

func (e *Engine) OptionSetAutoClosingPairs(enabled bool) {
	if enabled {
		C.p_acp = C.TRUE
	} else {
		C.p_acp = C.FALSE
	}
}

func (e *Engine) OptionGetAutoClosingPairs() bool {
	return C.p_acp != C.FALSE
}

// void acp_set_pairs(autoClosingPair_T *pairs, int count);
func (e *Engine) SetAutoClosingPairs(pairs []native.AutoClosingPair) bool {
	size := C.size_t(unsafe.Sizeof(C.autoClosingPair_T{})) * C.size_t(max(len(pairs), 1))
	p := (*C.autoClosingPair_T)(C.malloc(size))
	if p == nil {
		return false
	}
	defer C.free(unsafe.Pointer(p))

	view := unsafe.Slice(p, len(pairs))
	for i, pair := range pairs {
		view[i].open = C.int(pair.Open)
		view[i].close = C.int(pair.Close)
	}
	C.acp_set_pairs(p, C.int(len(pairs)))
	return true
}

type highlightArray struct {
	p *C.searchHighlight_T
	n int
}

func (a *highlightArray) Len() int { return a.n }

func (a *highlightArray) At(i int) native.Highlight {
	h := unsafe.Slice(a.p, a.n)[i]
	return native.Highlight{Start: posOf(h.start), End: posOf(h.end)}
}

func (a *highlightArray) Free() {
	if a.p != nil {
		C.vim_free(unsafe.Pointer(a.p))
		a.p = nil
	}
}

type stringArray struct {
	p **C.char_u
	n int
}

func (a *stringArray) Len() int { return a.n }

func (a *stringArray) At(i int) string {
	s, _ := goString(unsafe.Slice(a.p, a.n)[i])
	return s
}

// Free releases the list itself; libvim owns the strings.
func (a *stringArray) Free() {
	if a.p != nil {
		C.vim_free(unsafe.Pointer(a.p))
		a.p = nil
	}
}
