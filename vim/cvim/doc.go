// Package cvim binds the libvim C library. It is compiled only with
// the libvim build tag and expects libvim's sources and static library
// under ./libvim/src (see the cgo directives in cvim.go).
//
// libvim is a single process-wide instance, so all state lives in the
// C library; Engine is an empty handle onto it.
package cvim
