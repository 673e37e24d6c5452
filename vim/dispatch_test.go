package vim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/slzatz/vimbridge/vim/native"
)

// traceRuntime records runtime transitions alongside handler calls.
type traceRuntime struct {
	trace *[]string
}

func (r traceRuntime) Acquire() { *r.trace = append(*r.trace, "acquire") }
func (r traceRuntime) Release() { *r.trace = append(*r.trace, "release") }

func tracingHandlers(trace *[]string) Handlers {
	return HandlersFunc(func(e Event) { *trace = append(*trace, e.Name()) })
}

func TestDispatcherOwnership(t *testing.T) {
	tests := []struct {
		name string
		fire func(cb native.Callbacks)
		want string
	}{
		{"Buffer update", func(cb native.Callbacks) { cb.BufferUpdate(native.BufferUpdate{Buf: 1, Lnum: 1, Lnume: 2}) }, NameBufferChanged},
		{"Autocommand", func(cb native.Callbacks) { cb.AutoCommand(native.EventBufEnter, 1) }, NameAutocommand},
		{"Directory changed", func(cb native.Callbacks) { cb.DirectoryChanged("/tmp") }, NameDirectoryChanged},
		{"Message", func(cb native.Callbacks) { cb.Message("", "hi", native.MsgInfo) }, NameMessage},
		{"Quit", func(cb native.Callbacks) { cb.Quit(0, true) }, NameQuit},
		{"Window movement", func(cb native.Callbacks) { cb.WindowMovement(native.WinCursorLeft, 1) }, NameWindowMovement},
		{"Window split", func(cb native.Callbacks) { cb.WindowSplit(native.SplitVertical, "a.txt") }, NameWindowSplit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trace []string
			d := newDispatcher(tracingHandlers(&trace), traceRuntime{&trace}, zap.NewNop())

			tt.fire(d.callbacks())

			assert.Equal(t, []string{"acquire", tt.want, "release"}, trace)
			assert.NoError(t, d.takeFailures())
		})
	}
}

func TestDispatcherConversions(t *testing.T) {
	var got []Event
	d := newDispatcher(HandlersFunc(func(e Event) { got = append(got, e) }), NopRuntime{}, zap.NewNop())
	cb := d.callbacks()

	cb.BufferUpdate(native.BufferUpdate{Buf: 3, Lnum: 2, Lnume: 4, Xtra: -1})
	cb.Quit(0, false)
	cb.Quit(3, true)
	cb.Message("title", "body", native.MsgWarning)
	cb.WindowSplit(native.SplitTab, "x.go")

	require.Len(t, got, 5)
	assert.Equal(t, BufferChanged{Buffer: bufferOf(3), LineStart: 2, LineEnd: 4, Extra: -1}, got[0])
	assert.Equal(t, Quit{Buffer: None[Buffer](), Forced: false}, got[1])
	assert.Equal(t, Quit{Buffer: Some(bufferOf(3)), Forced: true}, got[2])
	assert.Equal(t, Message{Priority: MessageWarning, Title: "title", Body: "body"}, got[3])
	assert.Equal(t, WindowSplit{Kind: SplitTab, Path: "x.go"}, got[4])
}

func TestDispatcherHandlerPanic(t *testing.T) {
	var trace []string
	h := tracingHandlers(&trace)
	h.OnMessage = func(Message) { panic(errors.New("host failure")) }
	d := newDispatcher(h, traceRuntime{&trace}, zap.NewNop())
	cb := d.callbacks()

	assert.NotPanics(t, func() { cb.Message("", "x", native.MsgError) })
	cb.DirectoryChanged("/")

	assert.Equal(t, []string{"acquire", "release", "acquire", NameDirectoryChanged, "release"}, trace)

	err := d.takeFailures()
	var herr *HandlerError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, NameMessage, herr.Event)
	assert.EqualError(t, errors.Unwrap(err), "host failure")
	assert.NoError(t, d.takeFailures(), "failures are cleared once taken")
}

func TestDispatcherMultipleFailures(t *testing.T) {
	h := HandlersFunc(func(Event) { panic("boom") })
	d := newDispatcher(h, NopRuntime{}, zap.NewNop())
	cb := d.callbacks()

	cb.AutoCommand(native.EventBufNew, 1)
	cb.AutoCommand(native.EventBufEnter, 1)

	err := d.takeFailures()
	require.Error(t, err)
	var herr *HandlerError
	assert.ErrorAs(t, err, &herr)
	assert.Equal(t, 2, len(err.(interface{ Unwrap() []error }).Unwrap()))
}
