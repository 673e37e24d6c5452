package vim

import (
	"errors"

	"go.uber.org/zap"

	"github.com/slzatz/vimbridge/vim/native"
)

// dispatcher forwards engine callbacks to host handlers. The engine
// calls back while it is processing a host-issued entry point, after
// that entry point has handed ownership over, so every delivery
// acquires the runtime first. This applies to all seven slots,
// including buffer updates and autocommands.
type dispatcher struct {
	handlers Handlers
	rt       Runtime
	log      *zap.Logger
	failures []error
}

func newDispatcher(h Handlers, rt Runtime, log *zap.Logger) *dispatcher {
	return &dispatcher{handlers: h, rt: rt, log: log}
}

// deliver runs call while owning the runtime. Release happens exactly
// once on every exit path; a panicking handler is recorded and
// reported by the entry point that triggered the event.
func (d *dispatcher) deliver(name string, call func()) {
	d.rt.Acquire()
	defer d.rt.Release()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("handler panicked", zap.String("event", name), zap.Any("panic", r))
			d.failures = append(d.failures, &HandlerError{Event: name, Value: r})
		}
	}()
	call()
}

// takeFailures returns and clears the handler failures recorded since
// the last call.
func (d *dispatcher) takeFailures() error {
	if d == nil || len(d.failures) == 0 {
		return nil
	}
	failures := d.failures
	d.failures = nil
	if len(failures) == 1 {
		return failures[0]
	}
	return errors.Join(failures...)
}

func (d *dispatcher) callbacks() native.Callbacks {
	return native.Callbacks{
		BufferUpdate:     d.onBufferUpdate,
		AutoCommand:      d.onAutoCommand,
		DirectoryChanged: d.onDirectoryChanged,
		Message:          d.onMessage,
		Quit:             d.onQuit,
		WindowMovement:   d.onWindowMovement,
		WindowSplit:      d.onWindowSplit,
	}
}

func (d *dispatcher) onBufferUpdate(u native.BufferUpdate) {
	d.deliver(NameBufferChanged, func() {
		e := BufferChanged{
			Buffer:    bufferOf(u.Buf),
			LineStart: u.Lnum,
			LineEnd:   u.Lnume,
			Extra:     u.Xtra,
		}
		d.log.Debug("buffer changed", zap.Stringer("buffer", e.Buffer),
			zap.Int("start", e.LineStart), zap.Int("end", e.LineEnd), zap.Int64("extra", e.Extra))
		d.handlers.OnBufferChanged(e)
	})
}

func (d *dispatcher) onAutoCommand(event int, buf native.Buf) {
	d.deliver(NameAutocommand, func() {
		e := Autocommand{Kind: AutocmdKind(event), Buffer: bufferOf(buf)}
		d.log.Debug("autocommand", zap.Stringer("kind", e.Kind), zap.Stringer("buffer", e.Buffer))
		d.handlers.OnAutocommand(e)
	})
}

func (d *dispatcher) onDirectoryChanged(path string) {
	d.deliver(NameDirectoryChanged, func() {
		d.log.Debug("directory changed", zap.String("path", path))
		d.handlers.OnDirectoryChanged(DirectoryChanged{Path: path})
	})
}

func (d *dispatcher) onMessage(title, contents string, priority int) {
	d.deliver(NameMessage, func() {
		e := Message{Priority: MessagePriority(priority), Title: title, Body: contents}
		d.log.Debug("message", zap.Stringer("priority", e.Priority), zap.String("title", title))
		d.handlers.OnMessage(e)
	})
}

func (d *dispatcher) onQuit(buf native.Buf, forced bool) {
	d.deliver(NameQuit, func() {
		e := Quit{Buffer: optionalBuffer(buf), Forced: forced}
		d.log.Debug("quit", zap.Stringer("buffer", e.Buffer), zap.Bool("forced", forced))
		d.handlers.OnQuit(e)
	})
}

func (d *dispatcher) onWindowMovement(kind, count int) {
	d.deliver(NameWindowMovement, func() {
		e := WindowMovement{Kind: WindowMovementKind(kind), Count: count}
		d.log.Debug("window movement", zap.Stringer("kind", e.Kind), zap.Int("count", count))
		d.handlers.OnWindowMovement(e)
	})
}

func (d *dispatcher) onWindowSplit(kind int, path string) {
	d.deliver(NameWindowSplit, func() {
		e := WindowSplit{Kind: WindowSplitKind(kind), Path: path}
		d.log.Debug("window split", zap.Stringer("kind", e.Kind), zap.String("path", path))
		d.handlers.OnWindowSplit(e)
	})
}
