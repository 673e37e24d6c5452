package vim

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHandlerMissing is wrapped by every *ConfigError.
	ErrHandlerMissing = errors.New("vim: required handler not registered")
	// ErrAllocation is returned when the engine cannot allocate an
	// argument array.
	ErrAllocation = errors.New("vim: engine allocation failed")
	// ErrLibvimUnavailable is returned when the binary was built
	// without the libvim engine.
	ErrLibvimUnavailable = errors.New("vim: libvim engine not compiled in (build with -tags libvim)")
	// ErrNotInitialized is returned by entry points used before Init.
	ErrNotInitialized = errors.New("vim: bridge not initialized")
)

// ConfigError reports handlers the embedding failed to provide.
type ConfigError struct {
	Missing  []string
	Mistyped []string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(ErrHandlerMissing.Error())
	if len(e.Missing) > 0 {
		b.WriteString(": missing ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if len(e.Mistyped) > 0 {
		if len(e.Missing) > 0 {
			b.WriteString(";")
		} else {
			b.WriteString(":")
		}
		b.WriteString(" wrong type ")
		b.WriteString(strings.Join(e.Mistyped, ", "))
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return ErrHandlerMissing }

// HandlerError reports a handler that panicked while the engine was
// delivering an event.
type HandlerError struct {
	Event string
	Value any
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("vim: %s handler panicked: %v", e.Event, e.Value)
}

// Unwrap exposes a panic value that was itself an error.
func (e *HandlerError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
