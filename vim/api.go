package vim

import (
	"github.com/slzatz/vimbridge/vim/govim"
	"github.com/slzatz/vimbridge/vim/native"
)

// This file provides a process-wide bridge for applications that drive
// a single engine, regardless of whether the C or Go implementation is
// being used.

// Implementation names.
const (
	ImplC  = "cgo"
	ImplGo = "go"
)

// Engine is the active bridge. It is nil until InitializeVim succeeds.
var Engine *Bridge

// ActiveImplementation tracks which implementation is active.
var ActiveImplementation = ImplGo

// NewEngine returns a fresh engine of the requested implementation.
func NewEngine(useGoImplementation bool) (native.Engine, error) {
	if useGoImplementation {
		return govim.NewEngine(), nil
	}
	return newLibvimEngine()
}

// InitializeVim creates the engine, wraps it in the process-wide
// bridge and starts it with the handlers registered in
// DefaultRegistry. A missing handler is returned as a *ConfigError and
// leaves Engine unset.
func InitializeVim(useGoImplementation bool, opts ...BridgeOption) error {
	e, err := NewEngine(useGoImplementation)
	if err != nil {
		return err
	}
	b := New(e, opts...)
	if err := b.InitFromRegistry(DefaultRegistry); err != nil {
		return err
	}
	Engine = b
	if useGoImplementation {
		ActiveImplementation = ImplGo
	} else {
		ActiveImplementation = ImplC
	}
	Logger().Info("vim initialized")
	return nil
}

// Init initializes vim with CurrentConfig.
func Init() error {
	return InitializeVim(CurrentConfig.UseGoImplementation)
}

// GetActiveImplementation returns the name of the active implementation.
func GetActiveImplementation() string {
	return ActiveImplementation
}

// IsUsingGoImplementation checks if we're using the Go implementation.
func IsUsingGoImplementation() bool {
	return ActiveImplementation == ImplGo
}

// SendInput sends keys to vim.
func SendInput(keys string) error {
	if Engine == nil {
		return ErrNotInitialized
	}
	return Engine.Input(keys)
}

// ExecuteCommand runs an ex command.
func ExecuteCommand(cmd string) error {
	if Engine == nil {
		return ErrNotInitialized
	}
	return Engine.Command(cmd)
}

// GetCurrentMode gets the current mode. It is ModeNormal before
// InitializeVim.
func GetCurrentMode() Mode {
	if Engine == nil {
		return ModeNormal
	}
	return Engine.Mode()
}

// OpenBuffer opens a file and returns its buffer.
func OpenBuffer(path string) (Buffer, error) {
	if Engine == nil {
		return Buffer{}, ErrNotInitialized
	}
	return Engine.BufferOpen(path)
}

// GetCurrentBuffer gets the current buffer, or the zero Buffer before
// InitializeVim.
func GetCurrentBuffer() Buffer {
	if Engine == nil {
		return Buffer{}
	}
	return Engine.BufferCurrent()
}

// SetCurrentBuffer sets the current buffer.
func SetCurrentBuffer(buf Buffer) error {
	if Engine == nil {
		return ErrNotInitialized
	}
	return Engine.BufferSetCurrent(buf)
}

// BufferLines gets all lines from a buffer.
func BufferLines(buf Buffer) []string {
	if Engine == nil {
		return nil
	}
	return Engine.BufferLines(buf)
}

// GetCursorPosition gets the cursor position.
func GetCursorPosition() Position {
	if Engine == nil {
		return Position{}
	}
	return Engine.CursorPosition()
}

// SetCursorPosition sets the cursor position.
func SetCursorPosition(line, column int) {
	if Engine == nil {
		return
	}
	Engine.SetCursorPosition(line, column)
}

// GetVisualRange gets the visual selection range.
func GetVisualRange() Range {
	if Engine == nil {
		return Range{}
	}
	return Engine.VisualRange()
}

// GetVisualType gets the visual mode type.
func GetVisualType() VisualType {
	if Engine == nil {
		return VisualNone
	}
	return Engine.VisualType()
}

// GetMatchingPair finds the matching bracket.
func GetMatchingPair() Option[Position] {
	if Engine == nil {
		return None[Position]()
	}
	return Engine.SearchMatchingPair()
}
