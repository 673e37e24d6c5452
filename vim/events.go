package vim

import "fmt"

// Handler names. Embeddings register their handlers under these names;
// they are part of the bridge's public contract.
const (
	NameBufferChanged    = "lv_onBufferChanged"
	NameAutocommand      = "lv_onAutocommand"
	NameDirectoryChanged = "lv_onDirectoryChanged"
	NameMessage          = "lv_onMessage"
	NameQuit             = "lv_onQuit"
	NameWindowMovement   = "lv_onWindowMovement"
	NameWindowSplit      = "lv_onWindowSplit"
)

// HandlerNames lists every required handler name.
var HandlerNames = []string{
	NameBufferChanged,
	NameAutocommand,
	NameDirectoryChanged,
	NameMessage,
	NameQuit,
	NameWindowMovement,
	NameWindowSplit,
}

// Event is the payload of one engine callback. The concrete type is
// one of BufferChanged, Autocommand, DirectoryChanged, Message, Quit,
// WindowMovement or WindowSplit.
type Event interface {
	// Name is the handler name the event is delivered to.
	Name() string
	isEvent()
}

// BufferChanged reports an edit of lines [LineStart, LineEnd) with
// Extra lines added (negative when deleted).
type BufferChanged struct {
	Buffer    Buffer
	LineStart int
	LineEnd   int
	Extra     int64
}

type Autocommand struct {
	Kind   AutocmdKind
	Buffer Buffer
}

type DirectoryChanged struct {
	Path string
}

type Message struct {
	Priority MessagePriority
	Title    string
	Body     string
}

// Quit is a quit request. Buffer is absent when the engine quits
// without a current buffer.
type Quit struct {
	Buffer Option[Buffer]
	Forced bool
}

type WindowMovement struct {
	Kind  WindowMovementKind
	Count int
}

type WindowSplit struct {
	Kind WindowSplitKind
	Path string
}

func (BufferChanged) Name() string    { return NameBufferChanged }
func (Autocommand) Name() string      { return NameAutocommand }
func (DirectoryChanged) Name() string { return NameDirectoryChanged }
func (Message) Name() string          { return NameMessage }
func (Quit) Name() string             { return NameQuit }
func (WindowMovement) Name() string   { return NameWindowMovement }
func (WindowSplit) Name() string      { return NameWindowSplit }

func (BufferChanged) isEvent()    {}
func (Autocommand) isEvent()      {}
func (DirectoryChanged) isEvent() {}
func (Message) isEvent()          {}
func (Quit) isEvent()             {}
func (WindowMovement) isEvent()   {}
func (WindowSplit) isEvent()      {}

func (e BufferChanged) String() string {
	return fmt.Sprintf("BufferChanged{%v lines %d-%d extra %d}", e.Buffer, e.LineStart, e.LineEnd, e.Extra)
}

func (e Autocommand) String() string {
	return fmt.Sprintf("Autocommand{%v %v}", e.Kind, e.Buffer)
}

func (e Message) String() string {
	return fmt.Sprintf("Message{%v %q %q}", e.Priority, e.Title, e.Body)
}

// Handlers holds one host entry point per event kind.
type Handlers struct {
	OnBufferChanged    func(BufferChanged)
	OnAutocommand      func(Autocommand)
	OnDirectoryChanged func(DirectoryChanged)
	OnMessage          func(Message)
	OnQuit             func(Quit)
	OnWindowMovement   func(WindowMovement)
	OnWindowSplit      func(WindowSplit)
}

// HandlersFunc routes every event kind to fn.
func HandlersFunc(fn func(Event)) Handlers {
	return Handlers{
		OnBufferChanged:    func(e BufferChanged) { fn(e) },
		OnAutocommand:      func(e Autocommand) { fn(e) },
		OnDirectoryChanged: func(e DirectoryChanged) { fn(e) },
		OnMessage:          func(e Message) { fn(e) },
		OnQuit:             func(e Quit) { fn(e) },
		OnWindowMovement:   func(e WindowMovement) { fn(e) },
		OnWindowSplit:      func(e WindowSplit) { fn(e) },
	}
}

// Validate reports every unset handler as a *ConfigError.
func (h Handlers) Validate() error {
	set := map[string]bool{
		NameBufferChanged:    h.OnBufferChanged != nil,
		NameAutocommand:      h.OnAutocommand != nil,
		NameDirectoryChanged: h.OnDirectoryChanged != nil,
		NameMessage:          h.OnMessage != nil,
		NameQuit:             h.OnQuit != nil,
		NameWindowMovement:   h.OnWindowMovement != nil,
		NameWindowSplit:      h.OnWindowSplit != nil,
	}
	var missing []string
	for _, name := range HandlerNames {
		if !set[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}
