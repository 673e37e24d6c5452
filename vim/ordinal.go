package vim

import (
	"fmt"

	"github.com/slzatz/vimbridge/vim/native"
)

// Mode is the host-side editing mode ordinal.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommandLine
	ModeReplace
	ModeVisual
	ModeOperatorPending
)

var modeNames = [...]string{"normal", "insert", "command-line", "replace", "visual", "operator-pending"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// modeLadder collapses the engine's overlapping mode bits into one
// ordinal. The first entry whose bits are all set wins; order is the
// precedence hosts rely on. Replace mode sets REPLACE_FLAG|INSERT and
// therefore resolves to ModeInsert.
var modeLadder = []struct {
	flag int
	mode Mode
}{
	{native.Insert, ModeInsert},
	{native.CmdLine, ModeCommandLine},
	{native.ReplaceFlag, ModeReplace},
	{native.Visual, ModeVisual},
	{native.OpPending, ModeOperatorPending},
}

// ModeFromFlags translates an engine mode bit set. Anything not
// matched by the ladder is ModeNormal.
func ModeFromFlags(flags int) Mode {
	for _, rung := range modeLadder {
		if flags&rung.flag == rung.flag {
			return rung.mode
		}
	}
	return ModeNormal
}

// VisualType is the visual selection kind ordinal.
type VisualType int

const (
	VisualCharacter VisualType = iota
	VisualLine
	VisualBlock
	VisualNone
)

func (v VisualType) String() string {
	switch v {
	case VisualCharacter:
		return "character"
	case VisualLine:
		return "line"
	case VisualBlock:
		return "block"
	case VisualNone:
		return "none"
	}
	return fmt.Sprintf("VisualType(%d)", int(v))
}

// VisualTypeFrom translates the engine's visual type character. The
// stored character survives after visual mode ends, so an inactive
// selection is always VisualNone.
func VisualTypeFrom(active bool, tag byte) VisualType {
	if !active {
		return VisualNone
	}
	switch tag {
	case native.VisualChar:
		return VisualCharacter
	case native.VisualLine:
		return VisualLine
	case native.VisualBlock:
		return VisualBlock
	}
	return VisualNone
}

// CmdlineType is the command-line kind ordinal.
type CmdlineType int

const (
	CmdlineCommand CmdlineType = iota
	CmdlineSearchForward
	CmdlineSearchBackward
	CmdlineNone
)

func (c CmdlineType) String() string {
	switch c {
	case CmdlineCommand:
		return "command"
	case CmdlineSearchForward:
		return "search-forward"
	case CmdlineSearchBackward:
		return "search-backward"
	case CmdlineNone:
		return "none"
	}
	return fmt.Sprintf("CmdlineType(%d)", int(c))
}

// CmdlineTypeFrom translates the engine's command-line type character.
func CmdlineTypeFrom(tag byte) CmdlineType {
	switch tag {
	case native.CmdEx:
		return CmdlineCommand
	case native.CmdForward:
		return CmdlineSearchForward
	case native.CmdBackward:
		return CmdlineSearchBackward
	}
	return CmdlineNone
}

// MessagePriority is the priority of an engine message.
type MessagePriority int

const (
	MessageInfo    MessagePriority = native.MsgInfo
	MessageWarning MessagePriority = native.MsgWarning
	MessageError   MessagePriority = native.MsgError
)

func (p MessagePriority) String() string {
	switch p {
	case MessageInfo:
		return "info"
	case MessageWarning:
		return "warning"
	case MessageError:
		return "error"
	}
	return fmt.Sprintf("MessagePriority(%d)", int(p))
}

// WindowMovementKind is the engine's window movement request.
type WindowMovementKind int

var windowMovementNames = [...]string{
	"cursor-left", "cursor-right", "cursor-up", "cursor-down",
	"move-full-left", "move-full-right", "move-full-up", "move-full-down",
	"cursor-top-left", "cursor-bottom-right", "cursor-previous",
	"rotate-downwards", "rotate-upwards",
}

func (k WindowMovementKind) String() string {
	if k >= 0 && int(k) < len(windowMovementNames) {
		return windowMovementNames[k]
	}
	return fmt.Sprintf("WindowMovement(%d)", int(k))
}

// WindowSplitKind is the engine's split request.
type WindowSplitKind int

const (
	SplitHorizontal WindowSplitKind = native.SplitHorizontal
	SplitVertical   WindowSplitKind = native.SplitVertical
	SplitTab        WindowSplitKind = native.SplitTab
)

func (k WindowSplitKind) String() string {
	switch k {
	case SplitHorizontal:
		return "horizontal"
	case SplitVertical:
		return "vertical"
	case SplitTab:
		return "tab"
	}
	return fmt.Sprintf("WindowSplit(%d)", int(k))
}

// AutocmdKind is an autocommand event number (event_T).
type AutocmdKind int

var autocmdNames = [...]string{
	"BufAdd", "BufDelete", "BufEnter", "BufFilePost", "BufFilePre",
	"BufHidden", "BufLeave", "BufNew", "BufNewFile", "BufReadCmd",
	"BufReadPost", "BufReadPre", "BufUnload", "BufWinEnter", "BufWinLeave",
	"BufWipeout", "BufWriteCmd", "BufWritePost", "BufWritePre",
}

func (k AutocmdKind) String() string {
	if k >= 0 && int(k) < len(autocmdNames) {
		return autocmdNames[k]
	}
	return fmt.Sprintf("Autocmd(%d)", int(k))
}
