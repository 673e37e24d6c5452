package native

// Mode bits as reported by vimGetMode (vim's State).
const (
	Normal      = 0x01
	Visual      = 0x02
	OpPending   = 0x04
	CmdLine     = 0x08
	Insert      = 0x10
	LangMap     = 0x20
	ReplaceFlag = 0x40
	Replace     = ReplaceFlag | Insert
)

// CtrlV is the visual type character for block-wise selection.
const CtrlV = 0x16

// Visual type characters.
const (
	VisualChar  = 'v'
	VisualLine  = 'V'
	VisualBlock = CtrlV
)

// Command-line type characters. CmdNone is reported when the command
// line is inactive.
const (
	CmdEx       = ':'
	CmdForward  = '/'
	CmdBackward = '?'
	CmdNone     = 0
)

// Message priorities (msgPriority_T).
const (
	MsgInfo = iota
	MsgWarning
	MsgError
)

// Window movement kinds (windowMovement_T).
const (
	WinCursorLeft = iota
	WinCursorRight
	WinCursorUp
	WinCursorDown
	WinMoveFullLeft
	WinMoveFullRight
	WinMoveFullUp
	WinMoveFullDown
	WinCursorTopLeft
	WinCursorBottomRight
	WinCursorPrevious
	WinMoveRotateDownwards
	WinMoveRotateUpwards
)

// Window split kinds (windowSplit_T).
const (
	SplitHorizontal = iota
	SplitVertical
	SplitTab
)

// Autocommand events, in event_T order. Only the buffer events the
// engines fire are listed.
const (
	EventBufAdd = iota
	EventBufDelete
	EventBufEnter
	EventBufFilePost
	EventBufFilePre
	EventBufHidden
	EventBufLeave
	EventBufNew
	EventBufNewFile
	EventBufReadCmd
	EventBufReadPost
	EventBufReadPre
	EventBufUnload
	EventBufWinEnter
	EventBufWinLeave
	EventBufWipeout
	EventBufWriteCmd
	EventBufWritePost
	EventBufWritePre
)
