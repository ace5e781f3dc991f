package editor

import (
	"github.com/kobzarvs/ropedit/internal/view"
)

// Popup is a bordered read-only pane drawn above the panel.
type Popup struct {
	paneWidget
	Title string
}

func newPopup(title, text string, border view.BorderStyle) *Popup {
	p := &Popup{Title: title}
	p.id, p.kind, p.z = IDPopup, KindPopup, 10
	p.pane = NewPane(text, border)
	p.pane.ReadOnly = true
	return p
}

func (p *Popup) HandleCommand(_ *Editor, cmd Command) Result {
	switch cmd.Kind {
	case CmdMove:
		p.pane.Move(cmd.Motion)
	case CmdCancel, CmdNewline:
		return Closed
	case CmdQuit, CmdFocusNext, CmdClick:
		return Ignored
	}
	return Handled
}
