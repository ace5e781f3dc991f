package editor

import (
	"github.com/kobzarvs/ropedit/internal/view"
)

// WidgetID is the stable registry key of a widget.
type WidgetID string

const (
	IDPanel   WidgetID = "panel"
	IDLines   WidgetID = "lines"
	IDStatus  WidgetID = "status"
	IDCommand WidgetID = "command"
	IDPopup   WidgetID = "popup"
)

type Kind int

const (
	KindPanel Kind = iota
	KindLineNumbers
	KindStatusBar
	KindCommandLine
	KindPopup
)

func (k Kind) String() string {
	switch k {
	case KindPanel:
		return "panel"
	case KindLineNumbers:
		return "line_numbers"
	case KindStatusBar:
		return "status_bar"
	case KindCommandLine:
		return "command_line"
	case KindPopup:
		return "popup"
	}
	return "unknown"
}

// Result tells the editor what a widget did with a command.
type Result int

const (
	Ignored Result = iota
	Handled
	Closed
)

type Widget interface {
	ID() WidgetID
	Kind() Kind
	Rect() view.Rect
	SetRect(r view.Rect)
	ZIndex() int
	// Pane returns the widget's editable text, or nil for display-only
	// widgets.
	Pane() *Pane
	HandleCommand(e *Editor, cmd Command) Result
	// Refresh recomputes derived state after every dispatched command.
	Refresh(e *Editor)
}

type base struct {
	id   WidgetID
	kind Kind
	rect view.Rect
	z    int
}

func (b *base) ID() WidgetID        { return b.id }
func (b *base) Kind() Kind          { return b.kind }
func (b *base) Rect() view.Rect     { return b.rect }
func (b *base) SetRect(r view.Rect) { b.rect = r }
func (b *base) ZIndex() int         { return b.z }
func (b *base) Pane() *Pane         { return nil }
func (b *base) Refresh(*Editor)     {}

func (b *base) HandleCommand(*Editor, Command) Result { return Ignored }

// paneWidget is a widget whose rectangle is its pane's view.
type paneWidget struct {
	base
	pane *Pane
}

func (w *paneWidget) Pane() *Pane { return w.pane }

func (w *paneWidget) SetRect(r view.Rect) {
	w.rect = r
	w.pane.View.Rect = r
}
