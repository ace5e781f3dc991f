package editor

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/ropedit/internal/history"
	"github.com/kobzarvs/ropedit/internal/view"
)

// HighlightSpan colours the byte columns [StartCol, EndCol) of one line.
type HighlightSpan struct {
	StartCol int
	EndCol   int
	Kind     string
}

// Panel is the main editable text.
type Panel struct {
	paneWidget
	highlights map[int][]HighlightSpan
}

func newPanel(opts ...history.Option) *Panel {
	p := &Panel{}
	p.id, p.kind = IDPanel, KindPanel
	p.pane = NewPane("", view.BorderNone, opts...)
	return p
}

func (p *Panel) HandleCommand(e *Editor, cmd Command) Result {
	pane := p.pane
	switch cmd.Kind {
	case CmdInsertChar:
		pane.Insert(string(cmd.Rune))
	case CmdInsertText:
		pane.InsertAction(cmd.Text)
	case CmdNewline:
		pane.Insert("\n")
	case CmdDeleteBackward:
		pane.DeleteBackward()
	case CmdDeleteForward:
		pane.DeleteForward()
	case CmdMove:
		pane.Move(cmd.Motion)
	case CmdUndo:
		switch {
		case !pane.Log.CanUndo():
			e.SetMessage("already at oldest change")
		case !pane.Undo():
			e.SetMessage("undo failed")
		}
	case CmdRedo:
		switch {
		case !pane.Log.CanRedo():
			e.SetMessage("already at newest change")
		case !pane.Redo():
			e.SetMessage("redo failed")
		}
	case CmdCommit:
		pane.Commit()
	case CmdPaste:
		e.paste(pane)
	case CmdCopyLine:
		e.copyLine(pane)
	default:
		return Ignored
	}
	return Handled
}

// SetHighlights replaces the syntax spans, keyed by document line.
func (p *Panel) SetHighlights(spans map[int][]HighlightSpan) {
	p.highlights = spans
}

func (p *Panel) Highlights(line int) []HighlightSpan {
	return p.highlights[line]
}

// LineNumberMode selects how the gutter labels lines.
type LineNumberMode int

const (
	LineNumberOff LineNumberMode = iota
	LineNumberAbsolute
	LineNumberRelative
)

func parseLineNumberMode(s string) LineNumberMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "false":
		return LineNumberOff
	case "absolute", "abs":
		return LineNumberAbsolute
	}
	return LineNumberRelative
}

// LineLabel is one gutter row.
type LineLabel struct {
	Text    string
	Current bool
}

// LineNumbers is the gutter beside the panel.
type LineNumbers struct {
	base
	Mode   LineNumberMode
	labels []LineLabel
}

func newLineNumbers(mode LineNumberMode) *LineNumbers {
	l := &LineNumbers{Mode: mode}
	l.id, l.kind = IDLines, KindLineNumbers
	return l
}

func (l *LineNumbers) Labels() []LineLabel { return l.labels }

// Refresh labels the panel's visible lines. In relative mode the cursor line
// shows its number and the others their distance from it.
func (l *LineNumbers) Refresh(e *Editor) {
	l.labels = l.labels[:0]
	if l.Mode == LineNumberOff || l.rect.Width == 0 {
		return
	}
	v := e.Panel().Pane().View
	cur, _ := v.LineColumn()
	first, last := v.VisibleLines()
	for line := first; line < last; line++ {
		n := line + 1
		if l.Mode == LineNumberRelative && line != cur {
			n = line - cur
			if n < 0 {
				n = -n
			}
		}
		l.labels = append(l.labels, LineLabel{Text: rightAlign(n, l.rect.Width), Current: line == cur})
	}
}

func rightAlign(n, width int) string {
	return fmt.Sprintf("%*d ", max(width-1, 0), n)
}
