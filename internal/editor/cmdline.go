package editor

import (
	"strings"

	"github.com/kobzarvs/ropedit/internal/history"
	"github.com/kobzarvs/ropedit/internal/motion"
	"github.com/kobzarvs/ropedit/internal/view"
)

// CommandLine is the one-line input at the bottom of the screen.
type CommandLine struct {
	paneWidget
}

func newCommandLine() *CommandLine {
	c := &CommandLine{}
	c.id, c.kind = IDCommand, KindCommandLine
	c.pane = NewPane("", view.BorderNone, history.WithPolicy(history.RunPolicy))
	return c
}

// Input returns the text typed so far.
func (c *CommandLine) Input() string { return c.pane.Doc.Text() }

func (c *CommandLine) start(prefix string) {
	c.pane.Reset(prefix)
	c.pane.View.SetTextPosition(c.pane.Doc.Len())
}

func (c *CommandLine) HandleCommand(e *Editor, cmd Command) Result {
	pane := c.pane
	switch cmd.Kind {
	case CmdInsertChar:
		if cmd.Rune != '\t' {
			pane.Insert(string(cmd.Rune))
		}
	case CmdInsertText:
		pane.Insert(strings.NewReplacer("\r", "", "\n", " ").Replace(cmd.Text))
	case CmdDeleteBackward:
		if pane.Doc.Len() == 0 {
			pane.Reset("")
			return Closed
		}
		pane.DeleteBackward()
	case CmdDeleteForward:
		pane.DeleteForward()
	case CmdMove:
		switch cmd.Motion {
		case motion.LineUp, motion.LineDown, motion.PageUp, motion.PageDown:
		default:
			pane.Move(cmd.Motion)
		}
	case CmdUndo:
		pane.Undo()
	case CmdRedo:
		pane.Redo()
	case CmdNewline:
		line := c.Input()
		pane.Reset("")
		e.Focus(IDPanel)
		e.Execute(line)
	case CmdCancel:
		pane.Reset("")
		return Closed
	case CmdEnterCommand, CmdFind, CmdCommit, CmdPaste, CmdCopyLine:
	default:
		return Ignored
	}
	return Handled
}
