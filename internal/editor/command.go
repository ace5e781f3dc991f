package editor

import (
	"maps"
	"slices"

	"github.com/kobzarvs/ropedit/internal/motion"
)

type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdInsertChar
	CmdInsertText
	CmdNewline
	CmdDeleteBackward
	CmdDeleteForward
	CmdMove
	CmdUndo
	CmdRedo
	CmdCommit
	CmdClick
	CmdFocusNext
	CmdEnterCommand
	CmdFind
	CmdCancel
	CmdSave
	CmdQuit
	CmdPaste
	CmdCopyLine
)

// Command is one logical input delivered to the focused widget.
type Command struct {
	Kind   CommandKind
	Rune   rune
	Text   string
	Motion motion.Kind
	X, Y   int
}

func InsertChar(r rune) Command { return Command{Kind: CmdInsertChar, Rune: r} }

func InsertText(s string) Command { return Command{Kind: CmdInsertText, Text: s} }

func Move(k motion.Kind) Command { return Command{Kind: CmdMove, Motion: k} }

func Click(x, y int) Command { return Command{Kind: CmdClick, X: x, Y: y} }

var actions = map[string]Command{
	"backspace":     {Kind: CmdDeleteBackward},
	"delete_char":   {Kind: CmdDeleteForward},
	"newline":       {Kind: CmdNewline},
	"tab":           {Kind: CmdInsertChar, Rune: '\t'},
	"cancel":        {Kind: CmdCancel},
	"undo":          {Kind: CmdUndo},
	"redo":          {Kind: CmdRedo},
	"commit":        {Kind: CmdCommit},
	"save":          {Kind: CmdSave},
	"quit":          {Kind: CmdQuit},
	"paste":         {Kind: CmdPaste},
	"copy_line":     {Kind: CmdCopyLine},
	"enter_command": {Kind: CmdEnterCommand},
	"find":          {Kind: CmdFind},
	"focus_next":    {Kind: CmdFocusNext},
}

func init() {
	for k := motion.CharLeft; k <= motion.LineEnd; k++ {
		actions[k.String()] = Move(k)
	}
}

// ActionCommand resolves a keymap action name.
func ActionCommand(name string) (Command, bool) {
	cmd, ok := actions[name]
	return cmd, ok
}

// ActionNames lists every action a keymap may bind, sorted.
func ActionNames() []string {
	return slices.Sorted(maps.Keys(actions))
}
