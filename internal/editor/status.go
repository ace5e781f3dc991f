package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	fileFieldWidth     = 45
	positionFieldWidth = 20
)

// StatusBar shows the file, the cursor position and the git branch.
type StatusBar struct {
	base
	File     string
	Position string
	Branch   string
}

func newStatusBar() *StatusBar {
	s := &StatusBar{}
	s.id, s.kind = IDStatus, KindStatusBar
	return s
}

func (s *StatusBar) Refresh(e *Editor) {
	name := e.Path()
	if name == "" {
		name = "[scratch]"
	}
	pane := e.Panel().Pane()
	if pane.Modified() {
		name += "*"
	}
	s.File = name

	// Position comes from the read-only cursor view so the status bar never
	// moves the panel's scroll window.
	v := pane.View
	x, y := v.CursorView()
	off := v.Border.Offset()
	col := x + 1 - v.Rect.X - off + v.Cursor.ScrollColumns
	line := y + 1 - v.Rect.Y - off + v.Cursor.ScrollLines
	s.Position = fmt.Sprintf("%d%% (%d,%d)", v.Percent(), col, line)

	symbol := strings.TrimSpace(e.opts.GitBranchSymbol)
	branch := e.Branch()
	if branch == "" {
		branch = "/"
	}
	s.Branch = strings.TrimSpace(symbol + " " + branch)
}

// Text lays the fields out in fixed-width columns.
func (s *StatusBar) Text() string {
	return fitField(s.File, fileFieldWidth) + fitField(s.Position, positionFieldWidth) + s.Branch
}

// fitField pads s to width cells. Longer text keeps its tail, so a long path
// still shows the file name.
func fitField(s string, width int) string {
	limit := width - 1
	if runewidth.StringWidth(s) > limit {
		runes := []rune(s)
		w := 0
		i := len(runes)
		for i > 0 {
			rw := runewidth.RuneWidth(runes[i-1])
			if w+rw > limit {
				break
			}
			w += rw
			i--
		}
		s = string(runes[i:])
	}
	return runewidth.FillRight(s, width)
}
