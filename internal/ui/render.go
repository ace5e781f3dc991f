package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/kobzarvs/ropedit/internal/editor"
	"github.com/kobzarvs/ropedit/internal/view"
)

type borderRunes struct {
	tl, tr, bl, br, h, v rune
}

var (
	solidBorder  = borderRunes{'┌', '┐', '└', '┘', '─', '│'}
	dashedBorder = borderRunes{'┌', '┐', '└', '┘', '┄', '┆'}
)

type Renderer struct {
	theme Theme
}

func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Draw paints every widget in z-order and places the terminal cursor.
func (r *Renderer) Draw(s tcell.Screen, e *editor.Editor) {
	s.SetStyle(r.theme.Main)
	s.Clear()
	for _, w := range e.Widgets() {
		switch w := w.(type) {
		case *editor.Panel:
			r.drawPane(s, w.Pane(), r.theme.Main, w.Highlights)
		case *editor.LineNumbers:
			r.drawLineNumbers(s, w)
		case *editor.StatusBar:
			rect := w.Rect()
			drawString(s, rect.X, rect.Y, rect.Width, w.Text(), r.theme.Status)
		case *editor.CommandLine:
			rect := w.Rect()
			if e.Focused() == editor.Widget(w) {
				r.drawPane(s, w.Pane(), r.theme.Command, nil)
			} else {
				drawString(s, rect.X, rect.Y, rect.Width, e.Message(), r.theme.Command)
			}
		case *editor.Popup:
			r.drawPopup(s, w)
		}
	}
	if x, y, ok := e.Cursor(); ok {
		s.ShowCursor(x, y)
	} else {
		s.HideCursor()
	}
	s.Show()
}

func (r *Renderer) drawLineNumbers(s tcell.Screen, l *editor.LineNumbers) {
	rect := l.Rect()
	for i, label := range l.Labels() {
		if i >= rect.Height {
			break
		}
		st := r.theme.LineNumber
		if label.Current {
			st = r.theme.LineNumberActive
		}
		drawString(s, rect.X, rect.Y+i, rect.Width, label.Text, st)
	}
}

func (r *Renderer) drawPopup(s tcell.Screen, p *editor.Popup) {
	pane := p.Pane()
	rect := pane.View.Rect
	fill(s, rect, r.theme.Popup)
	if pane.View.Border != view.BorderNone {
		b := solidBorder
		if pane.View.Border == view.BorderDashed {
			b = dashedBorder
		}
		r.drawBorder(s, rect, b)
		if p.Title != "" && rect.Width > 4 {
			title := runewidth.Truncate(" "+p.Title+" ", rect.Width-2, "…")
			drawString(s, rect.X+1, rect.Y, runewidth.StringWidth(title), title, r.theme.Border)
		}
	}
	r.drawPane(s, pane, r.theme.Popup, nil)
}

func (r *Renderer) drawBorder(s tcell.Screen, rect view.Rect, b borderRunes) {
	if rect.Width < 2 || rect.Height < 2 {
		return
	}
	st := r.theme.Border
	x0, y0 := rect.X, rect.Y
	x1, y1 := rect.X+rect.Width-1, rect.Y+rect.Height-1
	for x := x0 + 1; x < x1; x++ {
		s.SetContent(x, y0, b.h, nil, st)
		s.SetContent(x, y1, b.h, nil, st)
	}
	for y := y0 + 1; y < y1; y++ {
		s.SetContent(x0, y, b.v, nil, st)
		s.SetContent(x1, y, b.v, nil, st)
	}
	s.SetContent(x0, y0, b.tl, nil, st)
	s.SetContent(x1, y0, b.tr, nil, st)
	s.SetContent(x0, y1, b.bl, nil, st)
	s.SetContent(x1, y1, b.br, nil, st)
}

// drawPane paints the visible part of a pane's document inside its border.
func (r *Renderer) drawPane(s tcell.Screen, pane *editor.Pane, base tcell.Style, spans func(line int) []editor.HighlightSpan) {
	v := pane.View
	off := v.Border.Offset()
	ox, oy := v.Rect.X+off, v.Rect.Y+off
	w := v.InnerWidth()
	fill(s, view.Rect{X: ox, Y: oy, Width: w, Height: v.InnerHeight()}, base)

	sc := v.Cursor.ScrollColumns
	first, last := v.VisibleLines()
	for line := first; line < last; line++ {
		y := oy + line - first
		var hl []editor.HighlightSpan
		if spans != nil {
			hl = spans(line)
		}
		x := 0
		g := uniseg.NewGraphemes(pane.Doc.LineText(line))
		for g.Next() && x < sc+w {
			from, _ := g.Positions()
			cluster := g.Str()
			cw := view.CellWidth(cluster, x, v.TabWidth)
			st := base
			if kind, ok := kindAt(hl, from); ok {
				if ks, ok := r.theme.Syntax(kind); ok {
					st = ks
				}
			}
			switch {
			case cluster == "\t" || x < sc || x+cw > sc+w:
				// tabs and clusters cut by the window edge become blanks
				for c := max(x, sc); c < min(x+cw, sc+w); c++ {
					s.SetContent(ox+c-sc, y, ' ', nil, st)
				}
			default:
				runes := []rune(cluster)
				s.SetContent(ox+x-sc, y, runes[0], runes[1:], st)
			}
			x += cw
		}
	}
}

// kindAt picks the highest-priority span covering byte column col.
func kindAt(spans []editor.HighlightSpan, col int) (string, bool) {
	best, found := "", false
	for _, sp := range spans {
		if col < sp.StartCol || col >= sp.EndCol {
			continue
		}
		if !found || highlightPriority(sp.Kind) > highlightPriority(best) {
			best, found = sp.Kind, true
		}
	}
	return best, found
}

func fill(s tcell.Screen, rect view.Rect, st tcell.Style) {
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			s.SetContent(x, y, ' ', nil, st)
		}
	}
}

// drawString writes text from (x, y) and pads the row to width cells.
func drawString(s tcell.Screen, x, y, width int, text string, st tcell.Style) {
	col := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > width {
			break
		}
		s.SetContent(x+col, y, r, nil, st)
		col += rw
	}
	for ; col < width; col++ {
		s.SetContent(x+col, y, ' ', nil, st)
	}
}
