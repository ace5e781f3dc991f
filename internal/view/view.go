// Package view translates between document byte offsets and screen
// coordinates for one editable region, keeping the scroll window around the
// cursor.
package view

import (
	"github.com/kobzarvs/ropedit/internal/document"
)

type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSolid
	BorderDashed
)

// ParseBorder maps a config value to a style.
func ParseBorder(s string) BorderStyle {
	switch s {
	case "solid":
		return BorderSolid
	case "dashed":
		return BorderDashed
	}
	return BorderNone
}

// Offset is the inset a drawn border takes on each side.
func (b BorderStyle) Offset() int {
	if b == BorderNone {
		return 0
	}
	return 1
}

// Rect is a screen rectangle, border included.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Cursor is the per-view cursor and scroll state.
type Cursor struct {
	TextPosition  int
	ScrollLines   int
	ScrollColumns int
}

// View binds a document to a screen rectangle.
type View struct {
	Doc      *document.Document
	Cursor   Cursor
	Rect     Rect
	Border   BorderStyle
	TabWidth int
}

func New(doc *document.Document, rect Rect, border BorderStyle) *View {
	return &View{Doc: doc, Rect: rect, Border: border, TabWidth: 4}
}

// InnerWidth is the number of text columns inside the border.
func (v *View) InnerWidth() int {
	return max(v.Rect.Width-2*v.Border.Offset(), 1)
}

// InnerHeight is the number of text rows inside the border.
func (v *View) InnerHeight() int {
	return max(v.Rect.Height-2*v.Border.Offset(), 1)
}

// SetTextPosition moves the cursor. pos must be a valid boundary.
func (v *View) SetTextPosition(pos int) {
	if !v.Doc.IsBoundary(pos) {
		panic(&document.BoundsError{Op: "set_text_position", Index: pos, Limit: v.Doc.Len()})
	}
	v.Cursor.TextPosition = pos
}

// ClampTextPosition moves the cursor to pos, pulled into the document and
// back onto a rune boundary. Used when the position comes from outside, such
// as a restored session or a replaced document.
func (v *View) ClampTextPosition(pos int) {
	pos = max(min(pos, v.Doc.Len()), 0)
	for pos > 0 && !v.Doc.IsBoundary(pos) {
		pos--
	}
	v.Cursor.TextPosition = pos
}

// LineColumn returns the cursor line and its display column.
func (v *View) LineColumn() (line, col int) {
	pos := v.Cursor.TextPosition
	line = v.Doc.ByteToLine(pos)
	start := v.Doc.LineToByte(line)
	return line, DisplayColumn(v.Doc.LineText(line), pos-start, v.TabWidth)
}

// UpdateCursorPositionAndView scrolls so the cursor is inside the window and
// returns its absolute screen position.
func (v *View) UpdateCursorPositionAndView() (x, y int) {
	line, col := v.LineColumn()
	h, w := v.InnerHeight(), v.InnerWidth()
	c := &v.Cursor
	if line < c.ScrollLines {
		c.ScrollLines = line
	}
	if line >= c.ScrollLines+h {
		c.ScrollLines = line - h + 1
	}
	if col < c.ScrollColumns {
		c.ScrollColumns = col
	}
	if col >= c.ScrollColumns+w {
		c.ScrollColumns = col - w + 1
	}
	return v.screen(line, col)
}

// CursorView returns the cursor's screen position for the current scroll
// state without changing it.
func (v *View) CursorView() (x, y int) {
	return v.screen(v.LineColumn())
}

func (v *View) screen(line, col int) (int, int) {
	off := v.Border.Offset()
	return col - v.Cursor.ScrollColumns + off + v.Rect.X,
		line - v.Cursor.ScrollLines + off + v.Rect.Y
}

// IsCursorVisible reports whether the cursor is inside the current scroll
// window.
func (v *View) IsCursorVisible() bool {
	line, col := v.LineColumn()
	c := v.Cursor
	return line >= c.ScrollLines && line < c.ScrollLines+v.InnerHeight() &&
		col >= c.ScrollColumns && col < c.ScrollColumns+v.InnerWidth()
}

// Contains reports whether the screen cell is inside the view's rectangle.
func (v *View) Contains(x, y int) bool {
	r := v.Rect
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// OffsetAt maps a screen cell to the nearest document offset. Cells past the
// end of a line map to the line end; rows past the document map to the last
// line.
func (v *View) OffsetAt(x, y int) int {
	off := v.Border.Offset()
	line := y - v.Rect.Y - off + v.Cursor.ScrollLines
	line = max(min(line, v.Doc.LineCount()-1), 0)
	col := max(x-v.Rect.X-off+v.Cursor.ScrollColumns, 0)
	return v.Doc.LineToByte(line) + ByteColumn(v.Doc.LineText(line), col, v.TabWidth)
}

// VisibleLines returns the half-open range of document lines in the window.
func (v *View) VisibleLines() (first, last int) {
	first = v.Cursor.ScrollLines
	last = min(first+v.InnerHeight(), v.Doc.LineCount())
	return first, max(last, first)
}

// Percent is the cursor line's position in the document, 1-based line over
// line count.
func (v *View) Percent() int {
	line, _ := v.LineColumn()
	return (line + 1) * 100 / v.Doc.LineCount()
}
