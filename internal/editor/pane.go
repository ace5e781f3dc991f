package editor

import (
	"github.com/kobzarvs/ropedit/internal/document"
	"github.com/kobzarvs/ropedit/internal/history"
	"github.com/kobzarvs/ropedit/internal/logger"
	"github.com/kobzarvs/ropedit/internal/motion"
	"github.com/kobzarvs/ropedit/internal/view"
)

// Pane is an editable region: a document, the view onto it and its action
// log. Every widget that shows text owns one.
type Pane struct {
	Doc      *document.Document
	View     *view.View
	Log      *history.Log
	ReadOnly bool

	modified bool
}

func NewPane(text string, border view.BorderStyle, opts ...history.Option) *Pane {
	doc := document.New(text)
	return &Pane{
		Doc:  doc,
		View: view.New(doc, view.Rect{Width: 1, Height: 1}, border),
		Log:  history.New(opts...),
	}
}

func (p *Pane) Pos() int { return p.View.Cursor.TextPosition }

func (p *Pane) Modified() bool { return p.modified }

// MarkSaved commits the open action and clears the modified flag.
func (p *Pane) MarkSaved() {
	p.Log.Commit()
	p.modified = false
}

// Reset replaces the text and starts a fresh history.
func (p *Pane) Reset(text string) {
	p.Doc.SetText(text)
	p.Log.Clear()
	p.View.Cursor = view.Cursor{}
	p.modified = false
}

// Insert types text at the cursor and leaves the cursor after it.
func (p *Pane) Insert(text string) bool {
	if p.ReadOnly || text == "" {
		return false
	}
	pos := p.Pos()
	if err := p.Doc.Insert(pos, text); err != nil {
		logger.Warn("insert failed", "pos", pos, "err", err)
		return false
	}
	p.Log.RecordInsert(pos, text)
	p.View.SetTextPosition(pos + len(text))
	p.modified = true
	return true
}

// InsertAction inserts text as an undo step of its own.
func (p *Pane) InsertAction(text string) bool {
	p.Log.Commit()
	ok := p.Insert(text)
	p.Log.Commit()
	return ok
}

// DeleteBackward removes the character before the cursor.
func (p *Pane) DeleteBackward() bool {
	pos := p.Pos()
	if p.ReadOnly || pos == 0 {
		return false
	}
	start := p.Doc.PrevBoundary(pos)
	return p.remove(start, pos, start)
}

// DeleteForward removes the character under the cursor.
func (p *Pane) DeleteForward() bool {
	pos := p.Pos()
	if p.ReadOnly || pos >= p.Doc.Len() {
		return false
	}
	return p.remove(pos, p.Doc.NextBoundary(pos), pos)
}

func (p *Pane) remove(start, end, cursor int) bool {
	removed, err := p.Doc.Remove(start, end)
	if err != nil {
		logger.Warn("remove failed", "start", start, "end", end, "err", err)
		return false
	}
	p.Log.RecordDelete(start, removed)
	p.View.SetTextPosition(cursor)
	p.modified = true
	return true
}

// Move applies a navigation motion. Navigation closes the open action but
// records nothing itself.
func (p *Pane) Move(k motion.Kind) {
	pos := motion.Apply(k, p.Doc, p.Pos(), p.View.InnerHeight())
	if pos == p.Pos() {
		return
	}
	p.Log.Commit()
	p.View.SetTextPosition(pos)
}

// Jump moves the cursor to pos and records the move so it can be undone.
func (p *Pane) Jump(pos int) {
	from := p.Pos()
	p.View.ClampTextPosition(pos)
	p.Log.RecordMove(from, p.Pos())
}

// PlaceAt puts the cursor under the screen cell (x, y).
func (p *Pane) PlaceAt(x, y int) {
	pos := p.View.OffsetAt(x, y)
	if pos == p.Pos() {
		return
	}
	p.Log.Commit()
	p.View.SetTextPosition(pos)
}

func (p *Pane) Commit() { p.Log.Commit() }

func (p *Pane) Undo() bool {
	return p.replay(p.Log.Undo, "undo")
}

func (p *Pane) Redo() bool {
	return p.replay(p.Log.Redo, "redo")
}

func (p *Pane) replay(fn func(history.Editable) (int, bool, error), op string) bool {
	if p.ReadOnly {
		return false
	}
	rev := p.Doc.Revision()
	pos, ok, err := fn(p.Doc)
	if err != nil {
		logger.Error(op+" failed", "err", err)
		return false
	}
	if !ok {
		return false
	}
	p.View.ClampTextPosition(pos)
	if p.Doc.Revision() != rev {
		p.modified = true
	}
	return true
}

// CurrentLine returns the cursor line including its newline.
func (p *Pane) CurrentLine() string {
	return p.Doc.Line(p.Doc.ByteToLine(p.Pos()))
}

// Find moves to the next occurrence of s after the cursor, wrapping to the
// document start. The jump is recorded.
func (p *Pane) Find(s string) bool {
	if s == "" {
		return false
	}
	i := p.Doc.Index(s, p.Doc.NextBoundary(p.Pos()))
	if i < 0 {
		i = p.Doc.Index(s, 0)
	}
	if i < 0 {
		return false
	}
	p.Jump(i)
	return true
}

// GotoLine moves to the start of the 1-based line n, clamped to the
// document. The jump is recorded.
func (p *Pane) GotoLine(n int) {
	line := max(min(n-1, p.Doc.LineCount()-1), 0)
	p.Jump(p.Doc.LineToByte(line))
}
