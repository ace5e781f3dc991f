package app

import (
	"github.com/kobzarvs/ropedit/internal/editor"
	"github.com/kobzarvs/ropedit/internal/treesitter"
)

const maxHighlightBytes = 8 << 20

// highlighter keeps the parse tree in step with the panel's document and
// hands spans for the visible lines to the editor.
type highlighter struct {
	ts      *treesitter.Engine
	path    string
	enabled bool

	rev    uint64 // revision the engine has been given
	parsed bool   // the engine holds a tree for rev
	stale  bool

	first, last int
}

func newHighlighter(ts *treesitter.Engine) *highlighter {
	return &highlighter{ts: ts, first: -1, last: -1}
}

// open starts a background parse of the freshly loaded document.
func (h *highlighter) open(ed *editor.Editor, path string) {
	doc := ed.Panel().Pane().Doc
	doc.ConsumeEdit()
	h.path = path
	h.rev = doc.Revision()
	h.parsed = false
	h.stale = true
	h.enabled = h.ts.Supports(path) && doc.Len() <= maxHighlightBytes
	if h.enabled {
		h.ts.OpenFile(path, doc.Text(), h.rev)
	}
}

func (h *highlighter) onParsed(ev treesitter.Event) {
	if ev.Path == h.path && ev.Rev == h.rev {
		h.parsed = true
		h.stale = true
	}
}

// sync re-parses after edits, incrementally when exactly one edit happened
// on top of a known tree, and refreshes spans when the text or the visible
// range changed.
func (h *highlighter) sync(ed *editor.Editor) {
	if !h.enabled {
		return
	}
	doc := ed.Panel().Pane().Doc
	if rev := doc.Revision(); rev != h.rev {
		edit, single := doc.ConsumeEdit()
		if single && h.parsed {
			h.parsed = h.ts.ParseSyncEdit(h.path, doc.Text(), rev, edit)
		} else {
			h.parsed = h.ts.ParseSync(h.path, doc.Text(), rev)
		}
		h.rev = rev
		h.stale = true
	}
	if !h.parsed {
		return
	}
	first, last := ed.Panel().Pane().View.VisibleLines()
	if !h.stale && first == h.first && last == h.last {
		return
	}
	h.first, h.last, h.stale = first, last, false
	ed.SetHighlights(toEditorSpans(h.ts.Highlights(h.path, first, last)))
}

func toEditorSpans(in map[int][]treesitter.HighlightSpan) map[int][]editor.HighlightSpan {
	if in == nil {
		return nil
	}
	out := make(map[int][]editor.HighlightSpan, len(in))
	for line, spans := range in {
		dst := make([]editor.HighlightSpan, len(spans))
		for i, s := range spans {
			dst[i] = editor.HighlightSpan{StartCol: s.StartCol, EndCol: s.EndCol, Kind: s.Kind}
		}
		out[line] = dst
	}
	return out
}
