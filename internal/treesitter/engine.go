// Package treesitter parses open documents and turns highlight query
// captures into per-line spans.
package treesitter

import (
	"context"
	"math"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/ropedit/internal/config"
	"github.com/kobzarvs/ropedit/internal/document"
	"github.com/kobzarvs/ropedit/internal/logger"
)

type grammar struct {
	lang  *sitter.Language
	query string
}

var grammars = map[string]grammar{
	"go":   {golang.GetLanguage(), goHighlightQuery},
	"yaml": {yaml.GetLanguage(), yamlHighlightQuery},
	"toml": {toml.GetLanguage(), tomlHighlightQuery},
	"bash": {bash.GetLanguage(), bashHighlightQuery},
}

// Event reports that a background parse finished. Rev is the document
// revision the new tree reflects.
type Event struct {
	Kind string
	Path string
	Rev  uint64
}

// HighlightSpan covers byte columns [StartCol, EndCol) of one line.
type HighlightSpan struct {
	StartCol int
	EndCol   int
	Kind     string
}

type parseRequest struct {
	path    string
	grammar string
	text    string
	rev     uint64
}

type Engine struct {
	langs   config.Languages
	parsers map[string]*sitter.Parser
	queries map[string]*sitter.Query
	trees   map[string]*sitter.Tree
	sources map[string][]byte
	revs    map[string]uint64
	reqCh   chan parseRequest
	events  chan Event
	stopCh  chan struct{}
	mu      sync.RWMutex
}

func New(langs config.Languages) *Engine {
	return &Engine{
		langs:   langs,
		parsers: make(map[string]*sitter.Parser),
		queries: make(map[string]*sitter.Query),
		trees:   make(map[string]*sitter.Tree),
		sources: make(map[string][]byte),
		revs:    make(map[string]uint64),
		reqCh:   make(chan parseRequest, 8),
		events:  make(chan Event, 16),
		stopCh:  make(chan struct{}),
	}
}

// Start compiles the highlight queries and runs the background parser.
func (e *Engine) Start() error {
	for name, g := range grammars {
		p := sitter.NewParser()
		p.SetLanguage(g.lang)
		e.parsers[name] = p

		query, err := sitter.NewQuery([]byte(g.query), g.lang)
		if err != nil {
			logger.Warn("highlight query rejected", "grammar", name, "err", err)
			continue
		}
		e.queries[name] = query
	}
	go e.loop()
	return nil
}

func (e *Engine) Stop() error {
	select {
	case <-e.stopCh:
	default:
		close(e.stopCh)
	}
	return nil
}

func (e *Engine) Events() <-chan Event {
	return e.events
}

// Supports reports whether path maps to a grammar the engine can parse.
func (e *Engine) Supports(path string) bool {
	_, ok := grammars[e.langs.GrammarFor(path)]
	return ok
}

// OpenFile queues a background parse of text at revision rev. Files without
// a grammar are ignored.
func (e *Engine) OpenFile(path, text string, rev uint64) {
	name := e.langs.GrammarFor(path)
	if _, ok := grammars[name]; !ok {
		return
	}
	select {
	case e.reqCh <- parseRequest{path: path, grammar: name, text: text, rev: rev}:
	default:
		logger.Debug("parse queue full", "path", path)
	}
}

// CloseFile forgets the tree held for path.
func (e *Engine) CloseFile(path string) {
	e.mu.Lock()
	delete(e.trees, path)
	delete(e.sources, path)
	delete(e.revs, path)
	e.mu.Unlock()
}

func (e *Engine) loop() {
	for {
		select {
		case <-e.stopCh:
			return
		case req := <-e.reqCh:
			if e.parse(req.path, req.grammar, req.text, req.rev, nil) {
				e.sendEvent(Event{Kind: "parsed", Path: req.path, Rev: req.rev})
			}
		}
	}
}

func (e *Engine) sendEvent(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

// ParseSync parses text from scratch on the calling goroutine.
func (e *Engine) ParseSync(path, text string, rev uint64) bool {
	return e.parse(path, e.langs.GrammarFor(path), text, rev, nil)
}

// ParseSyncEdit applies edit to the previous tree and re-parses
// incrementally. Without a previous tree it parses from scratch.
func (e *Engine) ParseSyncEdit(path, text string, rev uint64, edit document.Edit) bool {
	in := EditInput(edit)
	return e.parse(path, e.langs.GrammarFor(path), text, rev, &in)
}

// parse keeps the newest revision per path: a result older than the stored
// tree is dropped.
func (e *Engine) parse(path, name, text string, rev uint64, edit *sitter.EditInput) bool {
	g, ok := grammars[name]
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if last, ok := e.revs[path]; ok && rev < last {
		return false
	}
	parser := e.parsers[name]
	if parser == nil {
		parser = sitter.NewParser()
		parser.SetLanguage(g.lang)
		e.parsers[name] = parser
	}
	var prev *sitter.Tree
	if edit != nil {
		prev = e.trees[path]
	}
	if prev != nil {
		prev.Edit(*edit)
	}
	source := []byte(text)
	tree, err := parser.ParseCtx(context.Background(), prev, source)
	if err != nil {
		logger.Warn("parse failed", "path", path, "err", err)
		return false
	}
	e.trees[path] = tree
	e.sources[path] = source
	e.revs[path] = rev
	return true
}

// EditInput converts a document edit to tree-sitter's form.
func EditInput(ed document.Edit) sitter.EditInput {
	point := func(p document.Point) sitter.Point {
		return sitter.Point{Row: uint32(p.Row), Column: uint32(p.Column)}
	}
	return sitter.EditInput{
		StartIndex:  uint32(ed.StartByte),
		OldEndIndex: uint32(ed.OldEndByte),
		NewEndIndex: uint32(ed.NewEndByte),
		StartPoint:  point(ed.StartPoint),
		OldEndPoint: point(ed.OldEndPoint),
		NewEndPoint: point(ed.NewEndPoint),
	}
}

// Highlights returns spans for lines in [first, last), keyed by line.
func (e *Engine) Highlights(path string, first, last int) map[int][]HighlightSpan {
	if first < 0 || last <= first {
		return nil
	}
	name := e.langs.GrammarFor(path)
	e.mu.RLock()
	query := e.queries[name]
	tree := e.trees[path]
	source := e.sources[path]
	e.mu.RUnlock()
	if query == nil || tree == nil {
		return nil
	}
	return queryHighlights(query, tree, source, first, last-1)
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]HighlightSpan {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	out := make(map[int][]HighlightSpan)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start, end := capture.Node.StartPoint(), capture.Node.EndPoint()
			startRow, endRow := int(start.Row), int(end.Row)
			for row := max(startRow, startLine); row <= min(endRow, endLine); row++ {
				startCol, endCol := 0, math.MaxInt32
				if row == startRow {
					startCol = int(start.Column)
				}
				if row == endRow {
					endCol = int(end.Column)
				}
				out[row] = append(out[row], HighlightSpan{StartCol: startCol, EndCol: endCol, Kind: kind})
			}
		}
	}
	return out
}
