// Package editor holds the widget registry and routes logical commands to
// the focused widget.
package editor

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kobzarvs/ropedit/internal/config"
	"github.com/kobzarvs/ropedit/internal/history"
	"github.com/kobzarvs/ropedit/internal/logger"
	"github.com/kobzarvs/ropedit/internal/view"
)

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Runner runs a shell command line and returns its output. Failures yield
// an empty string.
type Runner interface {
	Run(cmdline string) string
}

// BranchLister returns the repository's branches and the current one.
type BranchLister func() (branches []string, current string, err error)

type Option func(*Editor)

func WithClipboard(c Clipboard) Option { return func(e *Editor) { e.clipboard = c } }

func WithRunner(r Runner) Option { return func(e *Editor) { e.runner = r } }

func WithBranches(fn BranchLister) Option { return func(e *Editor) { e.branches = fn } }

type Editor struct {
	opts    config.EditorOptions
	widgets map[WidgetID]Widget
	order   []WidgetID
	focus   WidgetID
	running bool

	path    string
	message string
	branch  string

	clipboard Clipboard
	runner    Runner
	branches  BranchLister

	width, height int
}

func New(cfg config.Config, opts ...Option) *Editor {
	e := &Editor{
		opts:    cfg.Editor,
		widgets: make(map[WidgetID]Widget),
		running: true,
	}
	if e.opts.TabWidth < 1 {
		e.opts.TabWidth = 1
	}
	for _, opt := range opts {
		opt(e)
	}

	panel := newPanel(
		history.WithPolicy(history.ParsePolicy(cfg.Editor.UndoGrouping)),
		history.WithLimit(cfg.Editor.UndoLimit),
	)
	panel.pane.View.TabWidth = e.opts.TabWidth
	e.Register(panel)
	e.Register(newLineNumbers(parseLineNumberMode(cfg.Editor.LineNumbers)))
	e.Register(newStatusBar())
	e.Register(newCommandLine())
	e.focus = IDPanel
	e.Layout(80, 24)
	return e
}

// Register adds w, replacing any widget with the same ID.
func (e *Editor) Register(w Widget) {
	if _, ok := e.widgets[w.ID()]; !ok {
		e.order = append(e.order, w.ID())
	}
	e.widgets[w.ID()] = w
}

// Remove drops a widget. Focus falls back to the panel.
func (e *Editor) Remove(id WidgetID) {
	if id == IDPanel {
		return
	}
	if _, ok := e.widgets[id]; !ok {
		return
	}
	delete(e.widgets, id)
	for i, o := range e.order {
		if o == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	if e.focus == id {
		e.focus = IDPanel
	}
}

func (e *Editor) Widget(id WidgetID) (Widget, bool) {
	w, ok := e.widgets[id]
	return w, ok
}

// Widgets returns the registered widgets in drawing order: lowest z-index
// first, registration order within a z-index.
func (e *Editor) Widgets() []Widget {
	out := make([]Widget, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.widgets[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex() < out[j].ZIndex() })
	return out
}

func (e *Editor) Panel() *Panel { return e.widgets[IDPanel].(*Panel) }

func (e *Editor) CommandLine() *CommandLine { return e.widgets[IDCommand].(*CommandLine) }

func (e *Editor) Focused() Widget { return e.widgets[e.focus] }

// Focus moves input to id. Only widgets with a pane can take focus.
func (e *Editor) Focus(id WidgetID) bool {
	w, ok := e.widgets[id]
	if !ok || w.Pane() == nil {
		return false
	}
	e.focus = id
	return true
}

// FocusNext cycles focus through the focusable widgets.
func (e *Editor) FocusNext() {
	n := len(e.order)
	start := 0
	for i, id := range e.order {
		if id == e.focus {
			start = i
			break
		}
	}
	for i := 1; i <= n; i++ {
		if e.Focus(e.order[(start+i)%n]) {
			return
		}
	}
}

func (e *Editor) Running() bool { return e.running }

func (e *Editor) Quit() { e.running = false }

func (e *Editor) Path() string { return e.path }

func (e *Editor) Branch() string { return e.branch }

func (e *Editor) SetBranch(b string) { e.branch = b }

func (e *Editor) Message() string { return e.message }

func (e *Editor) SetMessage(msg string) { e.message = msg }

func (e *Editor) TabWidth() int { return e.opts.TabWidth }

// SetHighlights hands syntax spans for the panel's lines to the renderer.
func (e *Editor) SetHighlights(spans map[int][]HighlightSpan) {
	e.Panel().SetHighlights(spans)
}

// Layout places the widgets for a w×h screen: gutter and panel on top, the
// status bar on the second-to-last row and the command line on the last.
func (e *Editor) Layout(w, h int) {
	e.width, e.height = max(w, 1), max(h, 1)
	w, h = e.width, e.height
	body := max(h-2, 1)
	gutter := 0
	if lines, ok := e.widgets[IDLines].(*LineNumbers); ok && lines.Mode != LineNumberOff {
		gutter = min(max(e.opts.LineNumberWidth, 2), w-1)
		lines.SetRect(view.Rect{X: 0, Y: 0, Width: gutter, Height: body})
	}
	e.widgets[IDPanel].SetRect(view.Rect{X: gutter, Y: 0, Width: max(w-gutter, 1), Height: body})
	if s, ok := e.widgets[IDStatus]; ok {
		s.SetRect(view.Rect{X: 0, Y: max(h-2, 0), Width: w, Height: 1})
	}
	if c, ok := e.widgets[IDCommand]; ok {
		c.SetRect(view.Rect{X: 0, Y: h - 1, Width: w, Height: 1})
	}
	if p, ok := e.widgets[IDPopup]; ok {
		p.SetRect(e.popupRect())
	}
	e.refresh()
}

func (e *Editor) popupRect() view.Rect {
	body := max(e.height-2, 1)
	pw := min(max(e.width*2/3, 20), e.width)
	ph := min(max(body*2/3, 3), body)
	return view.Rect{X: (e.width - pw) / 2, Y: (body - ph) / 2, Width: pw, Height: ph}
}

// Dispatch delivers one command. The focused widget gets it first; what it
// ignores is handled by the editor. Afterwards every pane scrolls to its
// cursor and every widget refreshes.
func (e *Editor) Dispatch(cmd Command) {
	e.message = ""
	switch cmd.Kind {
	case CmdQuit:
		e.running = false
	case CmdClick:
		e.click(cmd.X, cmd.Y)
	default:
		w := e.Focused()
		res := w.HandleCommand(e, cmd)
		switch res {
		case Closed:
			if w.Kind() == KindPopup {
				e.Remove(w.ID())
			}
			e.focus = IDPanel
		case Ignored:
			e.handle(cmd)
		}
	}
	e.refresh()
}

func (e *Editor) handle(cmd Command) {
	switch cmd.Kind {
	case CmdSave:
		if err := e.Save(""); err != nil {
			e.message = err.Error()
		}
	case CmdEnterCommand:
		e.openCommandLine(":")
	case CmdFind:
		e.openCommandLine("/")
	case CmdFocusNext:
		e.FocusNext()
	}
}

func (e *Editor) openCommandLine(prefix string) {
	e.CommandLine().start(prefix)
	e.focus = IDCommand
}

func (e *Editor) click(x, y int) {
	ws := e.Widgets()
	for i := len(ws) - 1; i >= 0; i-- {
		w := ws[i]
		pane := w.Pane()
		if pane == nil || !pane.View.Contains(x, y) {
			continue
		}
		if e.focus == IDPopup && w.ID() != IDPopup {
			return
		}
		if w.Kind() == KindCommandLine && e.focus != IDCommand {
			return
		}
		e.focus = w.ID()
		pane.PlaceAt(x, y)
		return
	}
}

func (e *Editor) refresh() {
	for _, id := range e.order {
		if pane := e.widgets[id].Pane(); pane != nil {
			pane.View.UpdateCursorPositionAndView()
		}
	}
	for _, id := range e.order {
		e.widgets[id].Refresh(e)
	}
}

// Cursor returns where the terminal cursor goes and whether to show it.
func (e *Editor) Cursor() (x, y int, visible bool) {
	pane := e.Focused().Pane()
	if pane == nil || pane.ReadOnly {
		return 0, 0, false
	}
	x, y = pane.View.CursorView()
	return x, y, pane.View.IsCursorVisible()
}

// RestoreCursor applies a saved cursor, pulled into the current document.
func (e *Editor) RestoreCursor(c view.Cursor) {
	pane := e.Panel().Pane()
	pane.View.ClampTextPosition(c.TextPosition)
	pane.View.Cursor.ScrollLines = max(min(c.ScrollLines, pane.Doc.LineCount()-1), 0)
	pane.View.Cursor.ScrollColumns = max(c.ScrollColumns, 0)
	e.refresh()
}

// OpenFile loads path into the panel. A missing file opens empty and is
// created on the first save.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	pane := e.Panel().Pane()
	pane.Reset(string(data))
	e.Panel().SetHighlights(nil)
	e.path = path
	e.refresh()
	logger.Info("file opened", "path", path, "bytes", len(data), "lines", pane.Doc.LineCount())
	return nil
}

// Save writes the panel's text to path, or to the open file when path is
// empty.
func (e *Editor) Save(path string) error {
	if path == "" {
		if e.path == "" {
			return errors.New("no file name")
		}
		path = e.path
	}
	pane := e.Panel().Pane()
	pane.Commit()
	text := pane.Doc.Text()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		logger.Error("save failed", "path", path, "err", err)
		return err
	}
	e.path = path
	pane.MarkSaved()
	e.message = fmt.Sprintf("%q %dL %dB written", path, pane.Doc.LineCount(), len(text))
	logger.Info("file saved", "path", path, "bytes", len(text))
	return nil
}

// Execute runs a command-line entry: ":N" jumps to a line, "/text" finds
// forward, "!cmd" shows shell output, and w, q, wq and branches act on the
// editor.
func (e *Editor) Execute(line string) {
	line = strings.TrimSpace(line)
	if q, ok := strings.CutPrefix(line, "/"); ok {
		if q != "" && !e.Panel().Pane().Find(q) {
			e.message = "not found: " + q
		}
		return
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, ":"))
	if line == "" {
		return
	}
	if n, err := strconv.Atoi(line); err == nil {
		e.Panel().Pane().GotoLine(n)
		return
	}
	if sh, ok := strings.CutPrefix(line, "!"); ok {
		e.shell(strings.TrimSpace(sh))
		return
	}

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	switch name {
	case "w":
		if err := e.Save(strings.Join(args, " ")); err != nil {
			e.message = err.Error()
		}
	case "q", "q!":
		e.running = false
	case "wq", "x":
		if err := e.Save(strings.Join(args, " ")); err != nil {
			e.message = err.Error()
			return
		}
		e.running = false
	case "branches":
		e.showBranches()
	default:
		e.message = "unknown command: " + name
	}
}

func (e *Editor) shell(cmdline string) {
	if cmdline == "" {
		return
	}
	if e.runner == nil {
		e.message = "shell unavailable"
		return
	}
	out := e.runner.Run(cmdline)
	if strings.TrimSpace(out) == "" {
		out = "(no output)"
	}
	e.OpenPopup("!"+cmdline, out)
}

func (e *Editor) showBranches() {
	if e.branches == nil {
		e.message = "git unavailable"
		return
	}
	list, current, err := e.branches()
	if err != nil {
		e.message = "not a git repository"
		return
	}
	var b strings.Builder
	for i, name := range list {
		if i > 0 {
			b.WriteByte('\n')
		}
		if name == current {
			b.WriteString("* ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(name)
	}
	e.OpenPopup("branches", b.String())
}

// OpenPopup shows text in a read-only popup and focuses it.
func (e *Editor) OpenPopup(title, text string) {
	p := newPopup(title, text, view.ParseBorder(e.opts.PopupBorder))
	p.pane.View.TabWidth = e.opts.TabWidth
	p.SetRect(e.popupRect())
	e.Remove(IDPopup)
	e.Register(p)
	e.focus = IDPopup
}

func (e *Editor) paste(pane *Pane) {
	if e.clipboard == nil {
		e.message = "clipboard unavailable"
		return
	}
	text, err := e.clipboard.ReadAll()
	if err != nil {
		logger.Warn("clipboard read failed", "err", err)
		e.message = "clipboard: " + err.Error()
		return
	}
	text = strings.ToValidUTF8(strings.ReplaceAll(text, "\r\n", "\n"), "\uFFFD")
	if !pane.InsertAction(text) && text != "" {
		e.message = "paste failed"
	}
}

func (e *Editor) copyLine(pane *Pane) {
	if e.clipboard == nil {
		e.message = "clipboard unavailable"
		return
	}
	if err := e.clipboard.WriteAll(pane.CurrentLine()); err != nil {
		logger.Warn("clipboard write failed", "err", err)
		e.message = "clipboard: " + err.Error()
		return
	}
	e.message = "line copied"
}
