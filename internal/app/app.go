// Package app wires the editor to a terminal screen and runs the event loop.
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/ropedit/internal/config"
	"github.com/kobzarvs/ropedit/internal/editor"
	"github.com/kobzarvs/ropedit/internal/gitinfo"
	"github.com/kobzarvs/ropedit/internal/keymap"
	"github.com/kobzarvs/ropedit/internal/logger"
	"github.com/kobzarvs/ropedit/internal/session"
	"github.com/kobzarvs/ropedit/internal/shell"
	"github.com/kobzarvs/ropedit/internal/treesitter"
	"github.com/kobzarvs/ropedit/internal/ui"
	"github.com/kobzarvs/ropedit/internal/view"
)

const gitPollInterval = 2 * time.Second

// App is the top-level runtime for ropedit.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	return a.run(s, cfg, langs)
}

func (a *App) run(s tcell.Screen, cfg config.Config, langs config.Languages) error {
	var path string
	if len(a.args) > 0 {
		path = a.args[0]
	}
	gitPath := path
	if gitPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			gitPath = cwd
		}
	}

	opts := []editor.Option{
		editor.WithRunner(shell.New("")),
		editor.WithBranches(func() ([]string, string, error) {
			return gitinfo.ListBranches(gitPath)
		}),
	}
	if !clipboard.Unsupported {
		opts = append(opts, editor.WithClipboard(systemClipboard{}))
	}
	ed := editor.New(cfg, opts...)
	ed.Layout(s.Size())
	keys := keymap.New(cfg.Keymap)
	renderer := ui.NewRenderer(ui.NewTheme(cfg.Theme))

	ts := treesitter.New(langs)
	if err := ts.Start(); err != nil {
		return err
	}
	defer func() { _ = ts.Stop() }()
	hl := newHighlighter(ts)

	sess := openSession()
	if sess != nil {
		defer func() {
			if err := sess.Stop(); err != nil {
				logger.Warn("session save failed", "err", err)
			}
		}()
	}

	if path != "" {
		if err := ed.OpenFile(path); err != nil {
			return err
		}
		if sess != nil {
			if st, ok := sess.FileState(absPath(path)); ok {
				ed.RestoreCursor(view.Cursor{
					TextPosition:  st.TextPosition,
					ScrollLines:   st.ScrollLines,
					ScrollColumns: st.ScrollColumns,
				})
			}
		}
		hl.open(ed, path)
	}
	ed.SetBranch(gitinfo.Branch(gitPath))

	stop := make(chan struct{})
	defer close(stop)
	go forwardEvents(s, ts.Events(), stop)

	hl.sync(ed)
	renderer.Draw(s, ed)
	for ed.Running() {
		ev := s.PollEvent()
		if ev == nil {
			break
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if cmd, ok := keys.Lookup(ev); ok {
				ed.Dispatch(cmd)
			}
		case *tcell.EventMouse:
			if cmd, ok := keymap.Mouse(ev); ok {
				ed.Dispatch(cmd)
			}
		case *tcell.EventResize:
			ed.Layout(ev.Size())
			s.Sync()
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case treesitter.Event:
				hl.onParsed(data)
			case nil:
				ed.SetBranch(gitinfo.Branch(gitPath))
			}
		}
		hl.sync(ed)
		renderer.Draw(s, ed)
	}

	if sess != nil && ed.Path() != "" {
		c := ed.Panel().Pane().View.Cursor
		sess.SetFileState(absPath(ed.Path()), session.FileState{
			TextPosition:  c.TextPosition,
			ScrollLines:   c.ScrollLines,
			ScrollColumns: c.ScrollColumns,
		})
	}
	return nil
}

// forwardEvents wakes the event loop for finished parses and for the git
// branch poll.
func forwardEvents(s tcell.Screen, parsed <-chan treesitter.Event, stop <-chan struct{}) {
	ticker := time.NewTicker(gitPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case ev := <-parsed:
			_ = s.PostEvent(tcell.NewEventInterrupt(ev))
		case <-ticker.C:
			_ = s.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}
}

func openSession() *session.Manager {
	path, err := session.DefaultPath()
	if err != nil {
		logger.Warn("session disabled", "err", err)
		return nil
	}
	return session.NewManager(path)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
