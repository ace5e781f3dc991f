// Package session remembers cursor and scroll state per file between runs.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/ropedit/internal/logger"
)

const autosaveInterval = 15 * time.Second

// FileState is the saved cursor of one file.
type FileState struct {
	TextPosition  int `json:"text_position"`
	ScrollLines   int `json:"scroll_lines"`
	ScrollColumns int `json:"scroll_columns"`
}

type Session struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager holds the session in memory and writes it out when it changed,
// every autosave tick and on Stop.
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
	stopOnce sync.Once
}

// DefaultPath is $XDG_STATE_HOME/ropedit/session.json, falling back to
// ~/.local/state.
func DefaultPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "ropedit", "session.json"), nil
}

// NewManager loads the session stored at path and starts autosaving. A
// missing or unreadable file starts an empty session.
func NewManager(path string) *Manager {
	m := &Manager{
		session:  Session{Files: make(map[string]FileState)},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	go m.autosaveLoop()
	return m
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("session read failed", "path", m.path, "err", err)
		}
		return
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("session corrupt, starting fresh", "path", m.path, "err", err)
		return
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	m.session = s
}

// Save writes the session if anything changed since the last write.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

func (m *Manager) FileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.session.Files[absPath]
	return st, ok
}

// SetFileState records the state of absPath and makes it the active file.
func (m *Manager) SetFileState(absPath string, st FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.session.Files[absPath]; ok && cur == st && m.session.ActiveFile == absPath {
		return
	}
	m.session.Files[absPath] = st
	m.session.ActiveFile = absPath
	m.dirty = true
}

func (m *Manager) autosaveLoop() {
	ticker := time.NewTicker(autosaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := m.Save(); err != nil {
				logger.Warn("session autosave failed", "err", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// Stop ends autosaving and writes the session whether or not it changed.
// Calling it again only repeats the write.
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	return m.Save()
}
