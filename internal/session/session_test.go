package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPathUsesStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ropedit", "session.json"), path)
}

func TestRoundTripThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	m := NewManager(path)
	st := FileState{TextPosition: 42, ScrollLines: 3, ScrollColumns: 1}
	m.SetFileState("/tmp/a.go", st)
	require.NoError(t, m.Stop())

	again := NewManager(path)
	defer again.Stop()
	got, ok := again.FileState("/tmp/a.go")
	require.True(t, ok)
	assert.Equal(t, st, got)
	assert.Equal(t, "/tmp/a.go", again.session.ActiveFile)

	_, ok = again.FileState("/tmp/missing.go")
	assert.False(t, ok)
}

func TestSaveSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManager(path)
	defer m.Stop()

	require.NoError(t, m.Save())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	m.SetFileState("/a", FileState{TextPosition: 1})
	require.NoError(t, m.Save())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m := NewManager(path)
	defer m.Stop()
	_, ok := m.FileState("/a")
	assert.False(t, ok)
	m.SetFileState("/a", FileState{TextPosition: 2})
	got, ok := m.FileState("/a")
	require.True(t, ok)
	assert.Equal(t, 2, got.TextPosition)
}

func TestStopTwice(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, m.Stop())
	assert.NoError(t, m.Stop())
}
