package gitinfo

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s\n%s", strings.Join(args, " "), out)
	return string(out)
}

func TestHeadParsing(t *testing.T) {
	dir := t.TempDir()
	git := filepath.Join(dir, ".git")
	require.NoError(t, os.Mkdir(git, 0o755))

	write := func(head string) {
		require.NoError(t, os.WriteFile(filepath.Join(git, "HEAD"), []byte(head), 0o644))
	}

	write("ref: refs/heads/feature/rope\n")
	assert.Equal(t, "feature/rope", Branch(dir))

	write("0123456789abcdef\n")
	assert.Equal(t, "detached:0123456", Branch(dir))

	write("")
	assert.Equal(t, "", Branch(dir))
}

func TestRootFromNestedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	// the file does not need to exist yet
	assert.Equal(t, dir, Root(filepath.Join(sub, "new.go")))
	assert.Equal(t, "main", Branch(filepath.Join(sub, "new.go")))
}

func TestGitFileRedirect(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "store")
	require.NoError(t, os.Mkdir(store, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(store, "HEAD"), []byte("ref: refs/heads/wt\n"), 0o644))
	work := filepath.Join(dir, "work")
	require.NoError(t, os.Mkdir(work, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(work, ".git"), []byte("gitdir: ../store\n"), 0o644))

	assert.Equal(t, "wt", Branch(work))
}

func TestBranchAndRoot(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init")

	assert.NotEmpty(t, Branch(dir))
	assert.Equal(t, dir, Root(dir))
}

func TestListBranches(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("hi"), 0o644))
	runGit(t, dir, "add", "file.txt")
	runGit(t, dir, "commit", "-m", "init")
	runGit(t, dir, "branch", "dev")

	branches, current, err := ListBranches(filepath.Join(dir, "file.txt"))
	require.NoError(t, err)
	assert.NotEmpty(t, current)
	assert.Contains(t, branches, "dev")
	assert.Contains(t, branches, current)
}

func TestListBranchesNotRepo(t *testing.T) {
	_, _, err := ListBranches(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)
}
