// Package gitinfo reads the current branch for the status bar and lists
// branches for the branches popup.
package gitinfo

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrNotRepository = errors.New("not a git repository")

// Branch returns the checked-out branch of the repository containing path,
// "detached:<sha>" for a detached HEAD, or "" outside a repository.
func Branch(path string) string {
	dir, ok := gitDir(path)
	if !ok {
		return ""
	}
	branch, err := readHead(dir)
	if err != nil {
		return ""
	}
	return branch
}

// Root returns the work tree containing path, or "".
func Root(path string) string {
	dir, ok := gitDir(path)
	if !ok {
		return ""
	}
	return filepath.Dir(dir)
}

// ListBranches returns the local branches and the current one.
func ListBranches(path string) ([]string, string, error) {
	root := Root(path)
	if root == "" {
		return nil, "", ErrNotRepository
	}
	out, err := exec.Command("git", "-C", root, "branch", "--format=%(refname:short)").CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return nil, "", errors.New(msg)
		}
		return nil, "", err
	}
	var branches []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, Branch(root), nil
}

// gitDir walks up from path to the nearest .git directory. A .git file
// holding "gitdir: ..." (worktrees, submodules) is followed.
func gitDir(path string) (string, bool) {
	start, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(start); err != nil {
		start = filepath.Dir(start)
	} else if !info.IsDir() {
		start = filepath.Dir(start)
	}
	for {
		candidate := filepath.Join(start, ".git")
		if info, err := os.Stat(candidate); err == nil {
			if info.IsDir() {
				return candidate, true
			}
			if dir, ok := readGitFile(candidate, start); ok {
				return dir, true
			}
		}
		parent := filepath.Dir(start)
		if parent == start {
			return "", false
		}
		start = parent
	}
}

func readGitFile(name, base string) (string, bool) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", false
	}
	line := strings.TrimSpace(string(data))
	dir, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", false
	}
	dir = strings.TrimSpace(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	return dir, true
}

func readHead(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "HEAD"))
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("empty HEAD")
	}
	if ref, ok := strings.CutPrefix(line, "ref:"); ok {
		return strings.TrimPrefix(strings.TrimSpace(ref), "refs/heads/"), nil
	}
	if len(line) >= 7 {
		return "detached:" + line[:7], nil
	}
	return "detached", nil
}
