// Package shell runs the command line's "!cmd" through sh.
package shell

import (
	"context"
	"os/exec"
	"time"

	"github.com/kobzarvs/ropedit/internal/logger"
)

// Runner blocks until the command exits. A zero Timeout waits forever.
type Runner struct {
	Shell   string
	Dir     string
	Timeout time.Duration
}

// New returns a runner using sh in dir. An empty dir means the editor's
// working directory.
func New(dir string) *Runner {
	return &Runner{Shell: "sh", Dir: dir}
}

// Run executes cmdline and returns stdout and stderr combined. Any failure,
// a non-zero exit included, gives "".
func (r *Runner) Run(cmdline string) string {
	ctx := context.Background()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	// #nosec G204 -- the user typed the command
	cmd := exec.CommandContext(ctx, r.Shell, "-c", cmdline)
	cmd.Dir = r.Dir
	// children of sh may keep the output pipe open after sh is killed
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Warn("shell command failed", "cmd", cmdline, "err", err, "output", string(out))
		return ""
	}
	logger.Debug("shell command done", "cmd", cmdline, "bytes", len(out))
	return string(out)
}
