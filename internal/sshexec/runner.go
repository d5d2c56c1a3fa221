package sshexec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mikanfactory/hibiki/internal/git"
)

// Runner adapts an SSH session to the git.CommandRunner contract. Each
// argument is shell-escaped individually, so the explicit argument
// arrays of the local backend map onto one remote command string
// without an injection surface.
type Runner struct {
	sess Session
}

func NewRunner(sess Session) *Runner {
	return &Runner{sess: sess}
}

func (r *Runner) Run(dir string, args ...string) (string, error) {
	cmd := "cd " + Quote(dir) + " && git " + QuoteAll(args)
	res, err := r.sess.Run(cmd)
	if err != nil {
		return "", fmt.Errorf("remote git %v: %w", args, err)
	}
	if res.ExitCode != 0 {
		return "", &git.CommandError{Args: args, Stderr: res.Stderr}
	}
	return res.Stdout, nil
}

// FS implements git.FS over the SSH channel for the few direct file
// operations the backend needs (diff fallbacks, revert of untracked
// files).
type FS struct {
	sess Session
}

func NewFS(sess Session) *FS {
	return &FS{sess: sess}
}

func (f *FS) ReadFile(path string) (string, error) {
	res, err := f.sess.Run("cat " + Quote(path))
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("cat %s: %s", path, strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

func (f *FS) FileSize(path string) (int64, error) {
	res, err := f.sess.Run("wc -c < " + Quote(path))
	if err != nil {
		return 0, err
	}
	if res.ExitCode != 0 {
		return 0, fmt.Errorf("wc -c %s: %s", path, strings.TrimSpace(res.Stderr))
	}
	return strconv.ParseInt(strings.TrimSpace(res.Stdout), 10, 64)
}

func (f *FS) Remove(path string) error {
	res, err := f.sess.Run("rm -- " + Quote(path))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("rm %s: %s", path, strings.TrimSpace(res.Stderr))
	}
	return nil
}
