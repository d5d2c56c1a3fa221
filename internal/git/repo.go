// Package git drives a version-control working tree by orchestrating
// the git executable. The same Repo logic serves both the local and the
// remote backend: the difference is confined to the CommandRunner and
// FS implementations it is constructed with.
package git

import (
	"path/filepath"
	"strings"
)

// Repo is a handle to one working tree. It holds no repository state;
// every call re-reads from git so external mutation (a user running
// commands in a terminal) is always picked up.
type Repo struct {
	root   string
	runner CommandRunner
	fs     FS
}

// NewLocal returns a Repo that executes git as a child process in the
// given working tree.
func NewLocal(root string) *Repo {
	return New(root, OSCommandRunner{}, OSFS{})
}

// New returns a Repo over an arbitrary runner and filesystem. The
// remote backend and tests construct repos through here.
func New(root string, runner CommandRunner, fs FS) *Repo {
	return &Repo{root: root, runner: runner, fs: fs}
}

// Root returns the working tree root path.
func (r *Repo) Root() string {
	return r.root
}

// IsRepo reports whether the root is inside a git working tree. A
// missing repository is a soft condition, not an error.
func (r *Repo) IsRepo() bool {
	out, err := r.runner.Run(r.root, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// resolvePath joins file onto the working tree root and rejects paths
// that resolve outside of it.
func (r *Repo) resolvePath(file string) (string, error) {
	abs := filepath.Clean(filepath.Join(r.root, file))
	root := filepath.Clean(r.root)
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return abs, nil
}
