package git

import (
	"errors"
	"strings"
)

// Stage adds one file's changes to the index.
func (r *Repo) Stage(file string) error {
	if _, err := r.resolvePath(file); err != nil {
		return err
	}
	_, err := r.runner.Run(r.root, "add", "--", file)
	return err
}

// Unstage removes one file's changes from the index. Repositories with
// no commits yet have no HEAD to reset from, so it falls back to
// removing the file from the index directly.
func (r *Repo) Unstage(file string) error {
	if _, err := r.resolvePath(file); err != nil {
		return err
	}
	if _, err := r.runner.Run(r.root, "reset", "HEAD", "--", file); err == nil {
		return nil
	}
	_, err := r.runner.Run(r.root, "rm", "--cached", "--", file)
	return err
}

// Revert discards one file's working-tree changes. An untracked file is
// deleted from disk; a tracked file is restored to its HEAD version. If
// the restore fails, or the tracking check itself fails, the file is
// left untouched.
func (r *Repo) Revert(file string) error {
	abs, err := r.resolvePath(file)
	if err != nil {
		return err
	}

	untracked, err := r.isUntracked(file)
	if err != nil {
		return err
	}
	if untracked {
		return r.fs.Remove(abs)
	}

	_, err = r.runner.Run(r.root, "checkout", "HEAD", "--", file)
	return err
}

// isUntracked reports whether git knows the file. Only git's own
// nonzero exit counts as "untracked"; a transport failure must not be
// mistaken for one, since the caller deletes untracked files.
func (r *Repo) isUntracked(file string) (bool, error) {
	out, err := r.runner.Run(r.root, "ls-files", "--error-unmatch", "--", file)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return true, nil
		}
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}
