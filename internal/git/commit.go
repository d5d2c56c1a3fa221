package git

import "strings"

// Commit records the staged changes with the given message. An empty
// message is rejected before git is invoked.
func (r *Repo) Commit(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyCommitMessage
	}
	_, err := r.runner.Run(r.root, "commit", "-m", message)
	return err
}

// Push pushes the current branch. When the branch has no upstream the
// push is retried exactly once with an upstream-establishing push; any
// other failure (divergence, auth) propagates unmodified.
func (r *Repo) Push() error {
	_, err := r.runner.Run(r.root, "push")
	if err == nil {
		return nil
	}
	if !isMissingUpstream(err) {
		return err
	}

	branch, berr := r.CurrentBranch()
	if berr != nil {
		return err
	}
	_, err = r.runner.Run(r.root, "push", "-u", "origin", branch)
	return err
}

func isMissingUpstream(err error) bool {
	stderr := strings.ToLower(stderrOf(err))
	return strings.Contains(stderr, "no upstream branch") ||
		strings.Contains(stderr, "has no upstream")
}

// Pull pulls the current branch from its remote.
func (r *Repo) Pull() error {
	_, err := r.runner.Run(r.root, "pull")
	return err
}

// SoftResetLastCommit undoes the most recent commit while keeping its
// changes staged. Guarded: the initial commit cannot be undone, and a
// commit that has already been pushed must never be rewritten.
func (r *Repo) SoftResetLastCommit() error {
	if _, err := r.runner.Run(r.root, "rev-parse", "HEAD^"); err != nil {
		return ErrInitialCommit
	}

	status, err := r.BranchStatus()
	if err != nil {
		return err
	}
	if status.Ahead == 0 {
		return ErrCommitAlreadyPushed
	}

	_, err = r.runner.Run(r.root, "reset", "--soft", "HEAD~1")
	return err
}

// RenameBranch renames oldName to newName. Whether oldName tracks a
// remote branch must be determined before the rename, because the
// rename rewrites the local tracking configuration. A tracked branch
// additionally gets its old remote branch deleted and the new name
// pushed with tracking; a local-only branch issues no remote commands.
func (r *Repo) RenameBranch(oldName, newName string) error {
	_, upstreamErr := r.runner.Run(r.root, "rev-parse", "--abbrev-ref", oldName+"@{upstream}")
	hadUpstream := upstreamErr == nil

	if _, err := r.runner.Run(r.root, "branch", "-m", oldName, newName); err != nil {
		return err
	}

	if !hadUpstream {
		return nil
	}

	if _, err := r.runner.Run(r.root, "push", "origin", "--delete", oldName); err != nil {
		return err
	}
	_, err := r.runner.Run(r.root, "push", "-u", "origin", newName)
	return err
}
