package git

import "errors"

var (
	ErrNotARepo            = errors.New("path is not inside a git working tree")
	ErrPathEscape          = errors.New("file path escapes the working tree")
	ErrEmptyCommitMessage  = errors.New("commit message is empty")
	ErrInitialCommit       = errors.New("cannot undo the initial commit")
	ErrCommitAlreadyPushed = errors.New("latest commit has already been pushed")
)

// stderrOf extracts the captured stderr text from a command failure, or
// the plain error text otherwise.
func stderrOf(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Stderr
	}
	return err.Error()
}
