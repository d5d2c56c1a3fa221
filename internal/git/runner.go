package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner abstracts git command execution for testability and so
// the same repository logic can run locally or over SSH.
type CommandRunner interface {
	Run(dir string, args ...string) (string, error)
}

// CommandError is returned when git exits nonzero. The captured stderr
// text is preserved verbatim so callers can show an actionable message.
type CommandError struct {
	Args   []string
	Stderr string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git %v failed: %s", e.Args, strings.TrimSpace(e.Stderr))
}

// OSCommandRunner executes real git commands via os/exec.
type OSCommandRunner struct{}

func (r OSCommandRunner) Run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", &CommandError{Args: args, Stderr: string(exitErr.Stderr)}
		}
		return "", fmt.Errorf("git %v failed: %w", args, err)
	}
	return string(out), nil
}

// FakeCommandRunner is a test double that returns preset output.
type FakeCommandRunner struct {
	Outputs map[string]string
	Errors  map[string]error
	Calls   [][]string
}

func (r *FakeCommandRunner) key(dir string, args ...string) string {
	return fmt.Sprintf("%s:%v", dir, args)
}

func (r *FakeCommandRunner) Run(dir string, args ...string) (string, error) {
	r.Calls = append(r.Calls, append([]string{dir}, args...))
	key := r.key(dir, args...)
	if err, ok := r.Errors[key]; ok {
		return "", err
	}
	if out, ok := r.Outputs[key]; ok {
		return out, nil
	}
	return "", fmt.Errorf("FakeCommandRunner: no output for key %q", key)
}
