package github

import (
	"encoding/json"
	"strings"
)

// prState is the JSON shape of `gh pr view --json state,url`.
type prState struct {
	State string `json:"state"`
	URL   string `json:"url"`
}

// IsAuthenticated reports whether gh has valid credentials. Used as a
// push precondition so the UI can warn before a push fails mid-flight.
func IsAuthenticated(runner Runner, dir string) bool {
	_, err := runner.Run(dir, "auth", "status")
	return err == nil
}

// OpenPRURL returns the URL of the current branch's open pull request,
// or empty when there is none (or gh is unavailable).
func OpenPRURL(runner Runner, dir string) string {
	out, err := runner.Run(dir, "pr", "view", "--json", "state,url")
	if err != nil {
		return ""
	}
	var pr prState
	if err := json.Unmarshal([]byte(out), &pr); err != nil {
		return ""
	}
	if strings.EqualFold(pr.State, "open") {
		return pr.URL
	}
	return ""
}
