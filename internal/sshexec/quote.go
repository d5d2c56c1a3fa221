package sshexec

import "strings"

// Quote escapes one argument for a POSIX shell. Remote commands travel
// as a single shell string, so multi-line payloads (commit messages, PR
// bodies) and embedded quotes must survive as one argument.
func Quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if isShellSafe(arg) {
		return arg
	}
	// Single quotes pass everything literally; an embedded single quote
	// is closed out, escaped, and reopened: ' -> '\''
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// QuoteAll quotes each argument and joins them with spaces.
func QuoteAll(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return strings.Join(quoted, " ")
}

func isShellSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == '/' || r == ':' ||
			r == '=' || r == ',' || r == '@' || r == '+' || r == '%':
		default:
			return false
		}
	}
	return true
}
