// Package diffparse converts raw unified-diff text into line-level
// records usable by a UI. It performs no I/O.
package diffparse

import (
	"strings"

	"github.com/mikanfactory/hibiki/internal/model"
)

// metadataPrefixes are diff headers that carry no line content and are
// dropped before classification.
var metadataPrefixes = []string{
	"diff --git",
	"index ",
	"@@",
	"new file mode",
	"deleted file mode",
	"old mode",
	"new mode",
	"similarity index",
	"dissimilarity index",
	"rename from",
	"rename to",
	"copy from",
	"copy to",
	"\\ No newline",
	"Binary files",
}

// Parse turns the raw output of a unified diff (any context width) into
// an ordered sequence of diff lines. When the output contains only a
// binary-file marker the result is flagged binary rather than treated
// as an empty diff.
func Parse(raw string) model.FileDiff {
	var lines []model.DiffLine

	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		if isMetadata(line) {
			continue
		}

		switch line[0] {
		case '+':
			content := line[1:]
			lines = append(lines, model.DiffLine{Right: &content, Type: model.LineAdd})
		case '-':
			content := line[1:]
			lines = append(lines, model.DiffLine{Left: &content, Type: model.LineDel})
		case ' ':
			content := line[1:]
			lines = append(lines, model.DiffLine{Left: &content, Right: &content, Type: model.LineContext})
		default:
			// Unknown markers are treated as context rather than dropped.
			content := line
			lines = append(lines, model.DiffLine{Left: &content, Right: &content, Type: model.LineContext})
		}
	}

	if len(lines) == 0 && strings.Contains(raw, "Binary files") {
		return model.FileDiff{IsBinary: true}
	}

	return model.FileDiff{Lines: lines}
}

func isMetadata(line string) bool {
	if isFileHeader(line) {
		return true
	}
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// isFileHeader matches the ---/+++ file headers in the forms git
// actually emits. A bare prefix check would also swallow real content:
// an added line reading "++ x" arrives as "+++ x".
func isFileHeader(line string) bool {
	rest, ok := strings.CutPrefix(line, "--- ")
	if !ok {
		rest, ok = strings.CutPrefix(line, "+++ ")
	}
	if !ok {
		return false
	}
	return strings.HasPrefix(rest, "a/") ||
		strings.HasPrefix(rest, "b/") ||
		strings.HasPrefix(rest, "/dev/null") ||
		strings.HasPrefix(rest, "\"a/") ||
		strings.HasPrefix(rest, "\"b/")
}

// AllAdded presents content as an all-addition diff. Used for untracked
// files, which have no diff against HEAD.
func AllAdded(content string) model.FileDiff {
	return model.FileDiff{Lines: contentLines(content, model.LineAdd)}
}

// AllDeleted presents content as an all-deletion diff. Used when a
// file's current content is unreadable and only its last committed
// content is known.
func AllDeleted(content string) model.FileDiff {
	return model.FileDiff{Lines: contentLines(content, model.LineDel)}
}

func contentLines(content string, typ model.LineType) []model.DiffLine {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")

	raw := strings.Split(content, "\n")
	lines := make([]model.DiffLine, 0, len(raw))
	for _, l := range raw {
		l := l
		switch typ {
		case model.LineAdd:
			lines = append(lines, model.DiffLine{Right: &l, Type: model.LineAdd})
		case model.LineDel:
			lines = append(lines, model.DiffLine{Left: &l, Type: model.LineDel})
		}
	}
	return lines
}
