package git

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mikanfactory/hibiki/internal/model"
)

// maxLineCountBytes caps how large an untracked file we are willing to
// scan just to estimate its addition count. Larger files report zero.
const maxLineCountBytes = 1 << 20

// Status runs `git status --porcelain` and returns one entry per
// changed file, with additions/deletions summed over the staged and
// unstaged diffs of each path.
func (r *Repo) Status() ([]model.ChangeEntry, error) {
	out, err := r.runner.Run(r.root, "status", "--porcelain")
	if err != nil {
		if strings.Contains(stderrOf(err), "not a git repository") {
			return nil, ErrNotARepo
		}
		return nil, err
	}

	entries := parseStatusPorcelain(out)
	if len(entries) == 0 {
		return nil, nil
	}

	// Staged and unstaged changes to the same path can coexist; the two
	// numstat runs are summed independently per path.
	stats := map[string]numstat{}
	if unstaged, err := r.runner.Run(r.root, "diff", "--numstat"); err == nil {
		addNumstat(stats, unstaged)
	}
	if staged, err := r.runner.Run(r.root, "diff", "--cached", "--numstat"); err == nil {
		addNumstat(stats, staged)
	}

	for i := range entries {
		if s, ok := stats[entries[i].Path]; ok {
			entries[i].Additions = s.additions
			entries[i].Deletions = s.deletions
			continue
		}
		// Untracked files never appear in numstat; approximate by
		// counting the file's own lines.
		if entries[i].Status == model.StatusAdded {
			entries[i].Additions = r.countFileLines(entries[i].Path)
		}
	}

	return entries, nil
}

func parseStatusPorcelain(output string) []model.ChangeEntry {
	if strings.TrimSpace(output) == "" {
		return nil
	}

	var entries []model.ChangeEntry
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		if len(line) < 4 {
			continue
		}

		index := line[0]
		work := line[1]
		path := line[3:]

		// Renames report "old -> new"; the new path identifies the entry.
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}

		entries = append(entries, model.ChangeEntry{
			Path:     unquotePath(path),
			Status:   classifyStatus(index, work),
			IsStaged: index != ' ' && index != '?',
		})
	}
	return entries
}

func classifyStatus(index, work byte) model.FileStatus {
	switch {
	case index == '?' && work == '?':
		return model.StatusAdded
	case index == 'A':
		return model.StatusAdded
	case index == 'R' || work == 'R':
		return model.StatusRenamed
	case index == 'D' || work == 'D':
		return model.StatusDeleted
	default:
		return model.StatusModified
	}
}

// unquotePath strips the C-style quoting git applies to paths with
// special characters.
func unquotePath(path string) string {
	if len(path) >= 2 && path[0] == '"' && path[len(path)-1] == '"' {
		if unquoted, err := strconv.Unquote(path); err == nil {
			return unquoted
		}
	}
	return path
}

type numstat struct {
	additions int
	deletions int
}

// addNumstat parses `git diff --numstat` output and accumulates the
// counts into stats. Binary files show "-\t-\t<path>" and contribute
// zero.
func addNumstat(stats map[string]numstat, output string) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}

		additions, errA := strconv.Atoi(parts[0])
		deletions, errD := strconv.Atoi(parts[1])
		if errA != nil || errD != nil {
			additions = 0
			deletions = 0
		}

		path := resolveRenamePath(unquotePath(parts[2]))

		s := stats[path]
		s.additions += additions
		s.deletions += deletions
		stats[path] = s
	}
}

// resolveRenamePath reduces numstat's rename notation to the new path.
// Git emits either "old.go => new.go" or, when a common prefix/suffix
// exists, the brace form "src/{old => new}/file.go".
func resolveRenamePath(path string) string {
	if open := strings.Index(path, "{"); open >= 0 {
		end := strings.Index(path[open:], "}")
		if end < 0 {
			return path
		}
		inner := path[open+1 : open+end]
		idx := strings.Index(inner, " => ")
		if idx < 0 {
			return path
		}
		resolved := path[:open] + inner[idx+4:] + path[open+end+1:]
		// A fully moved segment ("{old => }") leaves a double slash.
		return strings.ReplaceAll(resolved, "//", "/")
	}
	if idx := strings.Index(path, " => "); idx >= 0 {
		return path[idx+4:]
	}
	return path
}

func (r *Repo) countFileLines(path string) int {
	abs := filepath.Join(r.root, path)
	size, err := r.fs.FileSize(abs)
	if err != nil || size > maxLineCountBytes {
		return 0
	}
	content, err := r.fs.ReadFile(abs)
	if err != nil {
		return 0
	}
	return strings.Count(content, "\n")
}
