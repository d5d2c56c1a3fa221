package git

import (
	"fmt"
	"strings"

	"github.com/mikanfactory/hibiki/internal/diffparse"
	"github.com/mikanfactory/hibiki/internal/model"
)

// emptyTreeHash is git's well-known empty tree object. Root commits
// have no parent, so their changes are diffed against it.
const emptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

const (
	logFieldSep  = "\x1f"
	logRecordSep = "\x1e"
)

// LogOptions selects a page of history. Ahead, when non-negative, is a
// previously computed ahead count to reuse: recomputing it per page
// would let the push/pull boundary shift mid-pagination when new
// commits land concurrently. Pass -1 to compute it fresh.
type LogOptions struct {
	Skip  int
	Limit int
	Ahead int
}

// Log returns a page of commit history. A commit at position
// skip+index is considered pushed once that position is at or past the
// ahead count.
func (r *Repo) Log(opts LogOptions) ([]model.CommitRecord, error) {
	ahead := opts.Ahead
	if ahead < 0 {
		ahead = r.AheadCount()
	}

	out, err := r.runner.Run(r.root, "log",
		fmt.Sprintf("--skip=%d", opts.Skip),
		fmt.Sprintf("--max-count=%d", opts.Limit),
		"--date=iso",
		"--format=%H"+logFieldSep+"%s"+logFieldSep+"%b"+logFieldSep+"%an"+logFieldSep+"%ad"+logFieldSep+"%D"+logRecordSep)
	if err != nil {
		if strings.Contains(stderrOf(err), "does not have any commits") {
			return nil, nil
		}
		return nil, err
	}

	records := parseLog(out)
	for i := range records {
		records[i].IsPushed = opts.Skip+i >= ahead
	}
	return records, nil
}

// LatestCommit returns the most recent commit, or nil when the
// repository has no commits yet.
func (r *Repo) LatestCommit() (*model.CommitRecord, error) {
	records, err := r.Log(LogOptions{Limit: 1, Ahead: -1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func parseLog(output string) []model.CommitRecord {
	var records []model.CommitRecord
	for _, raw := range strings.Split(output, logRecordSep) {
		raw = strings.TrimLeft(raw, "\n")
		fields := strings.Split(raw, logFieldSep)
		if len(fields) != 6 || fields[0] == "" {
			continue
		}
		records = append(records, model.CommitRecord{
			Hash:    fields[0],
			Subject: fields[1],
			Body:    strings.TrimRight(fields[2], "\n"),
			Author:  fields[3],
			Date:    fields[4],
			Tags:    parseTags(fields[5]),
		})
	}
	return records
}

// parseTags extracts tag names from a %D ref-name list like
// "HEAD -> main, tag: v1.2.0, origin/main".
func parseTags(refNames string) []string {
	var tags []string
	for _, ref := range strings.Split(refNames, ",") {
		ref = strings.TrimSpace(ref)
		if name, ok := strings.CutPrefix(ref, "tag: "); ok {
			tags = append(tags, name)
		}
	}
	return tags
}

// diffBase returns the reference a commit's changes should be diffed
// against: the first parent for ordinary and merge commits (so a merge
// shows only its own changes, not every merged-in commit's), and the
// empty tree for root commits.
func (r *Repo) diffBase(hash string) (string, error) {
	out, err := r.runner.Run(r.root, "rev-list", "--parents", "-n", "1", hash)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) < 2 {
		return emptyTreeHash, nil
	}
	return fields[1], nil
}

// CommitFiles lists the files one commit touched, with per-file
// addition/deletion counts.
func (r *Repo) CommitFiles(hash string) ([]model.CommitFile, error) {
	base, err := r.diffBase(hash)
	if err != nil {
		return nil, err
	}

	nameStatus, err := r.runner.Run(r.root, "diff", "--name-status", base, hash)
	if err != nil {
		return nil, err
	}

	stats := map[string]numstat{}
	if out, err := r.runner.Run(r.root, "diff", "--numstat", base, hash); err == nil {
		addNumstat(stats, out)
	}

	var files []model.CommitFile
	for _, line := range strings.Split(strings.TrimRight(nameStatus, "\n"), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		status := parts[0]
		path := unquotePath(parts[len(parts)-1])

		file := model.CommitFile{Path: path, Status: classifyNameStatus(status)}
		if s, ok := stats[path]; ok {
			file.Additions = s.additions
			file.Deletions = s.deletions
		}
		files = append(files, file)
	}
	return files, nil
}

func classifyNameStatus(status string) model.FileStatus {
	switch {
	case strings.HasPrefix(status, "A"):
		return model.StatusAdded
	case strings.HasPrefix(status, "D"):
		return model.StatusDeleted
	case strings.HasPrefix(status, "R"):
		return model.StatusRenamed
	default:
		return model.StatusModified
	}
}

// CommitFileDiff returns one file's diff within a commit, against the
// commit's first parent (or the empty tree for a root commit).
func (r *Repo) CommitFileDiff(hash, file string) (model.FileDiff, error) {
	if _, err := r.resolvePath(file); err != nil {
		return model.FileDiff{}, err
	}
	base, err := r.diffBase(hash)
	if err != nil {
		return model.FileDiff{}, err
	}
	out, err := r.runner.Run(r.root, "diff", diffContext, base, hash, "--", file)
	if err != nil {
		return model.FileDiff{}, err
	}
	return diffparse.Parse(out), nil
}
