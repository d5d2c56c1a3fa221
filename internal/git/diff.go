package git

import (
	"strings"

	"github.com/mikanfactory/hibiki/internal/diffparse"
	"github.com/mikanfactory/hibiki/internal/model"
)

// diffContext is effectively unlimited context so the UI can render the
// whole file around each change.
const diffContext = "-U99999"

// FileDiff returns the parsed diff of one file against HEAD. Untracked
// files have no such diff, so the file's current content is presented
// as all additions; if the file is unreadable, its last committed
// content is presented as all deletions.
func (r *Repo) FileDiff(file string) (model.FileDiff, error) {
	abs, err := r.resolvePath(file)
	if err != nil {
		return model.FileDiff{}, err
	}

	out, err := r.runner.Run(r.root, "diff", diffContext, "HEAD", "--", file)
	if err != nil {
		// No commits yet: fall back to the index diff.
		out, err = r.runner.Run(r.root, "diff", diffContext, "--cached", "--", file)
		if err != nil {
			out = ""
		}
	}

	diff := diffparse.Parse(out)
	if diff.IsBinary || len(diff.Lines) > 0 {
		return diff, nil
	}

	// A plain diff against HEAD does not exist for untracked paths.
	if content, err := r.fs.ReadFile(abs); err == nil {
		if content == "" {
			return model.FileDiff{}, nil
		}
		return diffparse.AllAdded(content), nil
	}

	// Unreadable on disk: show the last committed content, if any.
	if committed, err := r.showHead(file); err == nil && committed != "" {
		return diffparse.AllDeleted(committed), nil
	}

	return model.FileDiff{}, nil
}

// showHead returns the file's content as of HEAD.
func (r *Repo) showHead(file string) (string, error) {
	return r.runner.Run(r.root, "show", "HEAD:"+toGitPath(file))
}

// toGitPath normalizes a relative file path to the forward-slash form
// git's object paths use.
func toGitPath(file string) string {
	return strings.ReplaceAll(file, "\\", "/")
}
