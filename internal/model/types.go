package model

// FileStatus classifies a working-tree change.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
)

// ChangeEntry represents one changed file as reported by git status.
// It is a transient snapshot, valid only at the instant of the query.
type ChangeEntry struct {
	Path      string
	Status    FileStatus
	Additions int
	Deletions int
	IsStaged  bool
}

// LineType identifies what kind of diff line this is.
type LineType int

const (
	LineContext LineType = iota
	LineAdd
	LineDel
)

// DiffLine is a single line of a file diff. Left is set for context and
// del lines, Right for context and add lines. A line is never both add
// and del.
type DiffLine struct {
	Left  *string
	Right *string
	Type  LineType
}

// FileDiff is the parsed diff of one file. Binary files carry no lines
// and set IsBinary instead.
type FileDiff struct {
	Lines    []DiffLine
	IsBinary bool
}

// CommitRecord represents one entry of the commit log. IsPushed is
// derived from the log position relative to a computed ahead count and
// is only valid for the snapshot in which it was computed.
type CommitRecord struct {
	Hash     string
	Subject  string
	Body     string
	Author   string
	Date     string
	IsPushed bool
	Tags     []string
}

// CommitFile represents one file touched by a commit.
type CommitFile struct {
	Path      string
	Status    FileStatus
	Additions int
	Deletions int
}

// BranchStatus describes the current branch relative to its remote
// counterparts. Recomputed on demand, never cached across calls.
type BranchStatus struct {
	Branch         string
	DefaultBranch  string
	Ahead          int
	Behind         int
	AheadOfDefault int
}

// RemoteProject maps a working-tree path to a repository on a remote
// host reached over SSH.
type RemoteProject struct {
	Path         string `yaml:"path"`
	ConnectionID string `yaml:"connection_id"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	KeyPath      string `yaml:"key_path"`
	RemotePath   string `yaml:"remote_path"`
}

// Config represents the application configuration loaded from YAML.
type Config struct {
	DebounceMs     int             `yaml:"debounce_ms"`
	PollIntervalMs int             `yaml:"poll_interval_ms"`
	RemoteProjects []RemoteProject `yaml:"remote_projects"`
}
