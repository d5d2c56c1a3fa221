package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mikanfactory/hibiki/internal/backend"
	"github.com/mikanfactory/hibiki/internal/branchname"
	"github.com/mikanfactory/hibiki/internal/git"
	"github.com/mikanfactory/hibiki/internal/github"
	"github.com/mikanfactory/hibiki/internal/model"
	"github.com/mikanfactory/hibiki/internal/watch"
)

// logPageSize is how many commits one history page loads.
const logPageSize = 30

// StatusMsg is sent when a status snapshot has been fetched.
type StatusMsg struct {
	Entries []model.ChangeEntry
	Branch  model.BranchStatus
}

// StatusErrMsg is sent when status fetching fails.
type StatusErrMsg struct {
	Err error
}

// DiffMsg is sent when a file diff has been fetched.
type DiffMsg struct {
	File string
	Diff model.FileDiff
}

// LogMsg delivers one page of commit history. Ahead is the push
// boundary the page was computed with; later pages reuse it so the
// boundary stays fixed during pagination.
type LogMsg struct {
	Records []model.CommitRecord
	Skip    int
	Ahead   int
}

// CommitFilesMsg delivers the file list of one commit.
type CommitFilesMsg struct {
	Hash  string
	Files []model.CommitFile
}

// PushDoneMsg is sent after a successful push. PRURL is the open pull
// request for the branch, when one exists.
type PushDoneMsg struct {
	PRURL string
}

// ActionDoneMsg is sent when a mutating action (stage, commit, push)
// has completed; it triggers a status refresh.
type ActionDoneMsg struct{}

// ActionErrMsg is sent when a mutating action fails.
type ActionErrMsg struct {
	Err error
}

// NoticeMsg carries a transient warning line (e.g. gh precondition).
type NoticeMsg struct {
	Text string
}

// WatchStartedMsg delivers the subscription handle.
type WatchStartedMsg struct {
	ID     string
	Events <-chan watch.Event
}

// RepoChangedMsg is sent when the watch layer reports a mutation.
type RepoChangedMsg struct {
	Event watch.Event
	OK    bool
}

type uiMode int

const (
	modeList uiMode = iota
	modeDiff
	modeCommit
	modeLog
	modeCommitFiles
	modeRename
)

// Model is the BubbleTea model for the change viewer.
type Model struct {
	manager  *backend.Manager
	ghRunner github.Runner
	path     string

	mode    uiMode
	entries []model.ChangeEntry
	branch  model.BranchStatus
	cursor  int
	loading bool
	err     error
	notice  string

	diffFile   string
	diffReturn uiMode
	viewport   viewport.Model
	msgInput   textinput.Model

	commits     []model.CommitRecord
	logCursor   int
	logAhead    int
	commitHash  string
	commitFiles []model.CommitFile
	fileCursor  int

	watchID string
	events  <-chan watch.Event

	width  int
	height int
}

// NewModel creates the TUI model for one working tree.
func NewModel(manager *backend.Manager, ghRunner github.Runner, path string) Model {
	ti := textinput.New()
	ti.Placeholder = "commit message"
	ti.CharLimit = 200
	ti.Width = 60

	return Model{
		manager:  manager,
		ghRunner: ghRunner,
		path:     path,
		loading:  true,
		logAhead: -1,
		msgInput: ti,
		viewport: viewport.New(80, 20),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchStatusCmd(), m.startWatchCmd())
}

func (m Model) fetchStatusCmd() tea.Cmd {
	manager, path := m.manager, m.path
	return func() tea.Msg {
		repo, err := manager.Repo(path)
		if err != nil {
			return StatusErrMsg{Err: err}
		}
		entries, err := repo.Status()
		if err != nil {
			return StatusErrMsg{Err: err}
		}
		branch, err := repo.BranchStatus()
		if err != nil {
			return StatusErrMsg{Err: err}
		}
		return StatusMsg{Entries: entries, Branch: branch}
	}
}

func (m Model) startWatchCmd() tea.Cmd {
	manager, path := m.manager, m.path
	return func() tea.Msg {
		id, events, err := manager.Watch(path)
		if err != nil {
			return StatusErrMsg{Err: err}
		}
		return WatchStartedMsg{ID: id, Events: events}
	}
}

func waitEventCmd(events <-chan watch.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return RepoChangedMsg{Event: ev, OK: ok}
	}
}

func (m Model) fetchDiffCmd(file string) tea.Cmd {
	manager, path := m.manager, m.path
	return func() tea.Msg {
		repo, err := manager.Repo(path)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		diff, err := repo.FileDiff(file)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return DiffMsg{File: file, Diff: diff}
	}
}

func (m Model) runActionCmd(action func() error) tea.Cmd {
	return func() tea.Msg {
		if err := action(); err != nil {
			return ActionErrMsg{Err: err}
		}
		return ActionDoneMsg{}
	}
}

func (m Model) pushCmd() tea.Cmd {
	manager, gh, path := m.manager, m.ghRunner, m.path
	return func() tea.Msg {
		if gh != nil && !github.IsAuthenticated(gh, path) {
			return NoticeMsg{Text: "gh is not authenticated; pushing anyway may fail"}
		}
		repo, err := manager.Repo(path)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		if err := repo.Push(); err != nil {
			return ActionErrMsg{Err: err}
		}
		var prURL string
		if gh != nil {
			prURL = github.OpenPRURL(gh, path)
		}
		return PushDoneMsg{PRURL: prURL}
	}
}

func (m Model) fetchLogCmd(skip, ahead int) tea.Cmd {
	manager, path := m.manager, m.path
	return func() tea.Msg {
		repo, err := manager.Repo(path)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		if ahead < 0 {
			ahead = repo.AheadCount()
		}
		records, err := repo.Log(git.LogOptions{Skip: skip, Limit: logPageSize, Ahead: ahead})
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return LogMsg{Records: records, Skip: skip, Ahead: ahead}
	}
}

func (m Model) fetchCommitFilesCmd(hash string) tea.Cmd {
	manager, path := m.manager, m.path
	return func() tea.Msg {
		repo, err := manager.Repo(path)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		files, err := repo.CommitFiles(hash)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return CommitFilesMsg{Hash: hash, Files: files}
	}
}

func (m Model) fetchCommitDiffCmd(hash, file string) tea.Cmd {
	manager, path := m.manager, m.path
	return func() tea.Msg {
		repo, err := manager.Repo(path)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		diff, err := repo.CommitFileDiff(hash, file)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		return DiffMsg{File: file, Diff: diff}
	}
}

func (m Model) renameBranchCmd(requested string) tea.Cmd {
	manager, path, current := m.manager, m.path, m.branch.Branch
	return func() tea.Msg {
		name := branchname.Sanitize(requested)
		if name == "" {
			return NoticeMsg{Text: "branch name has no usable characters"}
		}
		repo, err := manager.Repo(path)
		if err != nil {
			return ActionErrMsg{Err: err}
		}
		if err := repo.RenameBranch(current, name); err != nil {
			return ActionErrMsg{Err: err}
		}
		return ActionDoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 6
		return m, nil

	case StatusMsg:
		m.entries = msg.Entries
		m.branch = msg.Branch
		m.loading = false
		m.err = nil
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}
		return m, nil

	case StatusErrMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case WatchStartedMsg:
		m.watchID = msg.ID
		m.events = msg.Events
		return m, waitEventCmd(msg.Events)

	case RepoChangedMsg:
		if !msg.OK {
			// Subscription gone (watcher error already reported).
			m.events = nil
			return m, nil
		}
		if msg.Event.Err != nil {
			m.notice = "change watcher failed; refresh manually with r"
			m.events = nil
			return m, nil
		}
		return m, tea.Batch(m.fetchStatusCmd(), waitEventCmd(m.events))

	case DiffMsg:
		m.diffReturn = m.mode
		if m.mode == modeDiff {
			m.diffReturn = modeList
		}
		m.mode = modeDiff
		m.diffFile = msg.File
		m.viewport.SetContent(renderDiff(msg.Diff))
		m.viewport.GotoTop()
		return m, nil

	case LogMsg:
		if msg.Skip == 0 {
			m.commits = msg.Records
			m.logCursor = 0
		} else {
			m.commits = append(m.commits, msg.Records...)
		}
		m.logAhead = msg.Ahead
		m.mode = modeLog
		return m, nil

	case CommitFilesMsg:
		m.commitHash = msg.Hash
		m.commitFiles = msg.Files
		m.fileCursor = 0
		m.mode = modeCommitFiles
		return m, nil

	case PushDoneMsg:
		m.notice = ""
		if msg.PRURL != "" {
			m.notice = "open pull request: " + msg.PRURL
		}
		return m, m.fetchStatusCmd()

	case ActionDoneMsg:
		m.notice = ""
		cmds := []tea.Cmd{m.fetchStatusCmd()}
		if m.mode == modeLog {
			m.logAhead = -1
			cmds = append(cmds, m.fetchLogCmd(0, -1))
		}
		return m, tea.Batch(cmds...)

	case ActionErrMsg:
		m.err = msg.Err
		return m, nil

	case NoticeMsg:
		m.notice = msg.Text
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeDiff {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for i, entry := range m.entries {
		if zone.Get("entry-" + entry.Path).InBounds(msg) {
			m.cursor = i
			return m, m.fetchDiffCmd(entry.Path)
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeCommit {
		switch msg.String() {
		case "enter":
			message := m.msgInput.Value()
			m.mode = modeList
			m.msgInput.Reset()
			manager, path := m.manager, m.path
			return m, m.runActionCmd(func() error {
				repo, err := manager.Repo(path)
				if err != nil {
					return err
				}
				return repo.Commit(message)
			})
		case "esc":
			m.mode = modeList
			m.msgInput.Reset()
			return m, nil
		}
		var cmd tea.Cmd
		m.msgInput, cmd = m.msgInput.Update(msg)
		return m, cmd
	}

	if m.mode == modeRename {
		switch msg.String() {
		case "enter":
			requested := m.msgInput.Value()
			m.mode = modeList
			m.msgInput.Reset()
			return m, m.renameBranchCmd(requested)
		case "esc":
			m.mode = modeList
			m.msgInput.Reset()
			return m, nil
		}
		var cmd tea.Cmd
		m.msgInput, cmd = m.msgInput.Update(msg)
		return m, cmd
	}

	if m.mode == modeDiff {
		switch msg.String() {
		case "q", "esc":
			m.mode = m.diffReturn
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.mode == modeLog {
		return m.handleLogKey(msg)
	}

	if m.mode == modeCommitFiles {
		return m.handleCommitFilesKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		if m.watchID != "" {
			m.manager.Unwatch(m.path, m.watchID)
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if entry, ok := m.selected(); ok {
			return m, m.fetchDiffCmd(entry.Path)
		}
		return m, nil

	case "s":
		if entry, ok := m.selected(); ok {
			return m, m.fileActionCmd(entry.Path, (*git.Repo).Stage)
		}
		return m, nil

	case "u":
		if entry, ok := m.selected(); ok {
			return m, m.fileActionCmd(entry.Path, (*git.Repo).Unstage)
		}
		return m, nil

	case "x":
		if entry, ok := m.selected(); ok {
			return m, m.fileActionCmd(entry.Path, (*git.Repo).Revert)
		}
		return m, nil

	case "c":
		m.mode = modeCommit
		m.msgInput.Placeholder = "commit message"
		m.msgInput.Focus()
		return m, textinput.Blink

	case "b":
		if m.branch.Branch == "" {
			return m, nil
		}
		m.mode = modeRename
		m.msgInput.Placeholder = "new branch name"
		m.msgInput.Focus()
		return m, textinput.Blink

	case "l":
		return m, m.fetchLogCmd(0, -1)

	case "p":
		return m, m.pushCmd()

	case "P":
		manager, path := m.manager, m.path
		return m, m.runActionCmd(func() error {
			repo, err := manager.Repo(path)
			if err != nil {
				return err
			}
			return repo.Pull()
		})

	case "r":
		m.loading = true
		return m, m.fetchStatusCmd()
	}

	return m, nil
}

func (m Model) selected() (model.ChangeEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return model.ChangeEntry{}, false
	}
	return m.entries[m.cursor], true
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.mode = modeList
		return m, nil

	case "up", "k":
		if m.logCursor > 0 {
			m.logCursor--
		}
		return m, nil

	case "down", "j":
		if m.logCursor < len(m.commits)-1 {
			m.logCursor++
		}
		return m, nil

	case "enter":
		if m.logCursor < len(m.commits) {
			return m, m.fetchCommitFilesCmd(m.commits[m.logCursor].Hash)
		}
		return m, nil

	case "n":
		return m, m.fetchLogCmd(len(m.commits), m.logAhead)

	case "u":
		manager, path := m.manager, m.path
		return m, m.runActionCmd(func() error {
			repo, err := manager.Repo(path)
			if err != nil {
				return err
			}
			return repo.SoftResetLastCommit()
		})
	}
	return m, nil
}

func (m Model) handleCommitFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.mode = modeLog
		return m, nil

	case "up", "k":
		if m.fileCursor > 0 {
			m.fileCursor--
		}
		return m, nil

	case "down", "j":
		if m.fileCursor < len(m.commitFiles)-1 {
			m.fileCursor++
		}
		return m, nil

	case "enter":
		if m.fileCursor < len(m.commitFiles) {
			return m, m.fetchCommitDiffCmd(m.commitHash, m.commitFiles[m.fileCursor].Path)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) fileActionCmd(file string, action func(*git.Repo, string) error) tea.Cmd {
	manager, path := m.manager, m.path
	return m.runActionCmd(func() error {
		repo, err := manager.Repo(path)
		if err != nil {
			return err
		}
		return action(repo, file)
	})
}
