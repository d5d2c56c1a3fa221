package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mikanfactory/hibiki/internal/model"
	"github.com/mikanfactory/hibiki/internal/watch"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

func newLoadedModel(entries []model.ChangeEntry) Model {
	m := NewModel(nil, nil, "/repo")
	updated, _ := m.Update(StatusMsg{
		Entries: entries,
		Branch:  model.BranchStatus{Branch: "main", DefaultBranch: "main", Ahead: 1},
	})
	return updated.(Model)
}

func sampleEntries() []model.ChangeEntry {
	return []model.ChangeEntry{
		{Path: "a.go", Status: model.StatusModified, Additions: 2, Deletions: 1},
		{Path: "b.go", Status: model.StatusAdded, IsStaged: true, Additions: 10},
	}
}

func TestUpdate_StatusMsgPopulatesEntries(t *testing.T) {
	m := newLoadedModel(sampleEntries())

	if m.loading {
		t.Error("loading should be cleared")
	}
	if len(m.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.entries))
	}
	if m.branch.Branch != "main" {
		t.Errorf("got branch %q", m.branch.Branch)
	}
}

func TestUpdate_CursorStaysInBounds(t *testing.T) {
	m := newLoadedModel(sampleEntries())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor moved above 0: %d", m.cursor)
	}

	for range 5 {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = updated.(Model)
	}
	if m.cursor != 1 {
		t.Errorf("cursor moved past last entry: %d", m.cursor)
	}
}

func TestUpdate_StatusShrinkClampsCursor(t *testing.T) {
	m := newLoadedModel(sampleEntries())
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)

	updated, _ = m.Update(StatusMsg{Entries: sampleEntries()[:1]})
	m = updated.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor not clamped: %d", m.cursor)
	}
}

func TestUpdate_CommitModeToggle(t *testing.T) {
	m := newLoadedModel(sampleEntries())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = updated.(Model)
	if m.mode != modeCommit {
		t.Fatal("expected commit mode")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.mode != modeList {
		t.Fatal("esc should return to list mode")
	}
}

func TestUpdate_DiffMsgEntersDiffMode(t *testing.T) {
	m := newLoadedModel(sampleEntries())
	right := "added line"

	updated, _ := m.Update(DiffMsg{File: "a.go", Diff: model.FileDiff{
		Lines: []model.DiffLine{{Right: &right, Type: model.LineAdd}},
	}})
	m = updated.(Model)
	if m.mode != modeDiff || m.diffFile != "a.go" {
		t.Fatalf("unexpected state: mode=%v file=%q", m.mode, m.diffFile)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.mode != modeList {
		t.Fatal("esc should leave diff mode")
	}
}

func TestUpdate_WatchEventTriggersRefresh(t *testing.T) {
	m := newLoadedModel(sampleEntries())
	events := make(chan watch.Event, 1)
	updated, _ := m.Update(WatchStartedMsg{ID: "w1", Events: events})
	m = updated.(Model)

	_, cmd := m.Update(RepoChangedMsg{Event: watch.Event{Path: "/repo"}, OK: true})
	if cmd == nil {
		t.Fatal("a change event must schedule a refresh")
	}
}

func TestUpdate_WatchErrorShowsNotice(t *testing.T) {
	m := newLoadedModel(sampleEntries())

	updated, _ := m.Update(RepoChangedMsg{
		Event: watch.Event{Path: "/repo", Err: errors.New("inotify limit")},
		OK:    true,
	})
	m = updated.(Model)
	if m.notice == "" {
		t.Fatal("watcher failure must surface a notice")
	}
	if !strings.Contains(m.View(), m.notice) {
		t.Error("notice must be rendered")
	}
}

func sampleCommits() []model.CommitRecord {
	return []model.CommitRecord{
		{Hash: "aaa1111222233334444", Subject: "add parser", Author: "Alice", Tags: []string{"v1.1.0"}},
		{Hash: "bbb1111222233334444", Subject: "initial", Author: "Bob", IsPushed: true},
	}
}

func TestUpdate_LogMsgEntersLogMode(t *testing.T) {
	m := newLoadedModel(sampleEntries())

	updated, _ := m.Update(LogMsg{Records: sampleCommits(), Skip: 0, Ahead: 1})
	m = updated.(Model)
	if m.mode != modeLog {
		t.Fatal("expected log mode")
	}
	if len(m.commits) != 2 || m.logAhead != 1 {
		t.Fatalf("unexpected state: %d commits, ahead=%d", len(m.commits), m.logAhead)
	}
}

func TestUpdate_LogPaginationAppends(t *testing.T) {
	m := newLoadedModel(nil)
	updated, _ := m.Update(LogMsg{Records: sampleCommits(), Skip: 0, Ahead: 1})
	m = updated.(Model)

	updated, _ = m.Update(LogMsg{Records: []model.CommitRecord{
		{Hash: "ccc1111222233334444", Subject: "older", IsPushed: true},
	}, Skip: 2, Ahead: 1})
	m = updated.(Model)
	if len(m.commits) != 3 {
		t.Fatalf("expected 3 commits after pagination, got %d", len(m.commits))
	}
	if m.commits[2].Subject != "older" {
		t.Errorf("page must append at the end, got %q", m.commits[2].Subject)
	}
}

func TestUpdate_CommitFilesNavigationChain(t *testing.T) {
	m := newLoadedModel(nil)
	updated, _ := m.Update(LogMsg{Records: sampleCommits(), Skip: 0, Ahead: 0})
	m = updated.(Model)

	updated, _ = m.Update(CommitFilesMsg{Hash: "aaa1111222233334444", Files: []model.CommitFile{
		{Path: "parser.go", Status: model.StatusAdded, Additions: 40},
	}})
	m = updated.(Model)
	if m.mode != modeCommitFiles {
		t.Fatal("expected commit files mode")
	}

	right := "x"
	updated, _ = m.Update(DiffMsg{File: "parser.go", Diff: model.FileDiff{
		Lines: []model.DiffLine{{Right: &right, Type: model.LineAdd}},
	}})
	m = updated.(Model)
	if m.mode != modeDiff {
		t.Fatal("expected diff mode")
	}

	// esc unwinds diff -> files -> log -> list.
	for _, want := range []uiMode{modeCommitFiles, modeLog, modeList} {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		m = updated.(Model)
		if m.mode != want {
			t.Fatalf("expected mode %v, got %v", want, m.mode)
		}
	}
}

func TestUpdate_PushDoneShowsPRNotice(t *testing.T) {
	m := newLoadedModel(sampleEntries())

	updated, _ := m.Update(PushDoneMsg{PRURL: "https://github.com/x/y/pull/7"})
	m = updated.(Model)
	if !strings.Contains(m.notice, "pull/7") {
		t.Errorf("expected PR URL in notice, got %q", m.notice)
	}

	updated, _ = m.Update(PushDoneMsg{})
	m = updated.(Model)
	if m.notice != "" {
		t.Errorf("push without a PR must clear the notice, got %q", m.notice)
	}
}

func TestUpdate_RenameRejectsUnusableName(t *testing.T) {
	m := newLoadedModel(sampleEntries())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = updated.(Model)
	if m.mode != modeRename {
		t.Fatal("expected rename mode")
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.mode != modeList {
		t.Fatal("enter must leave rename mode")
	}
	// An empty requested name is rejected inside the command, before any
	// backend work happens.
	msg := cmd()
	notice, ok := msg.(NoticeMsg)
	if !ok || !strings.Contains(notice.Text, "branch name") {
		t.Fatalf("expected a validation notice, got %#v", msg)
	}
}

func TestView_LogRendersCommits(t *testing.T) {
	m := newLoadedModel(nil)
	updated, _ := m.Update(LogMsg{Records: sampleCommits(), Skip: 0, Ahead: 1})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"aaa1111", "add parser", "[v1.1.0]", "Alice"} {
		if !strings.Contains(view, want) {
			t.Errorf("log view missing %q", want)
		}
	}
}

func TestView_RendersEntriesAndBranch(t *testing.T) {
	m := newLoadedModel(sampleEntries())

	view := m.View()
	for _, want := range []string{"a.go", "b.go", "main", "↑1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_CleanWorkingTree(t *testing.T) {
	m := newLoadedModel(nil)
	if !strings.Contains(m.View(), "Working tree clean") {
		t.Error("expected clean message")
	}
}

func TestRenderDiff_Binary(t *testing.T) {
	got := renderDiff(model.FileDiff{IsBinary: true})
	if !strings.Contains(got, "Binary file") {
		t.Errorf("got %q", got)
	}
}

func TestFormatBranch(t *testing.T) {
	tests := []struct {
		name   string
		branch model.BranchStatus
		want   []string
	}{
		{"ahead and behind", model.BranchStatus{Branch: "x", DefaultBranch: "main", Ahead: 2, Behind: 3}, []string{"x", "↑2", "↓3"}},
		{"clean", model.BranchStatus{Branch: "main", DefaultBranch: "main"}, []string{"main"}},
		{"vs default", model.BranchStatus{Branch: "x", DefaultBranch: "main", AheadOfDefault: 4}, []string{"(+4 vs main)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatBranch(tt.branch)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("formatBranch(%+v) = %q, missing %q", tt.branch, got, want)
				}
			}
		})
	}
}
