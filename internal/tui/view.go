package tui

import (
	"fmt"
	"strings"

	zone "github.com/lrstanley/bubblezone"

	"github.com/mikanfactory/hibiki/internal/model"
)

func (m Model) View() string {
	switch m.mode {
	case modeDiff:
		return m.viewDiff()
	case modeCommit:
		return m.viewCommit()
	case modeRename:
		return m.viewRename()
	case modeLog:
		return m.viewLog()
	case modeCommitFiles:
		return m.viewCommitFiles()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Changes"))
	b.WriteString("\n")
	b.WriteString(branchStyle.Render(formatBranch(m.branch)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(entryStyle.Render("Loading..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case len(m.entries) == 0:
		b.WriteString(entryStyle.Render("Working tree clean"))
		b.WriteString("\n")
	default:
		for i, entry := range m.entries {
			b.WriteString(zone.Mark("entry-"+entry.Path, m.renderEntry(entry, i == m.cursor)))
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑↓/jk: move  enter: diff  s: stage  u: unstage  x: revert  c: commit  p: push  P: pull  l: log  b: rename branch  r: refresh  q: quit"))
	return b.String()
}

func (m Model) renderEntry(entry model.ChangeEntry, selected bool) string {
	staged := unstagedStyle.Render("○")
	if entry.IsStaged {
		staged = stagedStyle.Render("●")
	}
	line := fmt.Sprintf("%s %s %s %s", staged, statusBadge(entry.Status), entry.Path, countBadge(entry))
	if selected {
		return entrySelectedStyle.Render("> " + line)
	}
	return entryStyle.Render(line)
}

func formatBranch(branch model.BranchStatus) string {
	if branch.Branch == "" {
		return ""
	}
	s := branch.Branch
	if branch.Ahead > 0 {
		s += fmt.Sprintf(" ↑%d", branch.Ahead)
	}
	if branch.Behind > 0 {
		s += fmt.Sprintf(" ↓%d", branch.Behind)
	}
	if branch.DefaultBranch != "" && branch.Branch != branch.DefaultBranch && branch.AheadOfDefault > 0 {
		s += fmt.Sprintf(" (+%d vs %s)", branch.AheadOfDefault, branch.DefaultBranch)
	}
	return s
}

func (m Model) viewDiff() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.diffFile))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑↓: scroll  esc: back"))
	return b.String()
}

func (m Model) viewCommit() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Commit"))
	b.WriteString("\n")
	b.WriteString(branchStyle.Render(m.msgInput.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: commit staged changes  esc: cancel"))
	return b.String()
}

func (m Model) viewRename() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Rename branch " + m.branch.Branch))
	b.WriteString("\n")
	b.WriteString(branchStyle.Render(m.msgInput.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: rename  esc: cancel"))
	return b.String()
}

func (m Model) viewLog() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	b.WriteString("\n")

	if len(m.commits) == 0 {
		b.WriteString(entryStyle.Render("No commits yet"))
		b.WriteString("\n")
	}
	for i, commit := range m.commits {
		b.WriteString(m.renderCommit(commit, i == m.logCursor))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑↓/jk: move  enter: files  n: older  u: undo last commit  esc: back"))
	return b.String()
}

func (m Model) renderCommit(commit model.CommitRecord, selected bool) string {
	marker := unstagedStyle.Render("↑")
	if commit.IsPushed {
		marker = stagedStyle.Render("✓")
	}
	line := fmt.Sprintf("%s %s %s", marker, shortHash(commit.Hash), commit.Subject)
	for _, tag := range commit.Tags {
		line += " " + branchStyle.Render("["+tag+"]")
	}
	line += " " + helpStyle.Render(commit.Author)
	if selected {
		return entrySelectedStyle.Render("> " + line)
	}
	return entryStyle.Render(line)
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func (m Model) viewCommitFiles() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Commit " + shortHash(m.commitHash)))
	b.WriteString("\n")

	if len(m.commitFiles) == 0 {
		b.WriteString(entryStyle.Render("No files"))
		b.WriteString("\n")
	}
	for i, file := range m.commitFiles {
		line := fmt.Sprintf("%s %s %s %s",
			statusBadge(file.Status),
			file.Path,
			addStyle.Render(fmt.Sprintf("+%d", file.Additions)),
			delStyle.Render(fmt.Sprintf("-%d", file.Deletions)))
		if i == m.fileCursor {
			b.WriteString(entrySelectedStyle.Render("> " + line))
		} else {
			b.WriteString(entryStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑↓/jk: move  enter: diff  esc: back"))
	return b.String()
}

// renderDiff turns parsed diff lines into the viewport's content.
func renderDiff(diff model.FileDiff) string {
	if diff.IsBinary {
		return entryStyle.Render("Binary file")
	}
	if len(diff.Lines) == 0 {
		return entryStyle.Render("No changes")
	}

	var b strings.Builder
	for _, line := range diff.Lines {
		switch line.Type {
		case model.LineAdd:
			b.WriteString(addStyle.Render("+ " + deref(line.Right)))
		case model.LineDel:
			b.WriteString(delStyle.Render("- " + deref(line.Left)))
		default:
			b.WriteString("  " + deref(line.Left))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
