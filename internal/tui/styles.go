package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mikanfactory/hibiki/internal/model"
)

var (
	colorFg     = lipgloss.Color("#cdd6f4")
	colorFgDim  = lipgloss.Color("#6c7086")
	colorAccent = lipgloss.Color("#89b4fa")
	colorGreen  = lipgloss.Color("#a6e3a1")
	colorRed    = lipgloss.Color("#f38ba8")
	colorYellow = lipgloss.Color("#f9e2af")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg).
			PaddingLeft(1).
			PaddingBottom(1)

	branchStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			PaddingLeft(1)

	entryStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			PaddingLeft(3)

	entrySelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				PaddingLeft(1)

	stagedStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	unstagedStyle = lipgloss.NewStyle().Foreground(colorYellow)

	addStyle = lipgloss.NewStyle().Foreground(colorGreen)
	delStyle = lipgloss.NewStyle().Foreground(colorRed)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			PaddingLeft(1).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			PaddingLeft(1).
			PaddingTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorFgDim).
			PaddingLeft(1).
			PaddingTop(1)
)

func statusBadge(status model.FileStatus) string {
	switch status {
	case model.StatusAdded:
		return addStyle.Render("A")
	case model.StatusDeleted:
		return delStyle.Render("D")
	case model.StatusRenamed:
		return unstagedStyle.Render("R")
	default:
		return unstagedStyle.Render("M")
	}
}

func countBadge(entry model.ChangeEntry) string {
	return addStyle.Render(fmt.Sprintf("+%d", entry.Additions)) + " " +
		delStyle.Render(fmt.Sprintf("-%d", entry.Deletions))
}
