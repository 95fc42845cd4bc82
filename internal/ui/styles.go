package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	labelStyle   = lipgloss.NewStyle().Width(8).Foreground(lipgloss.Color("7"))
	focusStyle   = lipgloss.NewStyle().Width(8).Bold(true).Foreground(lipgloss.Color("3"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	panelTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	copiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Italic(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func statusStyle(k statusKind) lipgloss.Style {
	switch k {
	case statusOK:
		return okStyle
	case statusWarn:
		return warnStyle
	case statusError:
		return errStyle
	default:
		return hintStyle
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}

// truncateLeft keeps the tail of a path, which is the part worth seeing.
func truncateLeft(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	prefix := "..."
	if width <= 3 {
		prefix = ""
	}
	budget := width - runewidth.StringWidth(prefix)
	runes := []rune(value)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > budget {
			break
		}
		used += w
		start--
	}
	return prefix + string(runes[start:])
}
