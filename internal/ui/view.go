package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var fieldLabels = [fieldCount]string{"File", "Layer", "Speed"}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("layerspeed"))
	b.WriteString(hintStyle.Render("  insert M220 after a layer marker"))
	b.WriteString("\n\n")

	if m.picking {
		b.WriteString(hintStyle.Render("choose a G-code file (enter to select, q to cancel)"))
		b.WriteString("\n")
		b.WriteString(truncateLeft(m.picker.CurrentDirectory, m.width-2))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		return b.String()
	}

	for i := range m.inputs {
		label := labelStyle
		if field(i) == m.focus {
			label = focusStyle
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(m.inputView(field(i)))
		if field(i) == fieldLayer && m.layerHint != "" {
			b.WriteString("  ")
			b.WriteString(hintStyle.Render(m.layerHint))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(m.spinner.View())
		b.WriteString(" applying...")
	case m.status != "":
		b.WriteString(statusStyle(m.statusKind).Render(m.status))
	default:
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	var panels []string
	if m.showLog {
		panels = append(panels, m.logPanel())
	}
	if m.showInfo {
		panels = append(panels, m.infoPanel())
	}
	if len(panels) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("tab next • enter apply • ctrl+f browse • ctrl+l log • ctrl+o info • esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) inputView(f field) string {
	if f != fieldFile || f == m.focus {
		return m.inputs[f].View()
	}
	// Unfocused paths are shortened from the left so the file name stays visible.
	v := m.value(fieldFile)
	if v == "" {
		return m.inputs[f].View()
	}
	return " " + truncateLeft(v, m.width-12)
}

func (m *Model) logPanel() string {
	inner := max(20, m.width/2-4)
	lines := m.sess.Render()
	var b strings.Builder
	b.WriteString(panelTitle.Render(fmt.Sprintf("Logs (%d)", len(lines))))
	if len(lines) == 0 {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("no edits yet"))
	}
	// Newest edits stay visible when the log outgrows the panel.
	limit := max(3, m.height-14)
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	for _, line := range lines {
		b.WriteString("\n")
		b.WriteString(truncate(line, inner))
	}
	return panelStyle.Width(inner + 2).Render(b.String())
}

func (m *Model) infoPanel() string {
	var b strings.Builder
	b.WriteString(panelTitle.Render("Info"))
	for _, line := range m.info.Lines() {
		b.WriteString("\n")
		b.WriteString(line)
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("ctrl+e copy email • ctrl+g copy link"))
	if m.copied != "" {
		b.WriteString("\n")
		b.WriteString(copiedStyle.Render(m.copied))
	}
	return panelStyle.Render(b.String())
}
