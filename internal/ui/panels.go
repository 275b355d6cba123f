package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/spiderweb/internal/dashboard"
)

// renderPanels stacks the dashboard panels to fit width.
func (m Model) renderPanels(panels []dashboard.Panel, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	blocks := make([]string, 0, len(panels))
	for _, p := range panels {
		if m.compact {
			blocks = append(blocks, m.renderCompactPanel(p, width))
		} else {
			blocks = append(blocks, m.renderPanel(p, width))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// renderPanel draws a bordered panel with a "#"/"Value" table.
func (m Model) renderPanel(p dashboard.Panel, width int) string {
	styles := m.theme.Styles()
	border := m.theme.Border
	if !p.Placeholder {
		border = m.theme.CategoryColor(p.Category)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(max(10, width-2))

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(p.Title))
	b.WriteString("\n")

	if p.Placeholder {
		b.WriteString(styles.FaintText.Render(p.Message))
		return box.Render(b.String())
	}

	idxWidth := max(1, len(strconv.Itoa(len(p.Rows))))
	valueWidth := max(4, width-idxWidth-6)

	b.WriteString(styles.MutedText.Width(idxWidth).Align(lipgloss.Right).Render("#"))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render("Value"))
	for _, row := range p.Rows {
		b.WriteString("\n")
		b.WriteString(m.renderRow(row, idxWidth, valueWidth, "", "  "))
	}
	return box.Render(b.String())
}

// renderCompactPanel draws a panel as a heading line and indented rows.
func (m Model) renderCompactPanel(p dashboard.Panel, width int) string {
	styles := m.theme.Styles()
	heading := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.CategoryColor(p.Category))).
		Bold(true)

	var b strings.Builder
	if p.Placeholder {
		b.WriteString(styles.DangerText.Render(p.Title))
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render(p.Message))
		return b.String()
	}

	b.WriteString(heading.Render(p.Title))
	b.WriteString(styles.FaintText.Render(" (" + strconv.Itoa(len(p.Rows)) + ")"))
	idxWidth := len(strconv.Itoa(len(p.Rows)))
	valueWidth := max(4, width-idxWidth-3)
	for _, row := range p.Rows {
		b.WriteString("\n")
		b.WriteString(m.renderRow(row, idxWidth, valueWidth, "  ", " "))
	}
	return b.String()
}

// renderRow draws one numbered value. Values wider than valueWidth wrap
// under themselves, leaving the index column clear.
func (m Model) renderRow(row dashboard.Row, idxWidth, valueWidth int, indent, gap string) string {
	styles := m.theme.Styles()
	idx := styles.SuccessText.Width(idxWidth).Align(lipgloss.Right).Render(strconv.Itoa(row.Index))
	value := styles.Text.Width(valueWidth).Render(row.Value)
	return lipgloss.JoinHorizontal(lipgloss.Top, indent, idx, gap, value)
}
