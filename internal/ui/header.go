package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const logoText = "SPIDERWEB"

// renderHeader renders the title bar: logo, watched file and session phase.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	logo := styles.Logo.Render(logoText)
	badge := styles.PhaseBadge(m.session.Phase())

	path := ""
	if m.source != nil {
		path = m.source.Path()
	}
	room := m.width - lipgloss.Width(logo) - lipgloss.Width(badge) - 6
	watched := styles.MutedText.Render("watching ") + styles.Text.Render(truncateMiddle(path, max(0, room-9)))

	left := logo + "  " + watched
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(badge)-2)
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + badge)
}

// renderStatusLine summarizes progress and, after a failure, the cause.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	stats := m.session.Stats()

	if err := m.session.Err(); err != nil {
		msg := truncate(err.Error(), max(10, m.width-10))
		return styles.DangerText.Render(" ERROR ") + styles.DangerText.Render(msg)
	}

	categories := 0
	for _, p := range m.panels {
		if !p.Placeholder {
			categories++
		}
	}

	parts := []string{
		styles.AccentText.Render(fmt.Sprintf("%d", stats.Lines)) + styles.MutedText.Render(" "+pluralize(stats.Lines, "line", "lines")),
		styles.AccentText.Render(fmt.Sprintf("%d", stats.Findings)) + styles.MutedText.Render(" "+pluralize(stats.Findings, "finding", "findings")),
		styles.AccentText.Render(fmt.Sprintf("%d", categories)) + styles.MutedText.Render(" "+pluralize(categories, "category", "categories")),
	}
	if !stats.LastDrain.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+stats.LastDrain.Format("15:04:05")))
	}
	sep := styles.FaintText.Render("  •  ")
	return " " + strings.Join(parts, sep)
}

// renderFooter renders key hints and the scroll position.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	scroll := fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)
	hints := m.help
	hints.Width = max(0, m.width-lipgloss.Width(scroll)-4)
	left := hints.View(m.keys)
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(scroll)-2)
	return styles.Footer.Width(m.width).Render(left + strings.Repeat(" ", gap) + scroll)
}
