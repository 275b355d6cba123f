package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/spiderweb/internal/classify"
	"github.com/five82/spiderweb/internal/session"
)

// Theme is a named dashboard palette.
type Theme struct {
	Name string

	Background string
	Surface    string
	Border     string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
	Purple  string

	// Panel border colors by category.
	CategoryColors map[classify.Category]string
}

// withCategories assigns panel colors from the palette. Credentials get the
// danger color so they stand out.
func (t Theme) withCategories() Theme {
	t.CategoryColors = map[classify.Category]string{
		classify.IPAddress:  t.Info,
		classify.Email:      t.Accent,
		classify.Domain:     t.Success,
		classify.DarkWeb:    t.Purple,
		classify.PublicKey:  t.Warning,
		classify.Credential: t.Danger,
	}
	return t
}

// Styles contains pre-built Lipgloss styles for a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	DangerText  lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style

	theme Theme
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	bar := lipgloss.NewStyle().Background(lipgloss.Color(t.Surface)).Padding(0, 1)
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		DangerText:  fg(t.Danger).Bold(true),

		Header: bar.Foreground(lipgloss.Color(t.Text)),
		Footer: bar.Foreground(lipgloss.Color(t.Muted)),
		Logo:   fg(t.Danger).Bold(true),

		theme: t,
	}
}

// CategoryColor returns the panel color for a category, or the accent color
// for categories the theme does not know.
func (t Theme) CategoryColor(c classify.Category) string {
	if color, ok := t.CategoryColors[c]; ok {
		return color
	}
	return t.Accent
}

// PhaseColor returns the badge color for a session phase.
func (t Theme) PhaseColor(p session.Phase) string {
	switch p {
	case session.Watching:
		return t.Success
	case session.Draining, session.Rendering:
		return t.Info
	case session.Failed:
		return t.Danger
	case session.Stopped:
		return t.Muted
	default:
		return t.Warning
	}
}

// PhaseBadge renders a session phase as a colored badge.
func (s Styles) PhaseBadge(p session.Phase) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(s.theme.PhaseColor(p))).
		Padding(0, 1).
		Render(p.String())
}

var themeOrder = []string{"Nightfox", "Gruvbox", "Dracula"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": Theme{
		Name:       "Nightfox",
		Background: "#131a24",
		Surface:    "#192330",
		Border:     "#39506d",
		Text:       "#cdcecf",
		Muted:      "#738091",
		Faint:      "#71839b",
		Accent:     "#719cd6",
		Success:    "#81b29a",
		Warning:    "#dbc074",
		Danger:     "#c94f6d",
		Info:       "#63cdcf",
		Purple:     "#9d79d6",
	}.withCategories(),

	// https://github.com/morhetz/gruvbox
	"Gruvbox": Theme{
		Name:       "Gruvbox",
		Background: "#1d2021",
		Surface:    "#282828",
		Border:     "#504945",
		Text:       "#ebdbb2",
		Muted:      "#a89984",
		Faint:      "#7c6f64",
		Accent:     "#83a598",
		Success:    "#b8bb26",
		Warning:    "#fabd2f",
		Danger:     "#fb4934",
		Info:       "#8ec07c",
		Purple:     "#d3869b",
	}.withCategories(),

	// https://draculatheme.com/contribute
	"Dracula": Theme{
		Name:       "Dracula",
		Background: "#21222c",
		Surface:    "#282a36",
		Border:     "#44475a",
		Text:       "#f8f8f2",
		Muted:      "#bfbfbf",
		Faint:      "#6272a4",
		Accent:     "#8be9fd",
		Success:    "#50fa7b",
		Warning:    "#f1fa8c",
		Danger:     "#ff5555",
		Info:       "#ffb86c",
		Purple:     "#bd93f9",
	}.withCategories(),
}

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns the available theme names in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}
