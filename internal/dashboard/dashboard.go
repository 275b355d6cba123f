// Package dashboard turns a findings snapshot into display panels.
package dashboard

import (
	"github.com/five82/spiderweb/internal/classify"
	"github.com/five82/spiderweb/internal/state"
)

// Placeholder panel text, shown until the first finding arrives.
const (
	PlaceholderTitle   = "SpiderWeb"
	PlaceholderMessage = "Waiting for results..."
)

// Row is one numbered value in a panel.
type Row struct {
	Index int // 1-based
	Value string
}

// Panel is one titled block of the dashboard.
type Panel struct {
	Title       string
	Category    classify.Category
	Rows        []Row
	Placeholder bool
	Message     string
}

// Render returns one panel per non-empty category in snapshot order, or a
// single placeholder panel when there is nothing to show.
func Render(snap state.Snapshot) []Panel {
	panels := make([]Panel, 0, len(snap.Groups))
	for _, g := range snap.Groups {
		if len(g.Values) == 0 {
			continue
		}
		rows := make([]Row, len(g.Values))
		for i, v := range g.Values {
			rows[i] = Row{Index: i + 1, Value: v}
		}
		panels = append(panels, Panel{
			Title:    string(g.Category),
			Category: g.Category,
			Rows:     rows,
		})
	}
	if len(panels) == 0 {
		panels = append(panels, Panel{
			Title:       PlaceholderTitle,
			Placeholder: true,
			Message:     PlaceholderMessage,
		})
	}
	return panels
}
