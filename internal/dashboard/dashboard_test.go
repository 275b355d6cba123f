package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spiderweb/internal/classify"
	"github.com/five82/spiderweb/internal/state"
)

func TestRender_EmptyShowsPlaceholder(t *testing.T) {
	for _, snap := range []state.Snapshot{
		{},
		{Groups: []state.Group{{Category: classify.Email}}},
	} {
		panels := Render(snap)
		require.Len(t, panels, 1)
		assert.True(t, panels[0].Placeholder)
		assert.Equal(t, PlaceholderTitle, panels[0].Title)
		assert.Equal(t, PlaceholderMessage, panels[0].Message)
		assert.Empty(t, panels[0].Rows)
	}
}

func TestRender_NumbersSortedValues(t *testing.T) {
	store := state.NewStore(classify.Default().Categories())
	c := classify.Default()
	store.RecordAll(c.Classify("scan from 10.0.0.9 to 10.0.0.5"))
	store.RecordAll(c.Classify("contact admin@example.com re sub.example.com"))

	panels := Render(store.Snapshot())
	require.Len(t, panels, 3)

	assert.Equal(t, "IP Addresses", panels[0].Title)
	assert.Equal(t, []Row{{1, "10.0.0.5"}, {2, "10.0.0.9"}}, panels[0].Rows)
	assert.Equal(t, classify.Email, panels[1].Category)
	assert.Equal(t, []Row{{1, "admin@example.com"}}, panels[1].Rows)
	assert.Equal(t, classify.Domain, panels[2].Category)
	assert.Equal(t, []Row{{1, "example.com"}, {2, "sub.example.com"}}, panels[2].Rows)
}

func TestRender_Deterministic(t *testing.T) {
	store := state.NewStore(classify.Default().Categories())
	for _, v := range []string{"c.io", "a.io", "b.io"} {
		store.Record(classify.Domain, v)
	}
	snap := store.Snapshot()
	assert.Equal(t, Render(snap), Render(snap))
	assert.Equal(t, Render(snap), Render(store.Snapshot()))
}
