package ui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spiderweb/internal/dashboard"
	"github.com/five82/spiderweb/internal/logtail"
	"github.com/five82/spiderweb/internal/prefs"
	"github.com/five82/spiderweb/internal/session"
)

type fakeSource struct {
	batches [][]string
	err     error
	maxSeen []int
}

func (f *fakeSource) Wait(ctx context.Context, limit int) ([]string, error) {
	f.maxSeen = append(f.maxSeen, limit)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.batches) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	next := f.batches[0]
	f.batches = f.batches[1:]
	return next, nil
}

func (f *fakeSource) Path() string { return "/tmp/scan.log" }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestModel(t *testing.T, src Source) Model {
	t.Helper()
	s := session.New(nil)
	require.NoError(t, s.Transition(session.Watching))
	m := New(context.Background(), Options{
		Source:        src,
		Session:       s,
		Logger:        quietLogger(),
		MaxDrainLines: 100,
		PrefsPath:     filepath.Join(t.TempDir(), "prefs.toml"),
	})
	t.Cleanup(m.cancel)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_PlaceholderBeforeFindings(t *testing.T) {
	m := newTestModel(t, &fakeSource{})

	view := m.View()
	assert.Contains(t, view, dashboard.PlaceholderTitle)
	assert.Contains(t, view, dashboard.PlaceholderMessage)
	assert.Contains(t, view, "/tmp/scan.log")
	assert.Contains(t, view, "watching")
}

func TestModel_DrainCycle(t *testing.T) {
	m := newTestModel(t, &fakeSource{})

	m, cmd := update(t, m, linesMsg{"scan from 10.0.0.9 to 10.0.0.5", "again 10.0.0.5"})
	require.NotNil(t, cmd)
	assert.Equal(t, session.Watching, m.session.Phase())

	require.Len(t, m.panels, 1)
	assert.Equal(t, []dashboard.Row{{Index: 1, Value: "10.0.0.5"}, {Index: 2, Value: "10.0.0.9"}}, m.panels[0].Rows)

	view := m.View()
	assert.Contains(t, view, "IP Addresses")
	assert.Contains(t, view, "10.0.0.9")
	assert.NotContains(t, view, dashboard.PlaceholderMessage)
	assert.Contains(t, view, "2 lines")
}

func TestModel_ResumeIssuesWait(t *testing.T) {
	src := &fakeSource{batches: [][]string{{"a@b.io"}}}
	m := newTestModel(t, src)

	_, cmd := update(t, m, resumeMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, linesMsg{"a@b.io"}, cmd())
	assert.Equal(t, []int{100}, src.maxSeen)
}

func TestModel_FollowerFailure(t *testing.T) {
	m := newTestModel(t, &fakeSource{})
	cause := errors.New("log file removed: /tmp/scan.log")

	m, cmd := update(t, m, followErrMsg{err: cause})
	assert.True(t, isQuit(cmd))
	assert.Equal(t, session.Failed, m.session.Phase())
	assert.Equal(t, cause, m.session.Err())
	assert.Error(t, m.ctx.Err())
	assert.Contains(t, m.View(), "ERROR")
}

func TestModel_Quit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		m := newTestModel(t, &fakeSource{})
		m, cmd := update(t, m, msg)
		assert.True(t, isQuit(cmd))
		assert.Equal(t, session.Stopped, m.session.Phase())
	}
}

func TestModel_ThemeAndCompactPersist(t *testing.T) {
	m := newTestModel(t, &fakeSource{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("T")})
	assert.Equal(t, "Gruvbox", m.theme.Name)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.True(t, m.compact)

	p, err := prefs.Load(m.prefsPath)
	require.NoError(t, err)
	assert.Equal(t, prefs.Prefs{Theme: "Gruvbox", Compact: true}, p)

	m, _ = update(t, m, linesMsg{"mail admin@example.com"})
	assert.Contains(t, m.View(), "Emails (1)")
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, &fakeSource{})

	assert.Contains(t, m.View(), "quit")
	assert.NotContains(t, m.View(), "half page down")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	assert.Contains(t, m.View(), "half page down")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestModel_WindowResize(t *testing.T) {
	m := newTestModel(t, &fakeSource{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 40-chromeHeight, m.viewport.Height)
}

func TestWaitCmd(t *testing.T) {
	m := newTestModel(t, &fakeSource{batches: [][]string{{"one", "two"}}})
	assert.Equal(t, linesMsg{"one", "two"}, m.waitCmd()())

	m = newTestModel(t, &fakeSource{err: logtail.ErrRemoved})
	msg, ok := m.waitCmd()().(followErrMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.err, logtail.ErrRemoved)

	m = newTestModel(t, &fakeSource{err: logtail.ErrRemoved})
	m.cancel()
	assert.Nil(t, m.waitCmd()())

	m = New(context.Background(), Options{Logger: quietLogger()})
	assert.Nil(t, m.Init())
}
