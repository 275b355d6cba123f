package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spiderweb/internal/classify"
	"github.com/five82/spiderweb/internal/logtail"
	"github.com/five82/spiderweb/internal/session"
)

type liveFixture struct {
	path string
	m    Model
}

func newLiveFixture(t *testing.T, seed string) *liveFixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.log")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	f, err := logtail.Open(path, logtail.Options{PollInterval: 10 * time.Millisecond, Logger: quietLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	s := session.New(nil)
	require.NoError(t, s.Transition(session.Watching))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	m := New(ctx, Options{
		Source:    f,
		Session:   s,
		Logger:    quietLogger(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	t.Cleanup(m.cancel)
	return &liveFixture{path: path, m: m}
}

func (lf *liveFixture) appendLine(t *testing.T, line string) {
	t.Helper()
	f, err := os.OpenFile(lf.path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// cycle runs one wait and feeds the result back into the model.
func (lf *liveFixture) cycle(t *testing.T) {
	t.Helper()
	msg := lf.m.Init()()
	lf.m, _ = update(t, lf.m, msg)
}

func (lf *liveFixture) values(cat classify.Category) []string {
	for _, g := range lf.m.session.Store().Snapshot().Groups {
		if g.Category == cat {
			return g.Values
		}
	}
	return nil
}

func TestLive_AddressesFromNewLine(t *testing.T) {
	lf := newLiveFixture(t, "")
	lf.appendLine(t, "scan from 10.0.0.5 to 10.0.0.9\n")
	lf.cycle(t)

	assert.Equal(t, []string{"10.0.0.5", "10.0.0.9"}, lf.values(classify.IPAddress))
	require.Len(t, lf.m.panels, 1)
	assert.Len(t, lf.m.panels[0].Rows, 2)
}

func TestLive_EmailAndDomains(t *testing.T) {
	lf := newLiveFixture(t, "")
	lf.appendLine(t, "contact admin@example.com re sub.example.com\n")
	lf.cycle(t)

	assert.Equal(t, []string{"admin@example.com"}, lf.values(classify.Email))
	assert.Contains(t, lf.values(classify.Domain), "sub.example.com")
}

func TestLive_DuplicateAcrossLines(t *testing.T) {
	lf := newLiveFixture(t, "")
	lf.appendLine(t, "host 192.168.1.20 up\n")
	lf.cycle(t)
	lf.appendLine(t, "host 192.168.1.20 still up\n")
	lf.cycle(t)

	assert.Equal(t, []string{"192.168.1.20"}, lf.values(classify.IPAddress))
	assert.Equal(t, 2, lf.m.session.Stats().Lines)
}

func TestLive_IgnoresHistory(t *testing.T) {
	lf := newLiveFixture(t, "old 10.9.9.9\n")
	lf.appendLine(t, "new 10.1.1.1\n")
	lf.cycle(t)

	assert.Equal(t, []string{"10.1.1.1"}, lf.values(classify.IPAddress))
}

func TestLive_FileDeleted(t *testing.T) {
	lf := newLiveFixture(t, "")
	require.NoError(t, os.Remove(lf.path))

	msg := lf.m.Init()()
	m, cmd := update(t, lf.m, msg)
	assert.True(t, isQuit(cmd))
	assert.Equal(t, session.Failed, m.session.Phase())
	assert.ErrorIs(t, m.session.Err(), logtail.ErrRemoved)
}
