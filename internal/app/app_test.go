package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spiderweb/internal/launcher"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "log_file = \"" + filepath.Join(dir, "spiderweb.log") + "\"\n" + body
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWatch_MissingFileIsFatal(t *testing.T) {
	cfgPath := writeConfig(t, "")
	missing := filepath.Join(t.TempDir(), "nope.log")

	err := Watch(context.Background(), missing, Options{
		ConfigPath: cfgPath,
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		Out:        &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), missing)
}

func TestWatch_BadConfigIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval_ms = ["), 0o644))

	err := Watch(context.Background(), "/tmp/whatever.log", Options{ConfigPath: path, Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestLaunch_RejectsOptionLikeTarget(t *testing.T) {
	cfgPath := writeConfig(t, "")

	err := Launch(context.Background(), "--help", Options{ConfigPath: cfgPath, Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scan target")
}

func TestLaunch_ScannerNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfgPath := writeConfig(t, "[scanner]\npaths = [\""+filepath.Join(t.TempDir(), "sfcli.py")+"\"]\n")

	err := Launch(context.Background(), "example.com", Options{ConfigPath: cfgPath, Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.ErrorIs(t, err, launcher.ErrScannerNotFound)
}

func TestLaunch_NoTerminalKeepsScanRunning(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-scan.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo found 10.0.0.1\n"), 0o755))

	cfgPath := writeConfig(t, `
[scanner]
interpreter = "sh"
paths = ["`+script+`"]
args = []
settle_ms = 1

[[terminal]]
name = "spiderweb-no-such-terminal"
args = ["-e", "{args}"]
`)

	var out bytes.Buffer
	err := Launch(context.Background(), "example.com", Options{ConfigPath: cfgPath, Out: &out})
	require.Error(t, err)
	assert.ErrorIs(t, err, launcher.ErrNoTerminal)
	assert.Contains(t, err.Error(), "scan still running")
	assert.Contains(t, out.String(), "Scan of example.com started")

	idx := strings.Index(out.String(), "output in ")
	require.GreaterOrEqual(t, idx, 0)
	logPath := strings.TrimSpace(out.String()[idx+len("output in "):])
	t.Cleanup(func() { _ = os.Remove(logPath) })
	_, statErr := os.Stat(logPath)
	assert.NoError(t, statErr)
}

func TestLaunch_CancelledDuringSettle(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-scan.sh")
	require.NoError(t, os.WriteFile(script, []byte("true\n"), 0o755))
	cfgPath := writeConfig(t, `
[scanner]
interpreter = "sh"
paths = ["`+script+`"]
args = []
settle_ms = 60000
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := Launch(ctx, "example.com", Options{ConfigPath: cfgPath, Out: &out})
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Live view opened")
}
