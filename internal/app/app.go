package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/spiderweb/internal/classify"
	"github.com/five82/spiderweb/internal/config"
	"github.com/five82/spiderweb/internal/launcher"
	"github.com/five82/spiderweb/internal/logging"
	"github.com/five82/spiderweb/internal/logtail"
	"github.com/five82/spiderweb/internal/prefs"
	"github.com/five82/spiderweb/internal/session"
	"github.com/five82/spiderweb/internal/ui"
)

// Options configure a spiderweb run.
type Options struct {
	ConfigPath   string
	PrefsPath    string        // empty uses ~/.config/spiderweb/prefs.toml
	PollInterval time.Duration // zero uses the configured interval
	Out          io.Writer     // user-facing messages; nil means stderr
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stderr
	}
	return o.Out
}

// setup loads config and the logger shared by both modes.
func setup(opts Options) (config.Config, *logrus.Entry, io.Closer, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if opts.PollInterval > 0 {
		cfg.PollInterval = opts.PollInterval
	}

	log, closer, err := logging.Setup(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(opts.out(), "spiderweb: logging disabled: %v\n", err)
	}
	return cfg, log, closer, nil
}

// Watch runs the live dashboard on logPath until the user quits, ctx is
// cancelled or the log becomes unreadable.
func Watch(ctx context.Context, logPath string, opts Options) error {
	cfg, log, closer, err := setup(opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.WithError(err).Warn("load prefs failed, using defaults")
	}
	theme := userPrefs.Theme
	if cfg.Theme != "" {
		theme = cfg.Theme
	}

	follower, err := logtail.Open(logPath, logtail.Options{
		PollInterval: cfg.PollInterval,
		Notify:       cfg.Notify,
		Logger:       log,
	})
	if err != nil {
		log.WithError(err).Error("watch start failed")
		return fmt.Errorf("watch %s: %w", logPath, err)
	}
	defer follower.Close()

	sess := session.New(classify.Default())
	if err := sess.Transition(session.Watching); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"path":   follower.Path(),
		"offset": follower.Offset(),
	}).Info("watch started")

	err = ui.Run(ctx, ui.Options{
		Source:        follower,
		Session:       sess,
		Logger:        log,
		FrameInterval: cfg.FrameInterval(),
		MaxDrainLines: cfg.MaxDrainLines,
		ThemeName:     theme,
		Compact:       userPrefs.Compact,
		PrefsPath:     opts.PrefsPath,
	})

	stats := sess.Stats()
	entry := log.WithFields(logrus.Fields{
		"phase":    sess.Phase().String(),
		"lines":    stats.Lines,
		"findings": stats.Findings,
	})
	if err != nil {
		entry.WithError(err).Error("watch failed")
		return fmt.Errorf("watch %s: %w", logPath, err)
	}
	entry.Info("watch ended")
	return nil
}

// Launch starts a scan of target logging to a fresh temp file and opens a
// terminal window watching it.
func Launch(ctx context.Context, target string, opts Options) error {
	cfg, log, closer, err := setup(opts)
	if err != nil {
		return err
	}
	defer closer.Close()
	out := opts.out()

	tmp, err := os.CreateTemp("", "spiderweb-*.log")
	if err != nil {
		return fmt.Errorf("create scan log: %w", err)
	}
	logPath := tmp.Name()
	_ = tmp.Close()

	l := launcher.New(cfg, log)
	cmd, err := l.StartScan(target, logPath)
	if err != nil {
		_ = os.Remove(logPath)
		return fmt.Errorf("launch scan: %w", err)
	}
	defer func() { _ = cmd.Process.Release() }()
	fmt.Fprintf(out, "Scan of %s started (pid %d), output in %s\n", target, cmd.Process.Pid, logPath)

	// Give the scanner a moment to create output before the watcher opens.
	timer := time.NewTimer(cfg.Scanner.Settle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil
	case <-timer.C:
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate spiderweb binary: %w", err)
	}
	argv := []string{exe, "--watch", logPath}
	if opts.ConfigPath != "" {
		argv = append(argv, "--config", opts.ConfigPath)
	}

	name, err := l.OpenDisplay(argv)
	if err != nil {
		log.WithError(err).Error("open live view failed")
		return fmt.Errorf("open live view: %w (scan still running; watch it with: %s --watch %s)", err, exe, logPath)
	}
	fmt.Fprintf(out, "Live view opened in %s\n", name)
	return nil
}
