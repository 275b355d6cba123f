// Package launcher starts the external scan and opens a terminal window that
// runs the dashboard against the scan's log.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/spiderweb/internal/config"
)

var (
	// ErrScannerNotFound is returned when no sfcli.py can be located.
	ErrScannerNotFound = errors.New("spiderfoot sfcli.py not found")
	// ErrNoTerminal is returned when no configured terminal emulator starts.
	ErrNoTerminal = errors.New("no supported terminal emulator found")
)

const fallbackScanner = "sfcli.py"

// Launcher holds the scanner and terminal settings.
type Launcher struct {
	scanner   config.Scanner
	terminals []config.Terminal
	log       logrus.FieldLogger

	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	start    func(*exec.Cmd) error
}

// New returns a launcher for cfg.
func New(cfg config.Config, log logrus.FieldLogger) *Launcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Launcher{
		scanner:   cfg.Scanner,
		terminals: cfg.Terminals,
		log:       log,
		lookPath:  exec.LookPath,
		stat:      os.Stat,
		start:     (*exec.Cmd).Start,
	}
}

// FindScanner returns the first configured sfcli.py that exists, falling
// back to one on PATH.
func (l *Launcher) FindScanner() (string, error) {
	for _, p := range l.scanner.Paths {
		if info, err := l.stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	if p, err := l.lookPath(fallbackScanner); err == nil {
		return p, nil
	}
	return "", ErrScannerNotFound
}

// StartScan starts a scan of target with combined output appended to
// logPath. The scan runs in its own process group, so it keeps running after
// spiderweb exits or is interrupted.
func (l *Launcher) StartScan(target, logPath string) (*exec.Cmd, error) {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasPrefix(target, "-") {
		return nil, fmt.Errorf("invalid scan target %q", target)
	}
	script, err := l.FindScanner()
	if err != nil {
		return nil, err
	}

	out, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open scan log: %w", err)
	}
	defer out.Close()

	args := append([]string{script}, l.scanner.Args...)
	args = append(args, "-t", target)
	cmd := exec.Command(l.scanner.Interpreter, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	detach(cmd)

	if err := l.start(cmd); err != nil {
		return nil, fmt.Errorf("start scan: %w", err)
	}
	l.log.WithFields(logrus.Fields{
		"target": target,
		"script": script,
		"log":    logPath,
	}).Info("scan started")
	return cmd, nil
}

// OpenDisplay starts the first available terminal emulator running argv and
// returns its name.
func (l *Launcher) OpenDisplay(argv []string) (string, error) {
	for _, t := range l.terminals {
		path, err := l.lookPath(t.Name)
		if err != nil {
			l.log.WithField("terminal", t.Name).Debug("terminal not installed")
			continue
		}
		cmd := exec.Command(path, Expand(t.Args, argv)...)
		detach(cmd)
		if err := l.start(cmd); err != nil {
			l.log.WithError(err).WithField("terminal", t.Name).Warn("terminal failed to start")
			continue
		}
		if cmd.Process != nil {
			_ = cmd.Process.Release()
		}
		l.log.WithField("terminal", t.Name).Info("display opened")
		return t.Name, nil
	}
	return "", ErrNoTerminal
}

// Expand substitutes argv into a terminal argument template. {args} becomes
// the arguments themselves and {command} a single shell-quoted string.
func Expand(template, argv []string) []string {
	out := make([]string, 0, len(template)+len(argv))
	for _, arg := range template {
		switch arg {
		case "{args}":
			out = append(out, argv...)
		case "{command}":
			out = append(out, shellJoin(argv))
		default:
			out = append(out, arg)
		}
	}
	return out
}

func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '/' || r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
