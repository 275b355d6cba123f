package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Scanner describes how to start the external scan.
type Scanner struct {
	Interpreter string
	Paths       []string
	Args        []string
	Settle      time.Duration
}

// Terminal is one terminal emulator candidate. Args may contain the
// placeholders {args} (the watch command as separate arguments) and
// {command} (the watch command as one shell-quoted string).
type Terminal struct {
	Name string   `toml:"name"`
	Args []string `toml:"args"`
}

// Config captures the settings spiderweb reads at startup.
type Config struct {
	PollInterval     time.Duration
	RefreshPerSecond int
	MaxDrainLines    int
	Notify           bool
	LogFile          string
	LogLevel         string
	Theme            string
	Scanner          Scanner
	Terminals        []Terminal
}

const (
	defaultConfigPath       = "~/.config/spiderweb/config.toml"
	defaultLogFile          = "~/.local/state/spiderweb/spiderweb.log"
	defaultLogLevel         = "info"
	defaultPollInterval     = 500 * time.Millisecond
	defaultRefreshPerSecond = 3
	defaultMaxDrainLines    = 5000
	defaultInterpreter      = "python3"
	defaultSettle           = 2 * time.Second
)

var (
	defaultScannerPaths = []string{"./sfcli.py", "/usr/local/bin/sfcli.py", "/opt/spiderfoot/sfcli.py"}
	defaultScannerArgs  = []string{"-s", "all"}
)

// DefaultTerminals returns the terminal emulators tried when none are configured.
func DefaultTerminals() []Terminal {
	return []Terminal{
		{Name: "gnome-terminal", Args: []string{"--", "{args}"}},
		{Name: "xfce4-terminal", Args: []string{"--command", "{command}"}},
		{Name: "xterm", Args: []string{"-e", "{command}"}},
		{Name: "kitty", Args: []string{"{args}"}},
		{Name: "alacritty", Args: []string{"-e", "{args}"}},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PollInterval:     defaultPollInterval,
		RefreshPerSecond: defaultRefreshPerSecond,
		MaxDrainLines:    defaultMaxDrainLines,
		Notify:           true,
		LogFile:          mustExpand(defaultLogFile),
		LogLevel:         defaultLogLevel,
		Scanner: Scanner{
			Interpreter: defaultInterpreter,
			Paths:       append([]string(nil), defaultScannerPaths...),
			Args:        append([]string(nil), defaultScannerArgs...),
			Settle:      defaultSettle,
		},
		Terminals: DefaultTerminals(),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		PollIntervalMS   int        `toml:"poll_interval_ms"`
		RefreshPerSecond int        `toml:"refresh_per_second"`
		MaxDrainLines    int        `toml:"max_drain_lines"`
		Notify           *bool      `toml:"notify"`
		LogFile          string     `toml:"log_file"`
		LogLevel         string     `toml:"log_level"`
		Theme            string     `toml:"theme"`
		Terminals        []Terminal `toml:"terminal"`
		Scanner          struct {
			Interpreter string   `toml:"interpreter"`
			Paths       []string `toml:"paths"`
			Args        []string `toml:"args"`
			SettleMS    int      `toml:"settle_ms"`
		} `toml:"scanner"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.PollIntervalMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalMS) * time.Millisecond
	}
	if raw.RefreshPerSecond > 0 {
		cfg.RefreshPerSecond = raw.RefreshPerSecond
	}
	if raw.MaxDrainLines > 0 {
		cfg.MaxDrainLines = raw.MaxDrainLines
	}
	if raw.Notify != nil {
		cfg.Notify = *raw.Notify
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)

	if v := strings.TrimSpace(raw.Scanner.Interpreter); v != "" {
		cfg.Scanner.Interpreter = v
	}
	if paths := trimAll(raw.Scanner.Paths); len(paths) > 0 {
		cfg.Scanner.Paths = paths
	}
	if raw.Scanner.Args != nil {
		cfg.Scanner.Args = raw.Scanner.Args
	}
	if raw.Scanner.SettleMS > 0 {
		cfg.Scanner.Settle = time.Duration(raw.Scanner.SettleMS) * time.Millisecond
	}

	var terms []Terminal
	for _, t := range raw.Terminals {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			continue
		}
		terms = append(terms, t)
	}
	if len(terms) > 0 {
		cfg.Terminals = terms
	}

	return cfg, nil
}

// FrameInterval is the minimum time between two repaints.
func (c Config) FrameInterval() time.Duration {
	if c.RefreshPerSecond <= 0 {
		return time.Second / defaultRefreshPerSecond
	}
	return time.Second / time.Duration(c.RefreshPerSecond)
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
