package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/spiderweb/internal/dashboard"
	"github.com/five82/spiderweb/internal/prefs"
	"github.com/five82/spiderweb/internal/session"
)

// Source supplies drain cycles of new log lines.
type Source interface {
	Wait(ctx context.Context, limit int) ([]string, error)
	Path() string
}

// Options configures the UI.
type Options struct {
	Source  Source
	Session *session.Session
	Logger  logrus.FieldLogger

	// FrameInterval is the minimum time between two drain cycles, which
	// bounds how often the dashboard repaints.
	FrameInterval time.Duration
	MaxDrainLines int

	ThemeName string
	Compact   bool
	PrefsPath string
}

const (
	defaultFrameInterval = time.Second / 3
	defaultWidth         = 80
	defaultHeight        = 24
	chromeHeight         = 3 // header, status line, footer
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	source    Source
	session   *session.Session
	log       logrus.FieldLogger
	frame     time.Duration
	maxDrain  int
	prefsPath string

	theme    Theme
	keys     keyMap
	compact  bool
	width    int
	height   int
	showHelp bool

	viewport viewport.Model
	help     help.Model
	panels   []dashboard.Panel
}

// New creates the dashboard model.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	sess := opts.Session
	if sess == nil {
		sess = session.New(nil)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	frame := opts.FrameInterval
	if frame <= 0 {
		frame = defaultFrameInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:       ctx,
		cancel:    cancel,
		source:    opts.Source,
		session:   sess,
		log:       log,
		frame:     frame,
		maxDrain:  opts.MaxDrainLines,
		prefsPath: prefsPath,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		compact:   opts.Compact,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.help = newHelp(m.theme)
	m.help.Width = defaultWidth
	m.viewport = viewport.New(defaultWidth, defaultHeight-chromeHeight)
	m.viewport.KeyMap = viewport.KeyMap{
		PageDown:     m.keys.PageDown,
		PageUp:       m.keys.PageUp,
		HalfPageUp:   m.keys.HalfPageUp,
		HalfPageDown: m.keys.HalfPageDown,
		Up:           m.keys.Up,
		Down:         m.keys.Down,
	}
	m.refreshPanels()
	return m
}

// Session returns the session driven by the model.
func (m Model) Session() *session.Session {
	return m.session
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.help.Width = msg.Width
		m.refreshPanels()
		return m, nil

	case linesMsg:
		return m.handleLines(msg)

	case resumeMsg:
		return m, m.waitCmd()

	case followErrMsg:
		m.session.Fail(msg.err)
		m.log.WithError(msg.err).Error("log follower failed")
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

// handleLines runs one drain cycle and schedules the next wait no sooner
// than one frame later, so a burst of output costs a single repaint.
func (m Model) handleLines(lines linesMsg) (tea.Model, tea.Cmd) {
	added, err := m.session.Ingest(lines)
	if err != nil {
		m.session.Fail(err)
		m.cancel()
		return m, tea.Quit
	}
	m.refreshPanels()
	if err := m.session.Transition(session.Watching); err != nil {
		m.session.Fail(err)
		m.cancel()
		return m, tea.Quit
	}
	m.log.WithFields(logrus.Fields{
		"lines": len(lines),
		"new":   added,
		"total": m.session.Stats().Findings,
	}).Debug("drain cycle")

	return m, tea.Tick(m.frame, func(time.Time) tea.Msg { return resumeMsg{} })
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.session.Stop()
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		width := m.help.Width
		m.help = newHelp(m.theme)
		m.help.Width = width
		m.savePrefs()
		m.refreshPanels()
		return m, nil

	case key.Matches(msg, m.keys.ToggleCompact):
		m.compact = !m.compact
		m.savePrefs()
		m.refreshPanels()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Compact: m.compact}); err != nil {
		m.log.WithError(err).Warn("save prefs failed")
	}
}

func (m *Model) refreshPanels() {
	m.panels = dashboard.Render(m.session.Store().Snapshot())
	m.viewport.SetContent(m.renderPanels(m.panels, m.viewport.Width))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Messages

type linesMsg []string

type resumeMsg struct{}

type followErrMsg struct{ err error }

// Commands

// waitCmd blocks on the source for the next drain cycle. Only one is ever
// outstanding: the next is issued after the previous result is handled.
func (m Model) waitCmd() tea.Cmd {
	if m.source == nil {
		return nil
	}
	ctx, src, limit := m.ctx, m.source, m.maxDrain
	return func() tea.Msg {
		lines, err := src.Wait(ctx, limit)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return followErrMsg{err: err}
		}
		return linesMsg(lines)
	}
}

// Run starts the Bubble Tea program on the alternate screen and blocks until
// the user quits, ctx is cancelled, or the session fails. The terminal is
// restored before Run returns on every path.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	defer m.cancel()

	fps := int(time.Second / m.frame)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithFPS(max(1, fps)),
	)

	_, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			m.session.Stop()
			return nil
		}
		m.session.Fail(err)
		return fmt.Errorf("run dashboard: %w", err)
	}
	if err := m.session.Err(); err != nil {
		return err
	}
	m.session.Stop()
	return nil
}
