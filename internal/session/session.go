// Package session tracks the lifecycle of one watch session and performs its
// drain step: classify each new line and record what it yields.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/spiderweb/internal/classify"
	"github.com/five82/spiderweb/internal/state"
)

// Phase is a watch session state.
type Phase int

const (
	Starting Phase = iota
	Watching
	Draining
	Rendering
	Stopped
	Failed
)

func (p Phase) String() string {
	switch p {
	case Starting:
		return "starting"
	case Watching:
		return "watching"
	case Draining:
		return "draining"
	case Rendering:
		return "rendering"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == Stopped || p == Failed
}

// ErrInvalidTransition is returned for a transition the lifecycle forbids.
var ErrInvalidTransition = errors.New("invalid session transition")

var transitions = map[Phase][]Phase{
	Starting:  {Watching},
	Watching:  {Draining},
	Draining:  {Rendering},
	Rendering: {Watching},
}

func allowed(from, to Phase) bool {
	if from.Terminal() {
		return false
	}
	if to == Failed || to == Stopped {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Stats summarizes session progress.
type Stats struct {
	Lines     int
	Findings  int
	LastDrain time.Time
}

// Session owns the classifier and finding store for one watch.
type Session struct {
	classifier *classify.Classifier
	store      *state.Store

	mu    sync.Mutex
	phase Phase
	err   error
	stats Stats
}

// New returns a session in the Starting phase.
func New(classifier *classify.Classifier) *Session {
	if classifier == nil {
		classifier = classify.Default()
	}
	return &Session{
		classifier: classifier,
		store:      state.NewStore(classifier.Categories()),
	}
}

// Store exposes the session's findings.
func (s *Session) Store() *state.Store {
	return s.store
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the failure cause once the session has failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stats returns a copy of the progress counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Transition moves the session to phase to.
func (s *Session) Transition(to Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(to)
}

func (s *Session) transitionLocked(to Phase) error {
	if !allowed(s.phase, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.phase, to)
	}
	s.phase = to
	return nil
}

// Ingest runs one drain cycle over lines, moving Watching -> Draining ->
// Rendering. It returns the number of new findings.
func (s *Session) Ingest(lines []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transitionLocked(Draining); err != nil {
		return 0, err
	}
	added := 0
	for _, line := range lines {
		added += s.store.RecordAll(s.classifier.Classify(line))
	}
	s.stats.Lines += len(lines)
	s.stats.Findings = s.store.Len()
	s.stats.LastDrain = time.Now()
	return added, s.transitionLocked(Rendering)
}

// Fail records err and moves to Failed. A session that already stopped or
// failed keeps its first outcome.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase.Terminal() {
		return
	}
	s.err = err
	s.phase = Failed
}

// Stop moves a live session to Stopped.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase.Terminal() {
		return
	}
	s.phase = Stopped
}
