package logtail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is how long the follower sleeps when no new data exists.
const DefaultPollInterval = 500 * time.Millisecond

const readChunk = 64 * 1024

var (
	// ErrRemoved is returned when the followed path disappears.
	ErrRemoved = errors.New("log file removed")
	// ErrReplaced is returned when the followed path now names a different file.
	ErrReplaced = errors.New("log file replaced")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("follower closed")
)

// Options configure a Follower.
type Options struct {
	PollInterval time.Duration
	// Notify wakes the follower on filesystem events instead of waiting out
	// the full poll interval.
	Notify bool
	Logger logrus.FieldLogger
}

// Follower yields lines appended to a file after it was opened.
type Follower struct {
	path     string
	interval time.Duration
	log      logrus.FieldLogger

	mu       sync.Mutex
	file     *os.File
	info     os.FileInfo
	offset   int64
	pending  []byte
	queue    []string
	closed   bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Open opens path and positions the cursor at its current end.
func Open(path string, opts Options) (*Follower, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat log: %w", err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("open log: %s is a directory", abs)
	}

	size := info.Size()
	if _, err := file.Seek(size, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("seek log: %w", err)
	}

	f := &Follower{
		path:     abs,
		interval: opts.PollInterval,
		log:      opts.Logger,
		file:     file,
		info:     info,
		offset:   size,
		done:     make(chan struct{}),
	}
	if f.interval <= 0 {
		f.interval = DefaultPollInterval
	}
	if f.log == nil {
		f.log = logrus.StandardLogger()
	}
	f.log = f.log.WithField("path", abs)

	if opts.Notify {
		f.startWatcher()
	}
	return f, nil
}

func (f *Follower) startWatcher() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		f.log.WithError(err).Warn("file notifications unavailable, polling only")
		return
	}
	if err := w.Add(filepath.Dir(f.path)); err != nil {
		_ = w.Close()
		f.log.WithError(err).Warn("watch log directory failed, polling only")
		return
	}
	f.watcher = w
}

// Path returns the absolute path being followed.
func (f *Follower) Path() string {
	return f.path
}

// Offset returns the number of bytes of the file consumed so far.
func (f *Follower) Offset() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset
}

// Next blocks until one complete line is available.
func (f *Follower) Next(ctx context.Context) (string, error) {
	lines, err := f.Wait(ctx, 1)
	if err != nil {
		return "", err
	}
	return lines[0], nil
}

// Wait blocks until at least one complete line is available, then returns up
// to limit lines that can be read without blocking. A limit of zero or less
// returns everything available.
func (f *Follower) Wait(ctx context.Context, limit int) ([]string, error) {
	for {
		lines, err := f.take(limit)
		if err != nil {
			return nil, err
		}
		if len(lines) > 0 {
			return lines, nil
		}
		if err := f.check(); err != nil {
			return nil, err
		}
		if err := f.sleep(ctx); err != nil {
			return nil, err
		}
	}
}

// Lines returns the followed lines as an endless sequence. It ends after
// yielding the first error.
func (f *Follower) Lines(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			line, err := f.Next(ctx)
			if err != nil {
				yield("", err)
				return
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

// Close releases the file and any watcher. It is safe to call more than once.
func (f *Follower) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	close(f.done)
	if f.watcher != nil {
		_ = f.watcher.Close()
	}
	return f.file.Close()
}

func (f *Follower) take(limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}

	if len(f.queue) == 0 || (limit > 0 && len(f.queue) < limit) {
		if err := f.fillLocked(limit); err != nil {
			return nil, err
		}
	}

	n := len(f.queue)
	if limit > 0 {
		n = min(n, limit)
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]string, n)
	copy(out, f.queue[:n])
	f.queue = f.queue[n:]
	if len(f.queue) == 0 {
		f.queue = nil
	}
	return out, nil
}

// fillLocked reads appended bytes until EOF or until want lines are queued.
func (f *Follower) fillLocked(want int) error {
	buf := make([]byte, readChunk)
	for want <= 0 || len(f.queue) < want {
		n, err := f.file.Read(buf)
		if n > 0 {
			f.offset += int64(n)
			f.splitLocked(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read log: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

func (f *Follower) splitLocked(chunk []byte) {
	for len(chunk) > 0 {
		i := bytes.IndexByte(chunk, '\n')
		if i < 0 {
			f.pending = append(f.pending, chunk...)
			return
		}
		line := chunk[:i]
		if len(f.pending) > 0 {
			line = append(f.pending, line...)
			f.pending = nil
		}
		chunk = chunk[i+1:]
		f.queue = append(f.queue, string(bytes.TrimSuffix(line, []byte{'\r'})))
	}
}

// check verifies the followed path still names the opened file.
func (f *Follower) check() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRemoved, f.path)
		}
		return fmt.Errorf("stat log: %w", err)
	}
	if !os.SameFile(info, f.info) {
		return fmt.Errorf("%w: %s", ErrReplaced, f.path)
	}
	if info.Size() < f.offset {
		f.log.WithFields(logrus.Fields{
			"offset": f.offset,
			"size":   info.Size(),
		}).Warn("log truncated, restarting from beginning")
		if _, err := f.file.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("seek log: %w", err)
		}
		f.offset = 0
		f.pending = nil
	}
	return nil
}

func (f *Follower) sleep(ctx context.Context) error {
	timer := time.NewTimer(f.interval)
	defer timer.Stop()

	var events chan fsnotify.Event
	var errs chan error
	if f.watcher != nil {
		events = f.watcher.Events
		errs = f.watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return ErrClosed
		case <-timer.C:
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) == f.path {
				return nil
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			f.log.WithError(err).Debug("file watcher error")
		}
	}
}
