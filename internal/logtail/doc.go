// Package logtail follows a log file that another process keeps appending to.
//
// # Overview
//
// A Follower opens a file, moves its cursor to the current end and from then
// on yields only lines written after that point. Lines are yielded once, in
// file order, and only when complete (newline-terminated). The file is never
// read into memory as a whole: bytes are consumed in 64KB chunks and only the
// unfinished tail of the last line is kept between reads.
//
// When the file ends mid-line at open time, the bytes appended after the
// cursor up to the next newline are yielded as the first line. Content before
// the cursor is never yielded.
//
// # Waiting
//
// When no complete line is available the follower sleeps for the poll
// interval (500ms by default). With Options.Notify set, an fsnotify watcher on
// the parent directory wakes it as soon as the file changes; the timer still
// runs, so a missed or unsupported notification only costs latency.
//
// Three ways to consume lines:
//
//   - Next: one line, blocking
//   - Wait: a drain cycle; blocks for the first line, then returns everything
//     readable without blocking (bounded by limit)
//   - Lines: an iter.Seq2 over Next for range loops
//
// Example:
//
//	f, err := logtail.Open("/tmp/scan.log", logtail.Options{Notify: true})
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//	for line, err := range f.Lines(ctx) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(line)
//	}
//
// # Error Handling
//
// A quiet file is normal and never an error. Each idle wake-up stats the path:
//
//   - path gone: ErrRemoved
//   - path now names another file: ErrReplaced
//   - file shorter than the cursor: the writer truncated it; a warning is
//     logged and reading restarts at offset zero
//
// Context cancellation returns ctx.Err(); calls after Close return ErrClosed.
//
// # Concurrency
//
// Methods are safe for concurrent use, but the follower is meant to have a
// single reader. The writer is a separate, uncoordinated process.
package logtail
