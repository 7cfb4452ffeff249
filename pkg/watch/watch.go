// Package watch recompiles a source file as it is edited.
//
// The file is polled, and a compile runs once the content has stopped
// changing for the debounce interval, so a burst of saves yields a single
// result.
package watch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/haivivi/tonescribe/pkg/song"
	"github.com/haivivi/tonescribe/pkg/song/linker"
)

// Defaults for Options.
const (
	DefaultPoll     = 50 * time.Millisecond
	DefaultDebounce = 500 * time.Millisecond
)

// Result is the outcome of one compile.
type Result struct {
	Song *song.Song

	// Output is the linker output, when a linker is set and the song
	// compiled cleanly.
	Output []byte

	// Err is the first compile error, or a read or link failure.
	Err error

	At time.Time
}

// Options configures a Watcher.
type Options struct {
	Compiler song.Compiler

	// Linker is optional.
	Linker linker.Linker

	// From and To select the compile range, as for song.Span. Leaving both
	// zero compiles the whole text.
	From, To int

	Poll     time.Duration
	Debounce time.Duration
}

// Watcher polls one file.
type Watcher struct {
	path string
	opts Options
}

// New returns a watcher for path. Compiler is required.
func New(path string, opts Options) *Watcher {
	if opts.Poll <= 0 {
		opts.Poll = DefaultPoll
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.From == 0 && opts.To == 0 {
		opts.From, opts.To = -1, -1
	}
	return &Watcher{path: path, opts: opts}
}

// Run compiles the file right away and again after every settled change,
// calling fn with each result, until ctx ends. fn runs on Run's goroutine.
func (w *Watcher) Run(ctx context.Context, fn func(Result)) error {
	if w.opts.Compiler == nil {
		return errors.New("watch: no compiler")
	}

	last, err := os.ReadFile(w.path)
	if err != nil {
		fn(Result{Err: err, At: time.Now()})
	} else {
		fn(w.compile(last))
	}
	lastErr := errString(err)

	ticker := time.NewTicker(w.opts.Poll)
	defer ticker.Stop()

	var pending bool
	var changed time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			data, err := os.ReadFile(w.path)
			if err != nil {
				if s := errString(err); s != lastErr {
					lastErr = s
					slog.Debug("watch: read failed", "path", w.path, "error", err)
					fn(Result{Err: err, At: now})
				}
				continue
			}
			if lastErr != "" || !bytes.Equal(data, last) {
				last, lastErr = data, ""
				pending, changed = true, now
				continue
			}
			if pending && now.Sub(changed) >= w.opts.Debounce {
				pending = false
				fn(w.compile(data))
			}
		}
	}
}

func (w *Watcher) compile(data []byte) Result {
	text := string(data)
	s := song.CompileSpan(w.opts.Compiler, text, w.opts.From, w.opts.To)
	r := Result{Song: s, Err: s.Err(), At: time.Now()}
	slog.Debug("watch: compiled", "path", w.path, "events", len(s.Events), "error", r.Err)
	if r.Err != nil || w.opts.Linker == nil {
		return r
	}
	var out bytes.Buffer
	if err := w.opts.Linker.Link(&out, s); err != nil {
		r.Err = err
		return r
	}
	r.Output = out.Bytes()
	return r
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
