package cli

import (
	"strings"
	"sync"
)

// LogWriter implements io.Writer and keeps the last N lines for the watch
// screen. Each new line is also offered on a notification channel.
type LogWriter struct {
	mu    sync.Mutex
	lines []string
	head  int
	full  bool
	ch    chan string
}

// NewLogWriter creates a new log writer with the given max lines.
func NewLogWriter(maxLines int) *LogWriter {
	if maxLines < 1 {
		maxLines = 1
	}
	return &LogWriter{
		lines: make([]string, maxLines),
		ch:    make(chan string, 100),
	}
}

// Write splits p on newlines and stores each line.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	text := strings.TrimRight(string(p), "\n")
	for _, line := range strings.Split(text, "\n") {
		w.add(line)
		select {
		case w.ch <- line:
		default:
		}
	}
	return len(p), nil
}

func (w *LogWriter) add(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines[w.head] = line
	w.head++
	if w.head == len(w.lines) {
		w.head = 0
		w.full = true
	}
}

// Lines returns the buffered lines, oldest first.
func (w *LogWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.full {
		return append([]string(nil), w.lines[:w.head]...)
	}
	out := make([]string, 0, len(w.lines))
	out = append(out, w.lines[w.head:]...)
	return append(out, w.lines[:w.head]...)
}

// Channel returns the notification channel for new lines.
func (w *LogWriter) Channel() <-chan string {
	return w.ch
}
