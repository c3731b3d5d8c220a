package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"

	"github.com/kbukum/initkit/logger"
)

// LogEntry is one decoded log line.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// LogRecorder captures JSON log output for assertions.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogRecorder returns a debug-level JSON logger wired to a fresh recorder.
func NewLogRecorder() (*logger.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", rec)
	return log, rec
}

// Write implements io.Writer.
func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Entries decodes every captured line in write order. Lines that are not
// JSON objects are skipped.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	data := bytes.Clone(r.buf.Bytes())
	r.mu.Unlock()

	var entries []LogEntry
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := map[string]any{}
		if err := json.Unmarshal(sc.Bytes(), &fields); err != nil {
			continue
		}
		entry := LogEntry{Fields: fields}
		entry.Level, _ = fields["level"].(string)
		entry.Message, _ = fields["message"].(string)
		entries = append(entries, entry)
	}
	return entries
}

// Messages returns the messages logged at level, in order. An empty level
// returns every message.
func (r *LogRecorder) Messages(level string) []string {
	var out []string
	for _, e := range r.Entries() {
		if level == "" || e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Count returns how many times message was logged at level.
func (r *LogRecorder) Count(level, message string) int {
	n := 0
	for _, m := range r.Messages(level) {
		if m == message {
			n++
		}
	}
	return n
}

// Reset discards everything captured so far.
func (r *LogRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
}
