package testutil

import (
	"slices"
	"testing"
)

// THelper provides testing.T integration for log assertions.
type THelper struct {
	t *testing.T
}

// T wraps a testing.T to provide helper methods.
//
//	testutil.T(t).AssertMessages(rec, "info", "Found: v as: k")
func T(t *testing.T) *THelper {
	return &THelper{t: t}
}

// AssertMessages fails the test unless the messages logged at level are
// exactly want, in order.
func (h *THelper) AssertMessages(rec *LogRecorder, level string, want ...string) {
	h.t.Helper()
	got := rec.Messages(level)
	if !slices.Equal(got, want) {
		h.t.Errorf("%s messages mismatch\n got: %q\nwant: %q", level, got, want)
	}
}

// AssertCount fails the test unless message was logged exactly n times at level.
func (h *THelper) AssertCount(rec *LogRecorder, level, message string, n int) {
	h.t.Helper()
	if got := rec.Count(level, message); got != n {
		h.t.Errorf("expected %q at %s %d time(s), got %d", message, level, n, got)
	}
}

// AssertNoLogs fails the test if anything was logged.
func (h *THelper) AssertNoLogs(rec *LogRecorder) {
	h.t.Helper()
	if entries := rec.Entries(); len(entries) > 0 {
		h.t.Errorf("expected no log output, got %d line(s): %v", len(entries), rec.Messages(""))
	}
}
