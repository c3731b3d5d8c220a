package bootstrap

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/initkit/di"
	"github.com/kbukum/initkit/initialize"
)

// Summary tracks and displays what the application resolved at startup.
// It is the initialize.Recorder of the App's Initializer.
type Summary struct {
	mu              sync.Mutex
	serviceName     string
	version         string
	runID           string
	startupDuration time.Duration
	resolutions     []initialize.Resolution
	settings        []string
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version, runID string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		runID:       runID,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startupDuration = d
}

// RecordResolution implements initialize.Recorder.
func (s *Summary) RecordResolution(r initialize.Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolutions = append(s.resolutions, r)
}

// TrackSettings records the names of the loaded settings.
func (s *Summary) TrackSettings(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = slices.Clone(names)
}

// Resolutions returns the recorded resolutions in order.
func (s *Summary) Resolutions() []initialize.Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.resolutions)
}

// DisplaySummary writes the startup summary to w.
func (s *Summary) DisplaySummary(w io.Writer, container di.Container) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s started in %.2fs (run %s)\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds(), s.runID)

	fmt.Fprintf(w, "🧩 Implementations\n")
	if len(s.resolutions) == 0 {
		fmt.Fprintf(w, "   └── None resolved\n")
	}
	for i, r := range s.resolutions {
		fmt.Fprintf(w, "   %s %s [%s] → %s\n", branch(i, len(s.resolutions)), r.Subject, r.Mode, strings.Join(r.Chosen, ", "))
	}

	fmt.Fprintf(w, "\n⚙️  Settings (%d)\n", len(s.settings))
	for i, name := range s.settings {
		fmt.Fprintf(w, "   %s %s\n", branch(i, len(s.settings)), name)
	}

	if container != nil {
		regs := container.Registrations()
		fmt.Fprintf(w, "\n📦 Components\n")
		for i, r := range regs {
			fmt.Fprintf(w, "   %s %s %s (%s)\n", branch(i, len(regs)), statusIcon(r), r.Key, r.Mode)
		}
	}

	fmt.Fprintf(w, "\n")
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(r di.RegistrationInfo) string {
	switch {
	case r.Initialized:
		return "✅"
	case r.Mode == di.Lazy:
		return "⚡"
	default:
		return "⚠️"
	}
}
