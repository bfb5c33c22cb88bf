package ui

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner shows an indeterminate progress indicator while a statement runs.
// A nil *Spinner is valid and does nothing.
type Spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
}

// NewSpinner returns a spinner writing to stderr, or nil when disabled.
func NewSpinner(description string, enabled bool) *Spinner {
	if !enabled {
		return nil
	}
	return newSpinner(os.Stderr, description)
}

func newSpinner(w io.Writer, description string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(false),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
	)
	return &Spinner{bar: bar}
}

// Start animates the spinner until Stop is called.
func (s *Spinner) Start() {
	if s == nil || s.done != nil {
		return
	}
	s.done = make(chan struct{})
	go func(done <-chan struct{}) {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}(s.done)
}

// Describe replaces the text shown next to the spinner.
func (s *Spinner) Describe(description string) {
	if s == nil {
		return
	}
	s.bar.Describe(description)
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	if s == nil || s.done == nil {
		return
	}
	close(s.done)
	s.done = nil
	_ = s.bar.Finish()
}
