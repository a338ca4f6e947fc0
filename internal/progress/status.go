// Package progress renders a status line for downloads and other long-running steps.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/localcc/autoupdater/internal/update"
)

var printer = message.NewPrinter(language.English)

// StatusLine tracks and displays progress for a single phase.
type StatusLine struct {
	out         io.Writer
	phase       string
	total       int64
	startTime   time.Time
	lastPercent int
	updateCount int
	mu          sync.Mutex
}

// NewStatusLine creates a status line for phase. total is the expected size in
// bytes, or 0 when unknown.
func NewStatusLine(out io.Writer, phase string, total int64) *StatusLine {
	return &StatusLine{
		out:         out,
		phase:       phase,
		total:       total,
		startTime:   time.Now(),
		lastPercent: -1,
	}
}

// Func adapts the status line to a download progress callback.
func (s *StatusLine) Func() update.ProgressFunc {
	return s.Update
}

// Update redraws the line for fraction in [0, 1]. Redraws only happen when the
// whole percentage changes.
func (s *StatusLine) Update(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	percent := int(fraction * 100)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent == s.lastPercent {
		return
	}
	s.lastPercent = percent

	size := ""
	if s.total > 0 {
		done := int64(float64(s.total) * float64(percent) / 100)
		size = fmt.Sprintf(" (%s / %s)", FormatBytes(done), FormatBytes(s.total))
	}

	// \r plus erase-to-end-of-line keeps the status on a single terminal line.
	_, _ = fmt.Fprintf(s.out, "\r→ %s... %3d%%%s\x1b[K", s.phase, percent, size)
	s.updateCount++
}

// Done marks the phase as complete with a checkmark.
func (s *StatusLine) Done() {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := formatDuration(time.Since(s.startTime))
	if s.total > 0 {
		_, _ = printer.Fprintf(s.out, "\r→ %s ✓ (%d bytes, %s)\x1b[K\n", s.phase, s.total, elapsed)

		return
	}
	_, _ = fmt.Fprintf(s.out, "\r→ %s ✓ (%s)\x1b[K\n", s.phase, elapsed)
}

// Fail ends the line with a cross so the next output starts on a fresh line.
func (s *StatusLine) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.out, "\r→ %s ✗\x1b[K\n", s.phase)
}

// UpdateCount returns how many times the line was redrawn.
func (s *StatusLine) UpdateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateCount
}

// FormatBytes renders n using binary units, e.g. "512 B", "1.5 KiB", "12.0 MiB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return printer.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for v := n / unit; v >= unit && exp < 3; v /= unit {
		div *= unit
		exp++
	}

	return printer.Sprintf("%.1f %siB", float64(n)/float64(div), []string{"K", "M", "G", "T"}[exp])
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
