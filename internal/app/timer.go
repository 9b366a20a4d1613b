package app

import "fmt"

// Timer is a second-granularity countdown. It never goes below zero and
// never resumes once expired.
type Timer struct {
	total     int
	remaining int
}

// NewTimer returns a countdown of the given number of seconds; negative values clamp to zero.
func NewTimer(seconds int) *Timer {
	if seconds < 0 {
		seconds = 0
	}
	return &Timer{total: seconds, remaining: seconds}
}

// Tick removes one second. It is a no-op at zero.
func (t *Timer) Tick() {
	if t.remaining > 0 {
		t.remaining--
	}
}

func (t *Timer) IsExpired() bool { return t.remaining == 0 }

func (t *Timer) Remaining() int { return t.remaining }

func (t *Timer) Total() int { return t.total }

// RemainingFormatted renders the remaining time as m:ss.
func (t *Timer) RemainingFormatted() string {
	return FormatClock(t.remaining)
}

// FormatClock renders seconds as minutes:seconds, e.g. 125 -> "2:05".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
