package app

import (
	"sync"
	"time"

	"olympiad-service/internal/domain"
)

// mathBank mirrors the grade 3 sample: points sum to 29.
func mathBank() domain.Bank {
	points := []int{3, 3, 2, 4, 3, 4, 3, 2, 3, 2}
	correct := []int{1, 1, 2, 1, 1, 1, 2, 1, 1, 2}
	questions := make([]domain.Question, len(points))
	for i := range points {
		questions[i] = domain.Question{
			ID:            i + 1,
			Prompt:        "question",
			Options:       []string{"a", "b", "c", "d"},
			CorrectOption: correct[i],
			Points:        points[i],
		}
	}
	return domain.Bank{ID: "math-3", Subject: "math", Grade: "3", DurationSeconds: 1800, Questions: questions}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeTicker struct {
	ch      chan time.Time
	once    sync.Once
	stopped chan struct{}
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() { f.once.Do(func() { close(f.stopped) }) }

func (f *fakeTicker) factory() TickerFactory {
	return func(time.Duration) Ticker { return f }
}
