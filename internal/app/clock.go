package app

import (
	"context"
	"time"

	"olympiad-service/internal/domain"
)

// Ticker is the periodic signal driving a session's countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds a Ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewStdTicker wraps time.NewTicker.
func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// StartClock launches the one-tick-per-second driver. It returns immediately;
// the driver exits when the session completes, when ctx is canceled or when
// the session is closed. Calling it more than once is a no-op.
func (s *Session) StartClock(ctx context.Context) {
	s.mu.Lock()
	if s.state != domain.StateInProgress || s.closed || s.stopClock != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.stopClock = cancel
	ticker := s.newTicker(time.Second)
	done := s.clockDone
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				if finished := s.Tick(); finished {
					return
				}
			}
		}
	}()
}

// ClockStopped is closed once a started clock driver has returned.
func (s *Session) ClockStopped() <-chan struct{} {
	return s.clockDone
}
