package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"olympiad-service/internal/domain"
)

// EventKind identifies a session event.
type EventKind string

const (
	EventTick      EventKind = "tick"
	EventCompleted EventKind = "completed"
)

// Event is pushed to subscribers on every countdown tick and once on completion.
type Event struct {
	Kind             EventKind      `json:"kind"`
	RemainingSeconds int            `json:"remainingSeconds"`
	Remaining        string         `json:"remaining"`
	Result           *domain.Result `json:"result,omitempty"`
}

// RemainingTime is the countdown in raw and m:ss form.
type RemainingTime struct {
	Seconds   int    `json:"seconds"`
	Formatted string `json:"formatted"`
}

// QuestionView is a question as shown during an attempt, without its answer.
type QuestionView struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Points  int      `json:"points"`
}

// View is a read-only snapshot for the presentation layer.
type View struct {
	AttemptID     string        `json:"attemptId"`
	State         domain.State  `json:"state"`
	Index         int           `json:"index"`
	QuestionCount int           `json:"questionCount"`
	Question      *QuestionView `json:"question,omitempty"`
	Selected      int           `json:"selected"`
	Answered      []bool        `json:"answered"`
	AnsweredCount int           `json:"answeredCount"`
	Remaining     RemainingTime `json:"remaining"`
}

// SessionOption customizes a session at construction.
type SessionOption func(*Session)

// WithClock replaces time.Now; tests use it for deterministic elapsed times.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithTicker replaces the real one-second ticker used by StartClock.
func WithTicker(factory TickerFactory) SessionOption {
	return func(s *Session) { s.newTicker = factory }
}

// WithID sets the attempt id reported in views.
func WithID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// OnComplete registers a callback run exactly once, outside the session lock,
// after the session freezes its result.
func OnComplete(fn func(domain.Result)) SessionOption {
	return func(s *Session) { s.onComplete = fn }
}

// Session is one timed attempt over a bank. All transitions are serialized
// by mu, so the clock driver and caller commands never interleave.
type Session struct {
	id         string
	bank       domain.Bank
	now        func() time.Time
	newTicker  TickerFactory
	onComplete func(domain.Result)

	mu          sync.Mutex
	state       domain.State
	ledger      *Ledger
	cursor      *Cursor
	timer       *Timer
	selected    int
	startedAt   time.Time
	result      *domain.Result
	subscribers map[chan Event]struct{}
	stopClock   context.CancelFunc
	clockDone   chan struct{}
	closed      bool
}

// StartSession creates a fresh attempt: empty ledger, cursor on the first
// question and the timer at full duration. The countdown only runs once
// StartClock is called or Tick is driven externally. A zero duration yields
// a session already completed with ReasonTimeout.
func StartSession(bank domain.Bank, durationSeconds int, opts ...SessionOption) *Session {
	s := &Session{
		bank:        bank,
		now:         time.Now,
		newTicker:   NewStdTicker,
		state:       domain.StateInProgress,
		ledger:      NewLedger(len(bank.Questions)),
		cursor:      NewCursor(len(bank.Questions)),
		timer:       NewTimer(durationSeconds),
		selected:    domain.Unanswered,
		subscribers: make(map[chan Event]struct{}),
		clockDone:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	if s.timer.IsExpired() {
		// no time to answer anything: the attempt is over before it starts
		result, first := s.completeLocked(domain.ReasonTimeout)
		s.finished(result, first)
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Bank() domain.Bank { return s.bank }

func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CurrentQuestionIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Index()
}

// CurrentQuestion returns the question under the cursor; ErrInvalidIndex for an empty bank.
func (s *Session) CurrentQuestion() (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// Selected is the option shown as chosen for the current question.
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Session) RemainingTime() RemainingTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

// Answer returns the committed ledger slot for a question position.
func (s *Session) Answer(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(index)
}

// SelectAnswer marks option as chosen for the current question. It is
// written to the ledger on the next move or on completion.
func (s *Session) SelectAnswer(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateInProgress {
		return domain.ErrInvalidState
	}
	q, err := s.currentLocked()
	if err != nil {
		return fmt.Errorf("%w: no current question", domain.ErrInvalidOption)
	}
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d not in [0,%d)", domain.ErrInvalidOption, option, len(q.Options))
	}
	s.selected = option
	return nil
}

// Advance commits the selection and moves forward. On the last question it
// completes the session instead.
func (s *Session) Advance() error {
	s.mu.Lock()
	if s.state != domain.StateInProgress {
		s.mu.Unlock()
		return domain.ErrInvalidState
	}
	s.commitLocked()
	if s.cursor.Next() {
		s.selected = s.ledger.Get(s.cursor.Index())
		s.mu.Unlock()
		return nil
	}
	result, first := s.completeLocked(domain.ReasonManual)
	s.mu.Unlock()

	s.finished(result, first)
	return nil
}

// Retreat commits the selection and moves back; on the first question it only commits.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateInProgress {
		return domain.ErrInvalidState
	}
	s.commitLocked()
	if s.cursor.Previous() {
		s.selected = s.ledger.Get(s.cursor.Index())
	}
	return nil
}

// JumpTo commits the selection and moves to index, answered or not.
func (s *Session) JumpTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateInProgress {
		return domain.ErrInvalidState
	}
	if index < 0 || index >= s.ledger.Len() {
		return fmt.Errorf("%w: %d not in [0,%d)", domain.ErrInvalidIndex, index, s.ledger.Len())
	}
	s.commitLocked()
	if index == s.cursor.Index() {
		return nil
	}
	if err := s.cursor.JumpTo(index); err != nil {
		return err
	}
	s.selected = s.ledger.Get(index)
	return nil
}

// Complete finalizes the session and returns its result. A second call
// returns the already frozen result unchanged.
func (s *Session) Complete(reason domain.CompletionReason) domain.Result {
	s.mu.Lock()
	result, first := s.completeLocked(reason)
	s.mu.Unlock()

	s.finished(result, first)
	return result
}

// Result returns the frozen result once the session is completed.
func (s *Session) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.Result{}, false
	}
	return cloneResult(*s.result), true
}

// Tick advances the countdown by one second and completes the session with
// ReasonTimeout when it reaches zero. It reports whether the session is
// completed after the tick.
func (s *Session) Tick() bool {
	s.mu.Lock()
	if s.state != domain.StateInProgress {
		s.mu.Unlock()
		return true
	}
	s.timer.Tick()
	remaining := s.remainingLocked()
	s.broadcastLocked(Event{Kind: EventTick, RemainingSeconds: remaining.Seconds, Remaining: remaining.Formatted})
	if !s.timer.IsExpired() {
		s.mu.Unlock()
		return false
	}
	result, first := s.completeLocked(domain.ReasonTimeout)
	s.mu.Unlock()

	s.finished(result, first)
	return true
}

// View snapshots the session for rendering.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered := make([]bool, s.ledger.Len())
	for i := range answered {
		answered[i] = s.ledger.Get(i) != domain.Unanswered
	}
	v := View{
		AttemptID:     s.id,
		State:         s.state,
		Index:         s.cursor.Index(),
		QuestionCount: s.ledger.Len(),
		Selected:      s.selected,
		Answered:      answered,
		AnsweredCount: s.ledger.AnsweredCount(),
		Remaining:     s.remainingLocked(),
	}
	if q, err := s.currentLocked(); err == nil {
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		v.Question = &QuestionView{ID: q.ID, Prompt: q.Prompt, Options: options, Points: q.Points}
	}
	return v
}

// Subscribe returns a channel of session events, primed with the current
// countdown (and the result if already completed). The caller must invoke
// cancel to release the subscription.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	remaining := s.remainingLocked()
	ch <- Event{Kind: EventTick, RemainingSeconds: remaining.Seconds, Remaining: remaining.Formatted}
	if s.result != nil {
		result := cloneResult(*s.result)
		ch <- Event{Kind: EventCompleted, Result: &result}
	}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close tears the session down: the clock driver stops and subscriber
// channels are closed. It does not complete the session. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.stopClock != nil {
		s.stopClock()
	}
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) currentLocked() (domain.Question, error) {
	if s.ledger.Len() == 0 {
		return domain.Question{}, domain.ErrInvalidIndex
	}
	return s.bank.Questions[s.cursor.Index()], nil
}

func (s *Session) remainingLocked() RemainingTime {
	return RemainingTime{Seconds: s.timer.Remaining(), Formatted: s.timer.RemainingFormatted()}
}

func (s *Session) commitLocked() {
	if s.ledger.Len() == 0 {
		return
	}
	_ = s.ledger.Set(s.cursor.Index(), s.selected)
}

// completeLocked freezes the result. The bool is false when the session was
// already completed, in which case the existing result is returned.
func (s *Session) completeLocked(reason domain.CompletionReason) (domain.Result, bool) {
	if s.state == domain.StateCompleted {
		return cloneResult(*s.result), false
	}
	s.commitLocked()

	elapsed := s.now().Sub(s.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	result := Score(s.bank.Questions, s.ledger.Snapshot())
	result.Reason = reason
	result.Elapsed = elapsed
	result.ElapsedTime = FormatClock(int(elapsed / time.Second))

	s.result = &result
	s.state = domain.StateCompleted
	if s.stopClock != nil {
		s.stopClock()
	}

	frozen := cloneResult(result)
	s.broadcastLocked(Event{
		Kind:             EventCompleted,
		RemainingSeconds: s.timer.Remaining(),
		Remaining:        s.timer.RemainingFormatted(),
		Result:           &frozen,
	})
	return cloneResult(result), true
}

func (s *Session) finished(result domain.Result, first bool) {
	if first && s.onComplete != nil {
		s.onComplete(result)
	}
}

func (s *Session) broadcastLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// drop the oldest event so a slow reader never blocks a transition
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func cloneResult(r domain.Result) domain.Result {
	out := r
	out.Answers = append([]int(nil), r.Answers...)
	out.PerQuestion = make([]domain.QuestionOutcome, len(r.PerQuestion))
	for i, o := range r.PerQuestion {
		o.Options = append([]string(nil), o.Options...)
		out.PerQuestion[i] = o
	}
	return out
}
