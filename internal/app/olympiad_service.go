package app

import (
	"context"
	"log"
	"time"

	"olympiad-service/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository abstracts where live attempts are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(attemptID string) (*Session, bool)
	Delete(attemptID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// ResultPublisher hands completed results to the external profile store.
type ResultPublisher interface {
	Publish(ctx context.Context, record domain.ResultRecord) error
}

// OlympiadService contains the attempt use cases.
type OlympiadService struct {
	sessions        SessionRepository
	banks           BankRepository
	results         ResultPublisher
	defaultDuration time.Duration
	now             func() time.Time
	newTicker       TickerFactory
}

// ServiceOption customizes an OlympiadService.
type ServiceOption func(*OlympiadService)

// WithServiceClock replaces time.Now for every attempt the service starts.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *OlympiadService) { s.now = now }
}

// WithServiceTicker replaces the real ticker for every attempt the service starts.
func WithServiceTicker(factory TickerFactory) ServiceOption {
	return func(s *OlympiadService) { s.newTicker = factory }
}

func NewOlympiadService(store SessionRepository, banks BankRepository, results ResultPublisher, defaultDuration time.Duration, opts ...ServiceOption) *OlympiadService {
	s := &OlympiadService{
		sessions:        store,
		banks:           banks,
		results:         results,
		defaultDuration: defaultDuration,
		now:             time.Now,
		newTicker:       NewStdTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Describe returns the answer-free summary of a bank.
func (s *OlympiadService) Describe(ctx context.Context, bankID string) (domain.BankSummary, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return domain.BankSummary{}, err
	}
	summary := bank.Summary()
	summary.DurationSeconds = s.durationFor(bank)
	return summary, nil
}

// Start opens a new attempt for userID and starts its countdown. The clock
// is bound to ctx; cancel it or call Abandon to stop the attempt early.
func (s *OlympiadService) Start(ctx context.Context, bankID, userID string) (*Session, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}

	attemptID := uuid.NewString()
	session := StartSession(bank, s.durationFor(bank),
		WithID(attemptID),
		WithClock(s.now),
		WithTicker(s.newTicker),
		OnComplete(func(result domain.Result) {
			s.publish(attemptID, userID, bank, result)
		}),
	)
	s.sessions.Put(session)
	session.StartClock(ctx)

	log.Printf("attempt %s started: bank=%s user=%s questions=%d", attemptID, bank.ID, userID, len(bank.Questions))
	return session, nil
}

// Attempt looks up a live attempt.
func (s *OlympiadService) Attempt(attemptID string) (*Session, error) {
	session, ok := s.sessions.Get(attemptID)
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return session, nil
}

// Abandon discards an attempt: its clock stops and it is dropped from the store.
// A completed result has already been published by then.
func (s *OlympiadService) Abandon(attemptID string) {
	session, ok := s.sessions.Get(attemptID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(attemptID)
}

func (s *OlympiadService) durationFor(bank domain.Bank) int {
	if bank.DurationSeconds > 0 {
		return bank.DurationSeconds
	}
	return int(s.defaultDuration / time.Second)
}

func (s *OlympiadService) publish(attemptID, userID string, bank domain.Bank, result domain.Result) {
	log.Printf("attempt %s completed (%s): %d/%d (%d%%) certificate=%v",
		attemptID, result.Reason, result.Score, result.MaxScore, result.Percentage, result.CertificateEligible)
	if s.results == nil {
		return
	}
	record := domain.ResultRecord{
		AttemptID:   attemptID,
		UserID:      userID,
		BankID:      bank.ID,
		Subject:     bank.Subject,
		Grade:       bank.Grade,
		Result:      result,
		CompletedAt: s.now(),
	}
	// the attempt's own ctx may already be canceled by the time it completes
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.results.Publish(ctx, record); err != nil {
		log.Printf("publish result for attempt %s: %v", attemptID, err)
	}
}
