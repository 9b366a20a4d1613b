package domain

import (
	"fmt"
	"time"
)

// Unanswered marks a ledger slot with no selected option.
const Unanswered = -1

// CertificateThreshold is the inclusive percentage needed for a certificate.
const CertificateThreshold = 70

// Question models an MCQ item with exactly one correct option.
type Question struct {
	ID            int      `json:"id" yaml:"id"`
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Options       []string `json:"options" yaml:"options"`
	CorrectOption int      `json:"correctOption" yaml:"correct"`
	Explanation   string   `json:"explanation" yaml:"explanation"`
	Points        int      `json:"points" yaml:"points"`
}

// Validate checks the option and points invariants of a single question.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %d has %d options", ErrInvalidBank, q.ID, len(q.Options))
	}
	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		return fmt.Errorf("%w: question %d correct option %d out of range", ErrInvalidBank, q.ID, q.CorrectOption)
	}
	if q.Points <= 0 {
		return fmt.Errorf("%w: question %d has non-positive points", ErrInvalidBank, q.ID)
	}
	return nil
}

// Bank is an ordered, read-only catalog of questions for one olympiad.
type Bank struct {
	ID              string     `json:"id" yaml:"id"`
	Subject         string     `json:"subject" yaml:"subject"`
	Grade           string     `json:"grade" yaml:"grade"`
	DurationSeconds int        `json:"durationSeconds" yaml:"duration_seconds"`
	Questions       []Question `json:"questions" yaml:"questions"`
}

// Validate checks every question plus id uniqueness.
func (b Bank) Validate() error {
	if b.DurationSeconds < 0 {
		return fmt.Errorf("%w: bank %s has negative duration", ErrInvalidBank, b.ID)
	}
	seen := make(map[int]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidBank, q.ID)
		}
		seen[q.ID] = struct{}{}
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MaxScore sums the points of every question.
func (b Bank) MaxScore() int {
	total := 0
	for _, q := range b.Questions {
		total += q.Points
	}
	return total
}

// Summary returns the public, answer-free description of the bank.
func (b Bank) Summary() BankSummary {
	return BankSummary{
		ID:              b.ID,
		Subject:         b.Subject,
		Grade:           b.Grade,
		QuestionCount:   len(b.Questions),
		MaxScore:        b.MaxScore(),
		DurationSeconds: b.DurationSeconds,
	}
}

// BankSummary is what clients see before starting an attempt.
type BankSummary struct {
	ID              string `json:"id"`
	Subject         string `json:"subject"`
	Grade           string `json:"grade"`
	QuestionCount   int    `json:"questionCount"`
	MaxScore        int    `json:"maxScore"`
	DurationSeconds int    `json:"durationSeconds"`
}

// CompletionReason tells how a session ended.
type CompletionReason string

const (
	ReasonManual  CompletionReason = "manual"
	ReasonTimeout CompletionReason = "timeout"
)

// State is the lifecycle state of a session.
type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Rating is a presentation-neutral band for a percentage.
type Rating string

const (
	RatingExcellent        Rating = "excellent"
	RatingGood             Rating = "good"
	RatingSatisfactory     Rating = "satisfactory"
	RatingNeedsImprovement Rating = "needs_improvement"
)

// RatingFor maps a percentage onto its band.
func RatingFor(percentage int) Rating {
	switch {
	case percentage >= 90:
		return RatingExcellent
	case percentage >= 80:
		return RatingGood
	case percentage >= CertificateThreshold:
		return RatingSatisfactory
	default:
		return RatingNeedsImprovement
	}
}

// QuestionOutcome is one row of the result breakdown. It carries the correct
// option and explanation, so it only exists once an attempt is completed.
type QuestionOutcome struct {
	QuestionID    int      `json:"questionId"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	Selected      int      `json:"selected"`
	CorrectOption int      `json:"correctOption"`
	IsCorrect     bool     `json:"isCorrect"`
	PointsAwarded int      `json:"pointsAwarded"`
	Points        int      `json:"points"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Result is the frozen outcome of a completed session.
type Result struct {
	Score               int               `json:"score"`
	MaxScore            int               `json:"maxScore"`
	Percentage          int               `json:"percentage"`
	CertificateEligible bool              `json:"certificateEligible"`
	Rating              Rating            `json:"rating"`
	Reason              CompletionReason  `json:"reason"`
	Elapsed             time.Duration     `json:"-"`
	ElapsedTime         string            `json:"elapsedTime"`
	Answers             []int             `json:"answers"`
	PerQuestion         []QuestionOutcome `json:"perQuestion"`
}

// ResultRecord is the handoff to the external profile store.
type ResultRecord struct {
	AttemptID   string    `json:"attemptId"`
	UserID      string    `json:"userId"`
	BankID      string    `json:"bankId"`
	Subject     string    `json:"subject"`
	Grade       string    `json:"grade"`
	Result      Result    `json:"result"`
	CompletedAt time.Time `json:"completedAt"`
}
