package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"olympiad-service/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(map[string]domain.Bank{
			"math-3": sampleBank(),
		}),
	}
	repo := NewBankRepository(loader, time.Minute)

	if _, err := repo.GetBank(context.Background(), "math-3"); err != nil {
		t.Fatalf("get bank: %v", err)
	}
	bank, err := repo.GetBank(context.Background(), "math-3")
	if err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if bank.MaxScore() != 5 {
		t.Fatalf("unexpected bank: %+v", bank)
	}
}

func TestBankRepositoryExpires(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(map[string]domain.Bank{"math-3": sampleBank()})}
	repo := NewBankRepository(loader, time.Minute)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetBank(context.Background(), "math-3")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetBank(context.Background(), "math-3")
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}

	repo.Invalidate("math-3")
	_, _ = repo.GetBank(context.Background(), "math-3")
	if loader.count() != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.count())
	}
}

func TestBankRepositoryRejectsInvalidBank(t *testing.T) {
	broken := sampleBank()
	broken.Questions[0].CorrectOption = 7
	loader := &countingLoader{BankLoader: NewStaticBankLoader(map[string]domain.Bank{"broken": broken})}
	repo := NewBankRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := repo.GetBank(context.Background(), "broken"); !errors.Is(err, domain.ErrInvalidBank) {
			t.Fatalf("expected ErrInvalidBank, got %v", err)
		}
	}
	if loader.count() != 2 {
		t.Fatalf("invalid banks must not be cached, loader calls %d", loader.count())
	}
}

func TestBankRepositoryNotFound(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(nil), time.Minute)
	if _, err := repo.GetBank(context.Background(), "nope"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.BankLoader.LoadBank(ctx, bankID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleBank() domain.Bank {
	return domain.Bank{
		ID:              "math-3",
		Subject:         "math",
		Grade:           "3",
		DurationSeconds: 600,
		Questions: []domain.Question{
			{ID: 1, Prompt: "47 + 28?", Options: []string{"73", "75", "77"}, CorrectOption: 1, Points: 3},
			{ID: 2, Prompt: "64 / 8?", Options: []string{"6", "8"}, CorrectOption: 1, Points: 2},
		},
	}
}
