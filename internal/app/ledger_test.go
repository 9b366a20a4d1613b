package app

import (
	"errors"
	"testing"

	"olympiad-service/internal/domain"
)

func TestLedgerStartsUnanswered(t *testing.T) {
	ledger := NewLedger(3)
	for i := 0; i < 3; i++ {
		if got := ledger.Get(i); got != domain.Unanswered {
			t.Fatalf("slot %d: expected unanswered, got %d", i, got)
		}
	}
	if ledger.AnsweredCount() != 0 {
		t.Fatalf("expected no answers")
	}
}

func TestLedgerSetOverwrites(t *testing.T) {
	ledger := NewLedger(3)
	if err := ledger.Set(1, 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ledger.Set(1, 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got := ledger.Get(1); got != 0 {
		t.Fatalf("expected overwritten value 0, got %d", got)
	}
	if ledger.AnsweredCount() != 1 {
		t.Fatalf("expected 1 answered, got %d", ledger.AnsweredCount())
	}

	snap := ledger.Snapshot()
	snap[1] = 3
	if ledger.Get(1) != 0 {
		t.Fatalf("snapshot must not alias the ledger")
	}
}

func TestLedgerRejectsOutOfRange(t *testing.T) {
	ledger := NewLedger(2)
	for _, idx := range []int{-1, 2} {
		if err := ledger.Set(idx, 0); !errors.Is(err, domain.ErrInvalidIndex) {
			t.Fatalf("Set(%d): expected ErrInvalidIndex, got %v", idx, err)
		}
	}
	if ledger.Len() != 2 {
		t.Fatalf("ledger must never resize")
	}
}

func TestCursorMoves(t *testing.T) {
	cursor := NewCursor(3)
	if cursor.Previous() {
		t.Fatalf("previous on first question must be a no-op")
	}
	if !cursor.Next() || !cursor.Next() {
		t.Fatalf("expected to advance twice")
	}
	if !cursor.IsLast() || cursor.Index() != 2 {
		t.Fatalf("expected cursor on last question, got %d", cursor.Index())
	}
	if cursor.Next() {
		t.Fatalf("next on last question must not move")
	}
	if cursor.Index() != 2 {
		t.Fatalf("cursor left range: %d", cursor.Index())
	}
	if err := cursor.JumpTo(0); err != nil || cursor.Index() != 0 {
		t.Fatalf("jump to 0 failed: %v", err)
	}
	if err := cursor.JumpTo(3); !errors.Is(err, domain.ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
	if cursor.Index() != 0 {
		t.Fatalf("rejected jump must not move the cursor")
	}
}
