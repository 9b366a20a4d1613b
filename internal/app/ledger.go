package app

import "olympiad-service/internal/domain"

// Ledger records the selected option per question position.
// Its length is fixed when created.
type Ledger struct {
	slots []int
}

func NewLedger(size int) *Ledger {
	slots := make([]int, size)
	for i := range slots {
		slots[i] = domain.Unanswered
	}
	return &Ledger{slots: slots}
}

// Set overwrites the slot at index. The option is not validated here.
func (l *Ledger) Set(index, option int) error {
	if index < 0 || index >= len(l.slots) {
		return domain.ErrInvalidIndex
	}
	l.slots[index] = option
	return nil
}

// Get returns domain.Unanswered for slots never set or out of range.
func (l *Ledger) Get(index int) int {
	if index < 0 || index >= len(l.slots) {
		return domain.Unanswered
	}
	return l.slots[index]
}

func (l *Ledger) Len() int { return len(l.slots) }

func (l *Ledger) AnsweredCount() int {
	n := 0
	for _, v := range l.slots {
		if v != domain.Unanswered {
			n++
		}
	}
	return n
}

// Snapshot copies the slots so callers cannot mutate the ledger.
func (l *Ledger) Snapshot() []int {
	out := make([]int, len(l.slots))
	copy(out, l.slots)
	return out
}
