package memory

import (
	"context"
	"log"
	"sync"

	"olympiad-service/internal/domain"
)

// DefaultRecordLimit bounds how many results a recorder keeps.
const DefaultRecordLimit = 256

// ResultRecorder keeps the most recent published results in process. It
// stands in for the external profile store when Redis is not configured.
type ResultRecorder struct {
	mu      sync.Mutex
	limit   int
	records []domain.ResultRecord
	notify  chan domain.ResultRecord
}

func NewResultRecorder() *ResultRecorder {
	return NewBoundedResultRecorder(DefaultRecordLimit)
}

// NewBoundedResultRecorder keeps at most limit records, dropping the oldest.
func NewBoundedResultRecorder(limit int) *ResultRecorder {
	if limit < 1 {
		limit = 1
	}
	return &ResultRecorder{limit: limit, notify: make(chan domain.ResultRecord, 16)}
}

func (r *ResultRecorder) Publish(_ context.Context, record domain.ResultRecord) error {
	r.mu.Lock()
	if len(r.records) >= r.limit {
		dropped := r.records[0]
		copy(r.records, r.records[1:])
		r.records = r.records[:len(r.records)-1]
		log.Printf("result recorder full, dropping attempt %s", dropped.AttemptID)
	}
	r.records = append(r.records, record)
	r.mu.Unlock()

	select {
	case r.notify <- record:
	default:
	}
	return nil
}

// Records returns a copy of the retained records, oldest first.
func (r *ResultRecorder) Records() []domain.ResultRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ResultRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Published delivers records as they arrive; best effort, buffered.
func (r *ResultRecorder) Published() <-chan domain.ResultRecord {
	return r.notify
}
