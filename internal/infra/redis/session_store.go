package redis

import (
	"context"
	"sync"
	"time"

	"olympiad-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Live sessions own a ticking clock, so they stay in the local map; Redis
// only carries a liveness marker per attempt that expires a grace period
// after the attempt's own deadline.
type SessionStore struct {
	client   *redis.Client
	grace    time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, grace time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		grace:    grace,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	ttl := time.Duration(session.RemainingTime().Seconds)*time.Second + s.grace
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.ID()), session.Bank().ID, ttl).Err()
}

func (s *SessionStore) Get(attemptID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[attemptID]
	return session, ok
}

func (s *SessionStore) Delete(attemptID string) {
	s.mu.Lock()
	delete(s.sessions, attemptID)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(attemptID)).Err()
}

func (s *SessionStore) key(attemptID string) string {
	return "olympiad:attempt:" + attemptID
}
