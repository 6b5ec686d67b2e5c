package inmemory

import (
	"context"
	"sync"
	"time"

	"goblog/internal/model"
	"goblog/internal/service"
)

type SessionStorage struct {
	mu      sync.RWMutex
	byToken map[string]model.Session
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{byToken: make(map[string]model.Session)}
}

func (s *SessionStorage) CreateSession(_ context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byToken[session.Token] = session
	return nil
}

func (s *SessionStorage) GetSession(_ context.Context, token string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if session, ok := s.byToken[token]; ok {
		return session, nil
	}
	return model.Session{}, service.ErrNotFound
}

func (s *SessionStorage) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byToken[token]; !ok {
		return service.ErrNotFound
	}
	delete(s.byToken, token)
	return nil
}

func (s *SessionStorage) DeleteUserSessions(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.byToken {
		if session.UserID == userID {
			delete(s.byToken, token)
		}
	}
	return nil
}

func (s *SessionStorage) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for token, session := range s.byToken {
		if session.Expired(now) {
			delete(s.byToken, token)
			removed++
		}
	}
	return removed, nil
}
