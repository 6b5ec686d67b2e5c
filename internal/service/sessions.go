package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goblog/internal/model"
	"goblog/pkg/logger"

	"github.com/google/uuid"
)

// SessionTTL bounds how long a login stays valid.
const SessionTTL = 24 * time.Hour

//go:generate mockgen -source=sessions.go -destination=./session_storage_mock.go -package=service goblog/internal/service SessionStorage
type SessionStorage interface {
	CreateSession(ctx context.Context, session model.Session) error
	GetSession(ctx context.Context, token string) (model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type SessionService struct {
	sessionStorage SessionStorage
	userStorage    UserStorage
	now            func() time.Time
}

func NewSessionService(sessionStorage SessionStorage, userStorage UserStorage) *SessionService {
	return &SessionService{
		sessionStorage: sessionStorage,
		userStorage:    userStorage,
		now:            time.Now,
	}
}

// CreateSession logs the user in, replacing any previous sessions.
func (s *SessionService) CreateSession(ctx context.Context, userID int64) (model.Session, error) {
	if userID <= 0 {
		return model.Session{}, fmt.Errorf("userID must be > 0: %w", ErrInvalidRequest)
	}
	if err := s.sessionStorage.DeleteUserSessions(ctx, userID); err != nil {
		return model.Session{}, fmt.Errorf("removing previous sessions: %w", err)
	}

	now := s.now()
	session := model.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}
	if err := s.sessionStorage.CreateSession(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// CurrentUser resolves a session token to its user. Expired sessions
// count as absent and are removed on sight.
func (s *SessionService) CurrentUser(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, ErrNotFound
	}
	session, err := s.sessionStorage.GetSession(ctx, token)
	if err != nil {
		return model.User{}, err
	}
	if session.Expired(s.now()) {
		if err := s.sessionStorage.DeleteSession(ctx, token); err != nil {
			logger.FromContext(ctx).Warn("failed to delete expired session", "error", err)
		}
		return model.User{}, ErrNotFound
	}
	return s.userStorage.GetUserByID(ctx, session.UserID)
}

func (s *SessionService) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidRequest
	}
	err := s.sessionStorage.DeleteSession(ctx, token)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// CleanupExpired purges stale sessions; called once at startup.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.sessionStorage.DeleteExpiredSessions(ctx, s.now())
}
