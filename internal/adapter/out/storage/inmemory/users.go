package inmemory

import (
	"context"
	"strings"
	"sync"
	"time"

	"goblog/internal/model"
	"goblog/internal/service"
)

type UserStorage struct {
	mu         sync.RWMutex
	seq        int64
	byID       map[int64]model.User
	byUsername map[string]int64
	byEmail    map[string]int64
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		byID:       make(map[int64]model.User),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
	}
}

func (s *UserStorage) CreateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usernameKey := strings.ToLower(in.Username)
	emailKey := strings.ToLower(in.Email)

	if _, ok := s.byUsername[usernameKey]; ok {
		return model.User{}, service.ErrUsernameTaken
	}
	if _, ok := s.byEmail[emailKey]; ok {
		return model.User{}, service.ErrEmailTaken
	}

	s.seq++
	in.ID = s.seq
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.byID[in.ID] = in
	s.byUsername[usernameKey] = in.ID
	s.byEmail[emailKey] = in.ID
	return in, nil
}

func (s *UserStorage) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.byID[userID]; ok {
		return user, nil
	}
	return model.User{}, service.ErrNotFound
}

func (s *UserStorage) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.byUsername[strings.ToLower(username)]; ok {
		return s.byID[id], nil
	}
	return model.User{}, service.ErrNotFound
}
