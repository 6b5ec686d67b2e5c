package inmemory

import (
	"context"
	"sync"
	"time"

	"goblog/internal/model"
)

type CommentStorage struct {
	mu       sync.RWMutex
	seq      int64
	comments map[int64]model.Comment
	byPost   map[int64][]int64

	users *UserStorage
}

func NewCommentStorage(users *UserStorage) *CommentStorage {
	return &CommentStorage{
		comments: make(map[int64]model.Comment),
		byPost:   make(map[int64][]int64),
		users:    users,
	}
}

func (s *CommentStorage) CreateComment(ctx context.Context, in model.Comment) (model.Comment, error) {
	author, err := s.users.GetUserByID(ctx, in.UserID)
	if err != nil {
		return model.Comment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	in.ID = s.seq
	in.Author = author.Username
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.comments[in.ID] = in
	s.byPost[in.PostID] = append(s.byPost[in.PostID], in.ID)
	return in, nil
}

// GetCommentsByPost returns the post's comments newest first.
func (s *CommentStorage) GetCommentsByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPost[postID]
	if len(ids) == 0 {
		return nil, nil
	}

	out := make([]model.Comment, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, s.comments[ids[i]])
	}
	return out, nil
}

func (s *CommentStorage) DeleteCommentsByPost(_ context.Context, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byPost[postID] {
		delete(s.comments, id)
	}
	delete(s.byPost, postID)
	return nil
}
