package service

import (
	"context"
	"fmt"

	"goblog/internal/model"

	"github.com/go-playground/validator/v10"
)

//go:generate mockgen -source=comments.go -destination=./comment_storage_mock.go -package=service goblog/internal/service CommentStorage
type CommentStorage interface {
	CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	GetCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	DeleteCommentsByPost(ctx context.Context, postID int64) error
}

type CommentService struct {
	commentStorage CommentStorage
	postStorage    PostStorage
}

func NewCommentService(commentStorage CommentStorage, postStorage PostStorage) *CommentService {
	return &CommentService{
		commentStorage: commentStorage,
		postStorage:    postStorage,
	}
}

// AddComment creates a comment on an existing post. An unauthenticated
// caller (zero UserID) is rejected before anything is persisted.
func (s *CommentService) AddComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error) {
	if req.UserID <= 0 {
		return model.Comment{}, fmt.Errorf("%w: commenting", ErrAuthRequired)
	}
	if err := validator.New().Struct(req); err != nil {
		return model.Comment{}, newValidationError(err)
	}
	if _, err := s.postStorage.GetPostByID(ctx, req.PostID); err != nil {
		return model.Comment{}, err
	}
	return s.commentStorage.CreateComment(ctx, model.Comment{
		PostID: req.PostID,
		UserID: req.UserID,
		Body:   req.Body,
	})
}

// GetCommentsByPost returns the post's comments newest first.
func (s *CommentService) GetCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.commentStorage.GetCommentsByPost(ctx, postID)
}
