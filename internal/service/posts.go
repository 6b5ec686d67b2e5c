package service

import (
	"context"
	"fmt"
	"strings"

	"goblog/internal/adapter/out/storage"
	"goblog/internal/model"
	"goblog/pkg/pagination"

	"github.com/go-playground/validator/v10"
)

// PostsPerPage is the fixed listing page size.
const PostsPerPage = 3

//go:generate mockgen -source=posts.go -destination=./post_storage_mock.go -package=service goblog/internal/service PostStorage
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	SearchPosts(ctx context.Context, params storage.SearchPostsParams) ([]model.Post, error)
	CountPosts(ctx context.Context, params storage.SearchPostsParams) (int, error)
	GetPostAuthorID(ctx context.Context, postID int64) (int64, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	ListTags(ctx context.Context) ([]model.Tag, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// TxManager runs fn inside one transaction. Satisfied by the
// go-transaction-manager manager for postgres, and by a no-op for the
// in-memory storage.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type PostService struct {
	postStorage    PostStorage
	commentStorage CommentStorage
	trManager      TxManager
}

func NewPostService(postStorage PostStorage, commentStorage CommentStorage, trManager TxManager) *PostService {
	return &PostService{
		postStorage:    postStorage,
		commentStorage: commentStorage,
		trManager:      trManager,
	}
}

func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	if req.UserID <= 0 {
		return model.Post{}, fmt.Errorf("%w: post creation", ErrAuthRequired)
	}
	if err := validator.New().Struct(req); err != nil {
		return model.Post{}, newValidationError(err)
	}
	return s.postStorage.CreatePost(ctx, model.Post{
		UserID:  req.UserID,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Tags:    normalizeTags(req.Tags),
	})
}

func (s *PostService) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.postStorage.GetPostByID(ctx, postID)
}

// ListPosts composes the home listing: optional search text OR-matched
// over title, author username, content and tags, optionally narrowed by
// tag, newest first, sliced into fixed-size pages. Out-of-range page
// numbers clamp instead of erroring.
func (s *PostService) ListPosts(ctx context.Context, req ListPostsRequest) (pagination.Page[model.Post], error) {
	var page pagination.Page[model.Post]

	params := storage.SearchPostsParams{
		SearchText: strings.TrimSpace(req.SearchText),
		Tag:        strings.TrimSpace(req.Tag),
	}

	total, err := s.postStorage.CountPosts(ctx, params)
	if err != nil {
		return page, fmt.Errorf("counting posts: %w", err)
	}

	page.Meta = pagination.New(req.Page, PostsPerPage, total)
	if total == 0 {
		return page, nil
	}

	params.Limit = page.Size
	params.Offset = page.Offset()
	page.Items, err = s.postStorage.SearchPosts(ctx, params)
	if err != nil {
		return page, fmt.Errorf("searching posts: %w", err)
	}
	return page, nil
}

func (s *PostService) UpdatePost(ctx context.Context, req UpdatePostRequest) (model.Post, error) {
	if err := validator.New().Struct(req); err != nil {
		return model.Post{}, newValidationError(err)
	}
	if err := s.requireOwner(ctx, req.PostID, req.UserID); err != nil {
		return model.Post{}, err
	}
	return s.postStorage.UpdatePost(ctx, model.Post{
		ID:      req.PostID,
		UserID:  req.UserID,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Tags:    normalizeTags(req.Tags),
	})
}

// DeletePost removes the post together with its comments as a single
// logical unit, so no orphaned comments outlive their post.
func (s *PostService) DeletePost(ctx context.Context, postID, userID int64) error {
	if postID <= 0 || userID <= 0 {
		return ErrInvalidRequest
	}
	if err := s.requireOwner(ctx, postID, userID); err != nil {
		return err
	}
	return s.trManager.Do(ctx, func(ctx context.Context) error {
		if err := s.commentStorage.DeleteCommentsByPost(ctx, postID); err != nil {
			return fmt.Errorf("deleting comments of post %d: %w", postID, err)
		}
		if err := s.postStorage.DeletePost(ctx, postID); err != nil {
			return fmt.Errorf("deleting post %d: %w", postID, err)
		}
		return nil
	})
}

// ListTags returns the label taxonomy for the listing sidebar.
func (s *PostService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.postStorage.ListTags(ctx)
}

func (s *PostService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.postStorage.ListCategories(ctx)
}

func (s *PostService) requireOwner(ctx context.Context, postID, userID int64) error {
	ownerID, err := s.postStorage.GetPostAuthorID(ctx, postID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return fmt.Errorf("%w: not the post author", ErrForbidden)
	}
	return nil
}

func normalizeTags(tags string) string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return strings.Join(out, ", ")
}
