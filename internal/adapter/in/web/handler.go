package web

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"goblog/internal/model"
	"goblog/internal/service"
	"goblog/pkg/pagination"

	"github.com/gorilla/mux"
)

type PostService interface {
	CreatePost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	ListPosts(ctx context.Context, req service.ListPostsRequest) (pagination.Page[model.Post], error)
	UpdatePost(ctx context.Context, req service.UpdatePostRequest) (model.Post, error)
	DeletePost(ctx context.Context, postID, userID int64) error
	ListTags(ctx context.Context) ([]model.Tag, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type CommentService interface {
	AddComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error)
	GetCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}

type UserService interface {
	Register(ctx context.Context, req service.RegisterRequest) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.User, error)
}

type SessionService interface {
	CreateSession(ctx context.Context, userID int64) (model.Session, error)
	CurrentUser(ctx context.Context, token string) (model.User, error)
	DeleteSession(ctx context.Context, token string) error
}

type Handler struct {
	posts     PostService
	comments  CommentService
	users     UserService
	sessions  SessionService
	templates map[string]*template.Template
	log       *slog.Logger
}

func NewHandler(posts PostService, comments CommentService, users UserService, sessions SessionService, log *slog.Logger) (*Handler, error) {
	templates, err := newTemplateCache()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		posts:     posts,
		comments:  comments,
		users:     users,
		sessions:  sessions,
		templates: templates,
		log:       log,
	}, nil
}

func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequest)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/", h.home).Methods(http.MethodGet)

	r.HandleFunc("/post/create", h.requireAuth(h.createPost)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/post/{id:[0-9]+}", h.postDetail).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/post/{id:[0-9]+}/edit", h.requireAuth(h.editPost)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/post/{id:[0-9]+}/delete", h.requireAuth(h.deletePost)).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/register", h.requireGuest(h.register)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login", h.requireGuest(h.login)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", h.requireAuth(h.logout)).Methods(http.MethodPost)

	return r
}
