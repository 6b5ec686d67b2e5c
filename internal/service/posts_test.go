package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"goblog/internal/adapter/out/storage"
	"goblog/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		req     CreatePostRequest
		setup   func(m *MockPostStorage)
		wantErr error
	}{
		{
			name:    "unauthenticated",
			req:     CreatePostRequest{Title: "t", Content: "c"},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrAuthRequired,
		},
		{
			name:    "validation error",
			req:     CreatePostRequest{UserID: 7},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "storage error",
			req:  CreatePostRequest{UserID: 7, Title: "t", Content: "c"},
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					CreatePost(gomock.Any(), model.Post{UserID: 7, Title: "t", Content: "c"}).
					Return(model.Post{}, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
		{
			name: "success normalizes tags",
			req:  CreatePostRequest{UserID: 7, Title: " t ", Content: "c", Tags: " go ,, web "},
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					CreatePost(gomock.Any(), model.Post{UserID: 7, Title: "t", Content: "c", Tags: "go, web"}).
					Return(model.Post{ID: 10, UserID: 7, Title: "t", Content: "c", Tags: "go, web", CreatedAt: now}, nil)
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockPostStorage(ctrl)
			tt.setup(m)

			svc := NewPostService(m, NewMockCommentStorage(ctrl), NewMockTxManager(ctrl))
			got, err := svc.CreatePost(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidRequest) || errors.Is(tt.wantErr, ErrAuthRequired) {
					require.ErrorIs(t, err, tt.wantErr)
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, int64(10), got.ID)
			require.Equal(t, "go, web", got.Tags)
		})
	}
}

func TestPostService_ListPosts(t *testing.T) {
	t.Parallel()

	posts := func(ids ...int64) []model.Post {
		out := make([]model.Post, 0, len(ids))
		for _, id := range ids {
			out = append(out, model.Post{ID: id})
		}
		return out
	}

	tests := []struct {
		name      string
		req       ListPostsRequest
		setup     func(m *MockPostStorage)
		wantIDs   []int64
		wantPage  int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{
			name: "first page of seven",
			req:  ListPostsRequest{Page: 1},
			setup: func(m *MockPostStorage) {
				m.EXPECT().CountPosts(gomock.Any(), storage.SearchPostsParams{}).Return(7, nil)
				m.EXPECT().
					SearchPosts(gomock.Any(), storage.SearchPostsParams{Limit: 3, Offset: 0}).
					Return(posts(7, 6, 5), nil)
			},
			wantIDs: []int64{7, 6, 5}, wantPage: 1, wantPages: 3, wantNext: true, wantPrev: false,
		},
		{
			name: "last page is partial",
			req:  ListPostsRequest{Page: 3},
			setup: func(m *MockPostStorage) {
				m.EXPECT().CountPosts(gomock.Any(), storage.SearchPostsParams{}).Return(7, nil)
				m.EXPECT().
					SearchPosts(gomock.Any(), storage.SearchPostsParams{Limit: 3, Offset: 6}).
					Return(posts(1), nil)
			},
			wantIDs: []int64{1}, wantPage: 3, wantPages: 3, wantNext: false, wantPrev: true,
		},
		{
			name: "page beyond the end clamps to last",
			req:  ListPostsRequest{Page: 42},
			setup: func(m *MockPostStorage) {
				m.EXPECT().CountPosts(gomock.Any(), storage.SearchPostsParams{}).Return(7, nil)
				m.EXPECT().
					SearchPosts(gomock.Any(), storage.SearchPostsParams{Limit: 3, Offset: 6}).
					Return(posts(1), nil)
			},
			wantIDs: []int64{1}, wantPage: 3, wantPages: 3, wantNext: false, wantPrev: true,
		},
		{
			name: "page zero clamps to first",
			req:  ListPostsRequest{Page: 0},
			setup: func(m *MockPostStorage) {
				m.EXPECT().CountPosts(gomock.Any(), storage.SearchPostsParams{}).Return(7, nil)
				m.EXPECT().
					SearchPosts(gomock.Any(), storage.SearchPostsParams{Limit: 3, Offset: 0}).
					Return(posts(7, 6, 5), nil)
			},
			wantIDs: []int64{7, 6, 5}, wantPage: 1, wantPages: 3, wantNext: true, wantPrev: false,
		},
		{
			name: "filters are trimmed and passed through",
			req:  ListPostsRequest{SearchText: " django ", Tag: " web ", Page: 1},
			setup: func(m *MockPostStorage) {
				params := storage.SearchPostsParams{SearchText: "django", Tag: "web"}
				m.EXPECT().CountPosts(gomock.Any(), params).Return(1, nil)
				params.Limit = 3
				m.EXPECT().SearchPosts(gomock.Any(), params).Return(posts(4), nil)
			},
			wantIDs: []int64{4}, wantPage: 1, wantPages: 1, wantNext: false, wantPrev: false,
		},
		{
			name: "empty result set stays on page one",
			req:  ListPostsRequest{Page: 9},
			setup: func(m *MockPostStorage) {
				m.EXPECT().CountPosts(gomock.Any(), storage.SearchPostsParams{}).Return(0, nil)
			},
			wantIDs: nil, wantPage: 1, wantPages: 1, wantNext: false, wantPrev: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockPostStorage(ctrl)
			tt.setup(m)

			svc := NewPostService(m, NewMockCommentStorage(ctrl), NewMockTxManager(ctrl))
			page, err := svc.ListPosts(context.Background(), tt.req)
			require.NoError(t, err)

			gotIDs := make([]int64, 0, len(page.Items))
			for _, p := range page.Items {
				gotIDs = append(gotIDs, p.ID)
			}
			if tt.wantIDs == nil {
				require.Empty(t, gotIDs)
			} else {
				require.Equal(t, tt.wantIDs, gotIDs)
			}
			require.Equal(t, tt.wantPage, page.Number)
			require.Equal(t, tt.wantPages, page.TotalPages)
			require.Equal(t, tt.wantNext, page.HasNext)
			require.Equal(t, tt.wantPrev, page.HasPrevious)
		})
	}
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     UpdatePostRequest
		setup   func(m *MockPostStorage)
		wantErr error
	}{
		{
			name:    "validation error",
			req:     UpdatePostRequest{PostID: 1, UserID: 2},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "post not found",
			req:  UpdatePostRequest{PostID: 1, UserID: 2, Title: "t", Content: "c"},
			setup: func(m *MockPostStorage) {
				m.EXPECT().GetPostAuthorID(gomock.Any(), int64(1)).Return(int64(0), ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "not the author",
			req:  UpdatePostRequest{PostID: 1, UserID: 2, Title: "t", Content: "c"},
			setup: func(m *MockPostStorage) {
				m.EXPECT().GetPostAuthorID(gomock.Any(), int64(1)).Return(int64(9), nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name: "success",
			req:  UpdatePostRequest{PostID: 1, UserID: 2, Title: "t", Content: "c", Tags: "go"},
			setup: func(m *MockPostStorage) {
				m.EXPECT().GetPostAuthorID(gomock.Any(), int64(1)).Return(int64(2), nil)
				m.EXPECT().
					UpdatePost(gomock.Any(), model.Post{ID: 1, UserID: 2, Title: "t", Content: "c", Tags: "go"}).
					Return(model.Post{ID: 1, UserID: 2, Title: "t", Content: "c", Tags: "go"}, nil)
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockPostStorage(ctrl)
			tt.setup(m)

			svc := NewPostService(m, NewMockCommentStorage(ctrl), NewMockTxManager(ctrl))
			_, err := svc.UpdatePost(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		postID  int64
		userID  int64
		setup   func(posts *MockPostStorage, comments *MockCommentStorage, tx *MockTxManager)
		wantErr error
	}{
		{
			name:   "invalid ids",
			postID: 0, userID: 0,
			setup:   func(_ *MockPostStorage, _ *MockCommentStorage, _ *MockTxManager) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:   "not the author",
			postID: 3, userID: 2,
			setup: func(posts *MockPostStorage, _ *MockCommentStorage, _ *MockTxManager) {
				posts.EXPECT().GetPostAuthorID(gomock.Any(), int64(3)).Return(int64(9), nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:   "comments and post removed in one unit",
			postID: 3, userID: 9,
			setup: func(posts *MockPostStorage, comments *MockCommentStorage, tx *MockTxManager) {
				posts.EXPECT().GetPostAuthorID(gomock.Any(), int64(3)).Return(int64(9), nil)
				tx.EXPECT().
					Do(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
						return fn(ctx)
					})
				comments.EXPECT().DeleteCommentsByPost(gomock.Any(), int64(3)).Return(nil)
				posts.EXPECT().DeletePost(gomock.Any(), int64(3)).Return(nil)
			},
			wantErr: nil,
		},
		{
			name:   "post left intact when comment delete fails",
			postID: 3, userID: 9,
			setup: func(posts *MockPostStorage, comments *MockCommentStorage, tx *MockTxManager) {
				posts.EXPECT().GetPostAuthorID(gomock.Any(), int64(3)).Return(int64(9), nil)
				tx.EXPECT().
					Do(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
						return fn(ctx)
					})
				comments.EXPECT().DeleteCommentsByPost(gomock.Any(), int64(3)).Return(errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			posts := NewMockPostStorage(ctrl)
			comments := NewMockCommentStorage(ctrl)
			tx := NewMockTxManager(ctrl)
			tt.setup(posts, comments, tx)

			svc := NewPostService(posts, comments, tx)
			err := svc.DeletePost(context.Background(), tt.postID, tt.userID)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidRequest) || errors.Is(tt.wantErr, ErrForbidden) {
					require.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
		})
	}
}
