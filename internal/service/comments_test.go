package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"goblog/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCommentService_AddComment(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		req     CreateCommentRequest
		setup   func(comments *MockCommentStorage, posts *MockPostStorage)
		wantErr error
	}{
		{
			name:    "unauthenticated persists nothing",
			req:     CreateCommentRequest{PostID: 1, Body: "hi"},
			setup:   func(_ *MockCommentStorage, _ *MockPostStorage) {},
			wantErr: ErrAuthRequired,
		},
		{
			name:    "empty body",
			req:     CreateCommentRequest{PostID: 1, UserID: 2},
			setup:   func(_ *MockCommentStorage, _ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "post does not exist",
			req:  CreateCommentRequest{PostID: 1, UserID: 2, Body: "hi"},
			setup: func(_ *MockCommentStorage, posts *MockPostStorage) {
				posts.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(model.Post{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "success",
			req:  CreateCommentRequest{PostID: 1, UserID: 2, Body: "hi"},
			setup: func(comments *MockCommentStorage, posts *MockPostStorage) {
				posts.EXPECT().GetPostByID(gomock.Any(), int64(1)).Return(model.Post{ID: 1}, nil)
				comments.EXPECT().
					CreateComment(gomock.Any(), model.Comment{PostID: 1, UserID: 2, Body: "hi"}).
					Return(model.Comment{ID: 5, PostID: 1, UserID: 2, Body: "hi", CreatedAt: now}, nil)
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			comments := NewMockCommentStorage(ctrl)
			posts := NewMockPostStorage(ctrl)
			tt.setup(comments, posts)

			svc := NewCommentService(comments, posts)
			got, err := svc.AddComment(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, int64(5), got.ID)
			require.WithinDuration(t, now, got.CreatedAt, time.Second)
		})
	}
}

func TestCommentService_GetCommentsByPost(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	comments := NewMockCommentStorage(ctrl)
	posts := NewMockPostStorage(ctrl)

	svc := NewCommentService(comments, posts)

	_, err := svc.GetCommentsByPost(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidRequest)

	want := []model.Comment{{ID: 2, PostID: 1}, {ID: 1, PostID: 1}}
	comments.EXPECT().GetCommentsByPost(gomock.Any(), int64(1)).Return(want, nil)

	got, err := svc.GetCommentsByPost(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCommentService_GetCommentsByPost_StorageError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	comments := NewMockCommentStorage(ctrl)
	posts := NewMockPostStorage(ctrl)

	comments.EXPECT().GetCommentsByPost(gomock.Any(), int64(7)).Return(nil, errors.New("db fail"))

	svc := NewCommentService(comments, posts)
	_, err := svc.GetCommentsByPost(context.Background(), 7)
	require.Error(t, err)
}
