package inmemory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"goblog/internal/adapter/out/storage"
	"goblog/internal/model"
	"goblog/internal/service"

	"github.com/stretchr/testify/require"
)

func newTestStorages(t *testing.T) (*PostStorage, *CommentStorage, *UserStorage) {
	t.Helper()
	users := NewUserStorage()
	return NewPostStorage(users), NewCommentStorage(users), users
}

func createTestUser(t *testing.T, users *UserStorage, username string) model.User {
	t.Helper()
	user, err := users.CreateUser(context.Background(), model.User{
		Username: username,
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return user
}

func TestPostStorage_CreateAndGetByID(t *testing.T) {
	t.Parallel()

	st, _, users := newTestStorages(t)
	author := createTestUser(t, users, "alice")

	out, err := st.CreatePost(context.Background(), model.Post{
		UserID:  author.ID,
		Title:   "first",
		Content: "hello",
		Tags:    "go, web",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), out.ID)
	require.Equal(t, "alice", out.Author)
	require.WithinDuration(t, time.Now(), out.CreatedAt, time.Second)

	got, err := st.GetPostByID(context.Background(), out.ID)
	require.NoError(t, err)
	require.Equal(t, out, got)
}

func TestPostStorage_CreatePost_UnknownAuthor(t *testing.T) {
	t.Parallel()

	st, _, _ := newTestStorages(t)

	_, err := st.CreatePost(context.Background(), model.Post{UserID: 99, Title: "t", Content: "c"})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_GetPostByID_NotFound(t *testing.T) {
	t.Parallel()

	st, _, _ := newTestStorages(t)

	_, err := st.GetPostByID(context.Background(), 10)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_SearchPosts(t *testing.T) {
	t.Parallel()

	st, _, users := newTestStorages(t)
	django := createTestUser(t, users, "djangofan")
	alice := createTestUser(t, users, "alice")

	ctx := context.Background()
	mustCreate := func(userID int64, title, content, tags string) model.Post {
		p, err := st.CreatePost(ctx, model.Post{UserID: userID, Title: title, Content: content, Tags: tags})
		require.NoError(t, err)
		return p
	}

	p1 := mustCreate(alice.ID, "Intro to Go", "A gentle start", "go, tutorial")
	p2 := mustCreate(alice.ID, "Why I like Django", "Django is pleasant", "python, django")
	p3 := mustCreate(django.ID, "Unrelated title", "Nothing to see", "misc")
	p4 := mustCreate(alice.ID, "Go web services", "Building with Django and Go", "go, web")

	ids := func(posts []model.Post) []int64 {
		out := make([]int64, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	tests := []struct {
		name    string
		params  storage.SearchPostsParams
		wantIDs []int64
	}{
		{
			name:    "no filters returns all newest first",
			params:  storage.SearchPostsParams{Limit: 10},
			wantIDs: []int64{p4.ID, p3.ID, p2.ID, p1.ID},
		},
		{
			name:    "search is case-insensitive over content",
			params:  storage.SearchPostsParams{SearchText: "django", Limit: 10},
			wantIDs: []int64{p4.ID, p3.ID, p2.ID},
		},
		{
			name:    "search matches author username",
			params:  storage.SearchPostsParams{SearchText: "djangofan", Limit: 10},
			wantIDs: []int64{p3.ID},
		},
		{
			name:    "multi-clause match yields the post once",
			params:  storage.SearchPostsParams{SearchText: "go", Limit: 10},
			wantIDs: []int64{p4.ID, p1.ID},
		},
		{
			name:    "tag narrows the search result",
			params:  storage.SearchPostsParams{SearchText: "django", Tag: "web", Limit: 10},
			wantIDs: []int64{p4.ID},
		},
		{
			name:    "tag alone narrows all posts",
			params:  storage.SearchPostsParams{Tag: "go", Limit: 10},
			wantIDs: []int64{p4.ID, p1.ID},
		},
		{
			name:    "tag matches by substring, not token",
			params:  storage.SearchPostsParams{Tag: "tuto", Limit: 10},
			wantIDs: []int64{p1.ID},
		},
		{
			name:    "offset and limit slice the ordered result",
			params:  storage.SearchPostsParams{Limit: 2, Offset: 1},
			wantIDs: []int64{p3.ID, p2.ID},
		},
		{
			name:    "offset past the end is empty",
			params:  storage.SearchPostsParams{Limit: 2, Offset: 10},
			wantIDs: nil,
		},
		{
			name:    "no match",
			params:  storage.SearchPostsParams{SearchText: "rust", Limit: 10},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.SearchPosts(ctx, tt.params)
			require.NoError(t, err)
			if tt.wantIDs == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.wantIDs, ids(got))

			seen := make(map[int64]bool)
			for _, p := range got {
				require.False(t, seen[p.ID], "duplicate post id %d", p.ID)
				seen[p.ID] = true
			}
		})
	}
}

func TestPostStorage_SearchPosts_Idempotent(t *testing.T) {
	t.Parallel()

	st, _, users := newTestStorages(t)
	author := createTestUser(t, users, "alice")

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := st.CreatePost(ctx, model.Post{
			UserID:  author.ID,
			Title:   fmt.Sprintf("post %d", i),
			Content: "body",
		})
		require.NoError(t, err)
	}

	params := storage.SearchPostsParams{Limit: 3, Offset: 3}
	first, err := st.SearchPosts(ctx, params)
	require.NoError(t, err)
	second, err := st.SearchPosts(ctx, params)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPostStorage_UpdatePost(t *testing.T) {
	t.Parallel()

	st, _, users := newTestStorages(t)
	author := createTestUser(t, users, "alice")

	ctx := context.Background()
	created, err := st.CreatePost(ctx, model.Post{UserID: author.ID, Title: "old", Content: "old", Tags: "go"})
	require.NoError(t, err)

	updated, err := st.UpdatePost(ctx, model.Post{ID: created.ID, Title: "new", Content: "new body", Tags: "go, web"})
	require.NoError(t, err)
	require.Equal(t, "new", updated.Title)
	require.Equal(t, "go, web", updated.Tags)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Equal(t, "alice", updated.Author)

	_, err = st.UpdatePost(ctx, model.Post{ID: 99, Title: "x", Content: "y"})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_ListTags(t *testing.T) {
	t.Parallel()

	st, _, users := newTestStorages(t)
	author := createTestUser(t, users, "alice")

	ctx := context.Background()
	_, err := st.CreatePost(ctx, model.Post{UserID: author.ID, Title: "a", Content: "b", Tags: "web, go"})
	require.NoError(t, err)
	_, err = st.CreatePost(ctx, model.Post{UserID: author.ID, Title: "c", Content: "d", Tags: "Go, python"})
	require.NoError(t, err)

	tags, err := st.ListTags(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	// "Go" reuses the "go" tag created first
	require.Equal(t, []string{"go", "python", "web"}, names)
}

func TestPostStorage_ListCategories(t *testing.T) {
	t.Parallel()

	st, _, _ := newTestStorages(t)

	categories, err := st.ListCategories(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, categories)
	for _, c := range categories {
		require.NotEmpty(t, c.Name)
		require.NotEmpty(t, c.Slug)
	}
}

func TestDeletePost_CascadeRemovesComments(t *testing.T) {
	t.Parallel()

	posts, comments, users := newTestStorages(t)
	author := createTestUser(t, users, "alice")
	commenter := createTestUser(t, users, "bob")

	ctx := context.Background()
	post, err := posts.CreatePost(ctx, model.Post{UserID: author.ID, Title: "t", Content: "c"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := comments.CreateComment(ctx, model.Comment{PostID: post.ID, UserID: commenter.ID, Body: "hi"})
		require.NoError(t, err)
	}

	svc := service.NewPostService(posts, comments, NewTxManager())
	require.NoError(t, svc.DeletePost(ctx, post.ID, author.ID))

	_, err = posts.GetPostByID(ctx, post.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	left, err := comments.GetCommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Empty(t, left)
}
