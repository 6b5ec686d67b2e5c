package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"goblog/internal/adapter/out/storage"
	"goblog/internal/model"
	"goblog/internal/service"
)

var defaultCategories = []model.Category{
	{ID: 1, Name: "General", Slug: "general"},
	{ID: 2, Name: "Programming", Slug: "programming"},
	{ID: 3, Name: "Life", Slug: "life"},
}

type PostStorage struct {
	mu    sync.RWMutex
	seq   int64
	posts map[int64]model.Post
	order []int64

	tagSeq   int64
	tagIDs   map[string]int64
	tagNames map[int64]string
	postTags map[int64][]int64

	users *UserStorage
}

// NewPostStorage resolves author usernames through users, mirroring the
// join the SQL storage performs.
func NewPostStorage(users *UserStorage) *PostStorage {
	return &PostStorage{
		posts:    make(map[int64]model.Post),
		tagIDs:   make(map[string]int64),
		tagNames: make(map[int64]string),
		postTags: make(map[int64][]int64),
		users:    users,
	}
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	author, err := s.users.GetUserByID(ctx, in.UserID)
	if err != nil {
		return model.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	in.ID = s.seq
	in.Author = author.Username
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.posts[in.ID] = in
	s.order = append(s.order, in.ID)
	s.associateTags(in.ID, in.TagList())
	return in, nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if post, ok := s.posts[postID]; ok {
		return post, nil
	}
	return model.Post{}, service.ErrNotFound
}

func (s *PostStorage) GetPostAuthorID(_ context.Context, postID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[postID]
	if !ok {
		return 0, service.ErrNotFound
	}
	return post.UserID, nil
}

func (s *PostStorage) UpdatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.posts[in.ID]
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	current.Title = in.Title
	current.Content = in.Content
	current.Tags = in.Tags
	s.posts[in.ID] = current
	s.associateTags(in.ID, current.TagList())
	return current, nil
}

func (s *PostStorage) DeletePost(_ context.Context, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return service.ErrNotFound
	}
	delete(s.posts, postID)
	delete(s.postTags, postID)
	return nil
}

// SearchPosts walks posts newest first, applying the search text as an
// OR-match over title, author, content and tags, then the tag filter on
// top of whatever the search produced. Each post is visited once, so
// the result carries no duplicates by construction.
func (s *PostStorage) SearchPosts(_ context.Context, params storage.SearchPostsParams) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(params)
	if params.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[params.Offset:]
	if params.Limit > 0 && len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (s *PostStorage) CountPosts(_ context.Context, params storage.SearchPostsParams) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.match(params)), nil
}

func (s *PostStorage) match(params storage.SearchPostsParams) []model.Post {
	search := strings.ToLower(params.SearchText)
	tag := strings.ToLower(params.Tag)

	out := make([]model.Post, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		post, ok := s.posts[s.order[i]]
		if !ok {
			continue
		}
		if search != "" && !matchesSearch(post, search) {
			continue
		}
		if tag != "" && !strings.Contains(strings.ToLower(post.Tags), tag) {
			continue
		}
		out = append(out, post)
	}
	return out
}

func matchesSearch(post model.Post, search string) bool {
	return strings.Contains(strings.ToLower(post.Title), search) ||
		strings.Contains(strings.ToLower(post.Author), search) ||
		strings.Contains(strings.ToLower(post.Content), search) ||
		strings.Contains(strings.ToLower(post.Tags), search)
}

func (s *PostStorage) ListTags(_ context.Context) ([]model.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Tag, 0, len(s.tagNames))
	for id, name := range s.tagNames {
		out = append(out, model.Tag{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *PostStorage) ListCategories(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out, nil
}

// associateTags upserts tag rows for the post's labels. Callers hold mu.
func (s *PostStorage) associateTags(postID int64, names []string) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		id, ok := s.tagIDs[key]
		if !ok {
			s.tagSeq++
			id = s.tagSeq
			s.tagIDs[key] = id
			s.tagNames[id] = name
		}
		ids = append(ids, id)
	}
	s.postTags[postID] = ids
}
