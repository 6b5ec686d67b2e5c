package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"goblog/internal/adapter/out/storage"
	"goblog/internal/model"
	"goblog/internal/service"
	"goblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBuildingQuery = errors.New("error building sql-query")

type PostStorage struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewPostStorage(pool *pgxpool.Pool, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{
		pool:   pool,
		getter: getter,
	}
}

// postColumns are the select columns of the posts-joined-users shape
// every read in this file returns.
func postColumns() []string {
	return []string{
		"p." + tableinfo.PostIDColumn,
		"p." + tableinfo.PostTitleColumn,
		"p." + tableinfo.PostContentColumn,
		"p." + tableinfo.PostTagsColumn,
		"p." + tableinfo.PostUserIDColumn,
		"u." + tableinfo.UserUsernameColumn,
		"p." + tableinfo.PostCreatedAtColumn,
	}
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Tags,
		&p.UserID,
		&p.Author,
		&p.CreatedAt,
	)
	return p, err
}

func (s *PostStorage) CreatePost(ctx context.Context, post model.Post) (model.Post, error) {
	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTitleColumn,
			tableinfo.PostContentColumn,
			tableinfo.PostTagsColumn,
			tableinfo.PostUserIDColumn,
		).
		Values(post.Title, post.Content, post.Tags, post.UserID).
		Suffix(fmt.Sprintf("RETURNING %s", tableinfo.PostIDColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	var postID int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&postID); err != nil {
		return model.Post{}, fmt.Errorf("exec error creating post: %w", err)
	}

	if err := s.associateTags(ctx, postID, model.Post{Tags: post.Tags}.TagList()); err != nil {
		return model.Post{}, err
	}
	return s.GetPostByID(ctx, postID)
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	query, args, err := sq.
		Select(postColumns()...).
		From(tableinfo.PostsTableName + " p").
		Join(fmt.Sprintf("%s u ON u.%s = p.%s",
			tableinfo.UsersTableName, tableinfo.UserIDColumn, tableinfo.PostUserIDColumn)).
		Where(sq.Eq{"p." + tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	post, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec select post by id: %w", err)
	}
	return post, nil
}

func (s *PostStorage) GetPostAuthorID(ctx context.Context, postID int64) (int64, error) {
	query, args, err := sq.
		Select(tableinfo.PostUserIDColumn).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	var authorID int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrNotFound
		}
		return 0, fmt.Errorf("exec select author_id: %w", err)
	}
	return authorID, nil
}

// searchPostsBuilder applies the listing filters: the search text is an
// OR-match over title, author username, content and tags, and the tag
// filter narrows whatever the search produced. Both are literal
// case-insensitive substring matches, the tag against the post's
// free-text tag list.
func searchPostsBuilder(builder sq.SelectBuilder, params storage.SearchPostsParams) sq.SelectBuilder {
	builder = builder.
		From(tableinfo.PostsTableName + " p").
		Join(fmt.Sprintf("%s u ON u.%s = p.%s",
			tableinfo.UsersTableName, tableinfo.UserIDColumn, tableinfo.PostUserIDColumn))

	if params.SearchText != "" {
		pattern := likePattern(params.SearchText)
		builder = builder.Where(sq.Or{
			sq.ILike{"p." + tableinfo.PostTitleColumn: pattern},
			sq.ILike{"u." + tableinfo.UserUsernameColumn: pattern},
			sq.ILike{"p." + tableinfo.PostContentColumn: pattern},
			sq.ILike{"p." + tableinfo.PostTagsColumn: pattern},
		})
	}
	if params.Tag != "" {
		builder = builder.Where(sq.ILike{"p." + tableinfo.PostTagsColumn: likePattern(params.Tag)})
	}
	return builder
}

func (s *PostStorage) SearchPosts(ctx context.Context, params storage.SearchPostsParams) ([]model.Post, error) {
	builder := searchPostsBuilder(sq.Select(postColumns()...).Distinct(), params).
		OrderBy(
			"p."+tableinfo.PostCreatedAtColumn+" DESC",
			"p."+tableinfo.PostIDColumn+" DESC",
		)
	if params.Limit > 0 {
		builder = builder.Limit(uint64(params.Limit))
	}
	if params.Offset > 0 {
		builder = builder.Offset(uint64(params.Offset))
	}

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error searching posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0, params.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *PostStorage) CountPosts(ctx context.Context, params storage.SearchPostsParams) (int, error) {
	countColumn := fmt.Sprintf("COUNT(DISTINCT p.%s)", tableinfo.PostIDColumn)
	query, args, err := searchPostsBuilder(sq.Select(countColumn), params).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	var total int
	if err := tr.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("exec count posts: %w", err)
	}
	return total, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, post model.Post) (model.Post, error) {
	query, args, err := sq.
		Update(tableinfo.PostsTableName).
		Set(tableinfo.PostTitleColumn, post.Title).
		Set(tableinfo.PostContentColumn, post.Content).
		Set(tableinfo.PostTagsColumn, post.Tags).
		Where(sq.Eq{tableinfo.PostIDColumn: post.ID}).
		Suffix(fmt.Sprintf("RETURNING %s", tableinfo.PostIDColumn)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	var postID int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&postID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec update post: %w", err)
	}

	if err := s.associateTags(ctx, postID, model.Post{Tags: post.Tags}.TagList()); err != nil {
		return model.Post{}, err
	}
	return s.GetPostByID(ctx, postID)
}

func (s *PostStorage) DeletePost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Delete(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *PostStorage) ListTags(ctx context.Context) ([]model.Tag, error) {
	query, args, err := sq.
		Select(tableinfo.TagIDColumn, tableinfo.TagNameColumn).
		From(tableinfo.TagsTableName).
		OrderBy(tableinfo.TagNameColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select tags: %w", err)
	}
	defer rows.Close()

	var out []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *PostStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	query, args, err := sq.
		Select(tableinfo.CategoryIDColumn, tableinfo.CategoryNameColumn, tableinfo.CategorySlugColumn).
		From(tableinfo.CategoriesTableName).
		OrderBy(tableinfo.CategoryNameColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// associateTags rebuilds the post_tags association from the post's tag
// list, upserting tag rows as needed.
func (s *PostStorage) associateTags(ctx context.Context, postID int64, names []string) error {
	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	query, args, err := sq.
		Delete(tableinfo.PostTagsTableName).
		Where(sq.Eq{tableinfo.PostTagPostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}
	if _, err := tr.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec delete post tags: %w", err)
	}

	for _, name := range names {
		query, args, err := sq.
			Insert(tableinfo.TagsTableName).
			Columns(tableinfo.TagNameColumn).
			Values(name).
			Suffix(fmt.Sprintf("ON CONFLICT ((lower(%s))) DO UPDATE SET %s = %s.%s RETURNING %s",
				tableinfo.TagNameColumn,
				tableinfo.TagNameColumn, tableinfo.TagsTableName, tableinfo.TagNameColumn,
				tableinfo.TagIDColumn)).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}

		var tagID int64
		if err := tr.QueryRow(ctx, query, args...).Scan(&tagID); err != nil {
			return fmt.Errorf("exec upsert tag %q: %w", name, err)
		}

		query, args, err = sq.
			Insert(tableinfo.PostTagsTableName).
			Columns(tableinfo.PostTagPostIDColumn, tableinfo.PostTagTagIDColumn).
			Values(postID, tagID).
			Suffix("ON CONFLICT DO NOTHING").
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}
		if _, err := tr.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("exec insert post tag: %w", err)
		}
	}
	return nil
}

// likePattern escapes LIKE metacharacters and wraps the term for
// substring matching.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}
