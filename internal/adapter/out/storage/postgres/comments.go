package postgres

import (
	"context"
	"fmt"

	"goblog/internal/model"
	"goblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentStorage struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewCommentStorage(pool *pgxpool.Pool, getter *trmpgx.CtxGetter) *CommentStorage {
	return &CommentStorage{
		pool:   pool,
		getter: getter,
	}
}

func commentColumns() []string {
	return []string{
		"c." + tableinfo.CommentIDColumn,
		"c." + tableinfo.CommentPostIDColumn,
		"c." + tableinfo.CommentUserIDColumn,
		"u." + tableinfo.UserUsernameColumn,
		"c." + tableinfo.CommentBodyColumn,
		"c." + tableinfo.CommentCreatedAtColumn,
	}
}

func (s *CommentStorage) CreateComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	query, args, err := sq.
		Insert(tableinfo.CommentsTableName).
		Columns(
			tableinfo.CommentPostIDColumn,
			tableinfo.CommentUserIDColumn,
			tableinfo.CommentBodyColumn,
		).
		Values(comment.PostID, comment.UserID, comment.Body).
		Suffix(fmt.Sprintf("RETURNING %s, %s",
			tableinfo.CommentIDColumn,
			tableinfo.CommentCreatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	out := comment
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.CreatedAt); err != nil {
		return model.Comment{}, fmt.Errorf("exec error creating comment: %w", err)
	}
	return out, nil
}

// GetCommentsByPost returns the post's comments newest first.
func (s *CommentStorage) GetCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	query, args, err := sq.
		Select(commentColumns()...).
		From(tableinfo.CommentsTableName + " c").
		Join(fmt.Sprintf("%s u ON u.%s = c.%s",
			tableinfo.UsersTableName, tableinfo.UserIDColumn, tableinfo.CommentUserIDColumn)).
		Where(sq.Eq{"c." + tableinfo.CommentPostIDColumn: postID}).
		OrderBy(
			"c."+tableinfo.CommentCreatedAtColumn+" DESC",
			"c."+tableinfo.CommentIDColumn+" DESC",
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error selecting comments: %w", err)
	}
	defer rows.Close()

	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.UserID,
			&c.Author,
			&c.Body,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *CommentStorage) DeleteCommentsByPost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Delete(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentPostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	if _, err := tr.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec delete comments: %w", err)
	}
	return nil
}
