package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goblog/internal/model"
	"goblog/internal/service"
	"goblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionStorage struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSessionStorage(pool *pgxpool.Pool, getter *trmpgx.CtxGetter) *SessionStorage {
	return &SessionStorage{
		pool:   pool,
		getter: getter,
	}
}

func (s *SessionStorage) CreateSession(ctx context.Context, session model.Session) error {
	query, args, err := sq.
		Insert(tableinfo.SessionsTableName).
		Columns(
			tableinfo.SessionTokenColumn,
			tableinfo.SessionUserIDColumn,
			tableinfo.SessionExpiresAtColumn,
			tableinfo.SessionCreatedAtColumn,
		).
		Values(session.Token, session.UserID, session.ExpiresAt, session.CreatedAt).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	if _, err := tr.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error creating session: %w", err)
	}
	return nil
}

func (s *SessionStorage) GetSession(ctx context.Context, token string) (model.Session, error) {
	query, args, err := sq.
		Select(
			tableinfo.SessionTokenColumn,
			tableinfo.SessionUserIDColumn,
			tableinfo.SessionExpiresAtColumn,
			tableinfo.SessionCreatedAtColumn,
		).
		From(tableinfo.SessionsTableName).
		Where(sq.Eq{tableinfo.SessionTokenColumn: token}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	var out model.Session
	if err := tr.QueryRow(ctx, query, args...).Scan(
		&out.Token,
		&out.UserID,
		&out.ExpiresAt,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, service.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("exec select session: %w", err)
	}
	return out, nil
}

func (s *SessionStorage) DeleteSession(ctx context.Context, token string) error {
	query, args, err := sq.
		Delete(tableinfo.SessionsTableName).
		Where(sq.Eq{tableinfo.SessionTokenColumn: token}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (s *SessionStorage) DeleteUserSessions(ctx context.Context, userID int64) error {
	query, args, err := sq.
		Delete(tableinfo.SessionsTableName).
		Where(sq.Eq{tableinfo.SessionUserIDColumn: userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	if _, err := tr.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec delete user sessions: %w", err)
	}
	return nil
}

func (s *SessionStorage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := sq.
		Delete(tableinfo.SessionsTableName).
		Where(sq.LtOrEq{tableinfo.SessionExpiresAtColumn: now}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
