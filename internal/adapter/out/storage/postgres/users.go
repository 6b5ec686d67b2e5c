package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"goblog/internal/model"
	"goblog/internal/service"
	"goblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type UserStorage struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewUserStorage(pool *pgxpool.Pool, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{
		pool:   pool,
		getter: getter,
	}
}

func userColumns() []string {
	return []string{
		tableinfo.UserIDColumn,
		tableinfo.UserUsernameColumn,
		tableinfo.UserEmailColumn,
		tableinfo.UserPasswordHashColumn,
		tableinfo.UserCreatedAtColumn,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	return u, err
}

func (s *UserStorage) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserUsernameColumn,
			tableinfo.UserEmailColumn,
			tableinfo.UserPasswordHashColumn,
		).
		Values(user.Username, user.Email, user.PasswordHash).
		Suffix(fmt.Sprintf("RETURNING %s, %s",
			tableinfo.UserIDColumn,
			tableinfo.UserCreatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	out := user
	if err := tr.QueryRow(ctx, query, args...).Scan(&out.ID, &out.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			if strings.Contains(pgErr.ConstraintName, tableinfo.UserEmailColumn) {
				return model.User{}, service.ErrEmailTaken
			}
			return model.User{}, service.ErrUsernameTaken
		}
		return model.User{}, fmt.Errorf("exec error creating user: %w", err)
	}
	return out, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	query, args, err := sq.
		Select(userColumns()...).
		From(tableinfo.UsersTableName).
		Where(sq.Eq{tableinfo.UserIDColumn: userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	user, err := scanUser(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, service.ErrNotFound
		}
		return model.User{}, fmt.Errorf("exec select user by id: %w", err)
	}
	return user, nil
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	query, args, err := sq.
		Select(userColumns()...).
		From(tableinfo.UsersTableName).
		Where(sq.Expr(
			fmt.Sprintf("lower(%s) = lower(?)", tableinfo.UserUsernameColumn),
			username,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	user, err := scanUser(tr.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, service.ErrNotFound
		}
		return model.User{}, fmt.Errorf("exec select user by username: %w", err)
	}
	return user, nil
}
