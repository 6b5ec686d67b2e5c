package service

import (
	"context"
	"errors"
	"fmt"

	"goblog/internal/model"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")

	// ErrInvalidCredentials deliberately does not reveal which field
	// was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

//go:generate mockgen -source=users.go -destination=./user_storage_mock.go -package=service goblog/internal/service UserStorage
type UserStorage interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type UserService struct {
	userStorage UserStorage
}

func NewUserService(userStorage UserStorage) *UserService {
	return &UserService{userStorage: userStorage}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	if err := validator.New().Struct(req); err != nil {
		return model.User{}, newValidationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	return s.userStorage.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, fmt.Errorf("userID must be > 0: %w", ErrInvalidRequest)
	}
	return s.userStorage.GetUserByID(ctx, userID)
}
