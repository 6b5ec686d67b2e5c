package inmemory

import (
	"context"
	"testing"

	"goblog/internal/model"
	"goblog/internal/service"

	"github.com/stretchr/testify/require"
)

func TestUserStorage_CreateUser_Uniqueness(t *testing.T) {
	t.Parallel()

	st := NewUserStorage()
	ctx := context.Background()

	alice, err := st.CreateUser(ctx, model.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.Equal(t, int64(1), alice.ID)

	_, err = st.CreateUser(ctx, model.User{Username: "Alice", Email: "other@example.com"})
	require.ErrorIs(t, err, service.ErrUsernameTaken)

	_, err = st.CreateUser(ctx, model.User{Username: "bob", Email: "ALICE@example.com"})
	require.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestUserStorage_Lookups(t *testing.T) {
	t.Parallel()

	st := NewUserStorage()
	ctx := context.Background()

	created, err := st.CreateUser(ctx, model.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	byID, err := st.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, byID)

	byName, err := st.GetUserByUsername(ctx, "ALICE")
	require.NoError(t, err)
	require.Equal(t, created, byName)

	_, err = st.GetUserByID(ctx, 99)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = st.GetUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, service.ErrNotFound)
}
