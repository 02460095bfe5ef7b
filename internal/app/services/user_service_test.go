package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user", func(t *testing.T) {
		store := newFakeUserStore()
		svc := NewUserService(store, zerolog.Nop())

		got, err := svc.Register(ctx, &dto.NewUserRequest{Name: "Anton", Email: "anton@example.com"})
		require.NoError(t, err)
		assert.NotZero(t, got.ID)
		assert.Equal(t, "Anton", got.Name)
		assert.Equal(t, "anton@example.com", got.Email)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		store := newFakeUserStore()
		store.err = apperrors.ErrEmailAlreadyExists
		svc := NewUserService(store, zerolog.Nop())

		_, err := svc.Register(ctx, &dto.NewUserRequest{Name: "Anton", Email: "anton@example.com"})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})
}

func TestUserService_List(t *testing.T) {
	store := newFakeUserStore()
	store.add("First", "first@example.com")
	store.add("Second", "second@example.com")
	svc := NewUserService(store, zerolog.Nop())

	got, err := svc.List(context.Background(), nil, helpers.Page{From: 0, Size: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	user := store.add("Anton", "anton@example.com")
	svc := NewUserService(store, zerolog.Nop())

	require.NoError(t, svc.Delete(ctx, user.ID))

	err := svc.Delete(ctx, user.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}
