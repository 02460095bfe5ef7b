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

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the category", func(t *testing.T) {
		store := newFakeCategoryStore()
		svc := NewCategoryService(store, newFakeEventStore(), zerolog.Nop())

		got, err := svc.Create(ctx, &dto.NewCategoryRequest{Name: "concerts"})
		require.NoError(t, err)
		assert.NotZero(t, got.ID)
		assert.Equal(t, "concerts", got.Name)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		store := newFakeCategoryStore()
		store.createErr = apperrors.ErrCategoryAlreadyExists
		svc := NewCategoryService(store, newFakeEventStore(), zerolog.Nop())

		_, err := svc.Create(ctx, &dto.NewCategoryRequest{Name: "concerts"})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("renames the category", func(t *testing.T) {
		store := newFakeCategoryStore()
		category := store.add("concrets")
		svc := NewCategoryService(store, newFakeEventStore(), zerolog.Nop())

		got, err := svc.Update(ctx, category.ID, &dto.NewCategoryRequest{Name: "concerts"})
		require.NoError(t, err)
		assert.Equal(t, "concerts", got.Name)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := NewCategoryService(newFakeCategoryStore(), newFakeEventStore(), zerolog.Nop())

		_, err := svc.Update(ctx, 404, &dto.NewCategoryRequest{Name: "concerts"})
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	})

	t.Run("renaming onto an existing name is a conflict", func(t *testing.T) {
		store := newFakeCategoryStore()
		category := store.add("concerts")
		store.updateErr = apperrors.ErrCategoryAlreadyExists
		svc := NewCategoryService(store, newFakeEventStore(), zerolog.Nop())

		_, err := svc.Update(ctx, category.ID, &dto.NewCategoryRequest{Name: "theatre"})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an unused category", func(t *testing.T) {
		store := newFakeCategoryStore()
		category := store.add("concerts")
		svc := NewCategoryService(store, newFakeEventStore(), zerolog.Nop())

		require.NoError(t, svc.Delete(ctx, category.ID))

		_, err := svc.GetByID(ctx, category.ID)
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	})

	t.Run("category in use is a conflict", func(t *testing.T) {
		store := newFakeCategoryStore()
		category := store.add("concerts")
		users := newFakeUserStore()
		owner := users.add("Owner", "owner@example.com")

		events := newFakeEventStore()
		event := publishedEvent(owner.ID, 10, true)
		event.CategoryID = category.ID
		events.add(event)

		svc := NewCategoryService(store, events, zerolog.Nop())

		err := svc.Delete(ctx, category.ID)
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})
}

func TestCategoryService_List(t *testing.T) {
	store := newFakeCategoryStore()
	store.add("concerts")
	store.add("theatre")
	svc := NewCategoryService(store, newFakeEventStore(), zerolog.Nop())

	got, err := svc.List(context.Background(), helpers.Page{From: 0, Size: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
