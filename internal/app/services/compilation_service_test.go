package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

type compilationServiceFixture struct {
	svc          CompilationService
	users        *fakeUserStore
	events       *fakeEventStore
	requests     *fakeRequestStore
	compilations *fakeCompilationStore
}

func newCompilationServiceFixture() *compilationServiceFixture {
	f := &compilationServiceFixture{
		users:        newFakeUserStore(),
		events:       newFakeEventStore(),
		requests:     newFakeRequestStore(),
		compilations: newFakeCompilationStore(),
	}
	f.svc = NewCompilationService(&fakeTxRunner{}, f.compilations, f.events,
		f.requests, &fakeViewsProvider{hits: map[string]int64{}}, zerolog.Nop())
	return f
}

func TestCompilationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with member events", func(t *testing.T) {
		f := newCompilationServiceFixture()
		owner := f.users.add("Owner", "owner@example.com")
		event := f.events.add(publishedEvent(owner.ID, 10, true))

		got, err := f.svc.Create(ctx, &dto.NewCompilationRequest{
			Title:    "Weekend picks",
			Pinned:   true,
			EventIDs: []int64{event.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, "Weekend picks", got.Title)
		assert.True(t, got.Pinned)
		require.Len(t, got.Events, 1)
		assert.Equal(t, event.ID, got.Events[0].ID)
	})

	t.Run("creates empty", func(t *testing.T) {
		f := newCompilationServiceFixture()

		got, err := f.svc.Create(ctx, &dto.NewCompilationRequest{Title: "Coming soon"})
		require.NoError(t, err)
		assert.Empty(t, got.Events)
	})

	t.Run("unknown member event", func(t *testing.T) {
		f := newCompilationServiceFixture()

		_, err := f.svc.Create(ctx, &dto.NewCompilationRequest{
			Title:    "Weekend picks",
			EventIDs: []int64{404},
		})
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	})

	t.Run("unpublished members are hidden from the rendering", func(t *testing.T) {
		f := newCompilationServiceFixture()
		owner := f.users.add("Owner", "owner@example.com")
		pending := publishedEvent(owner.ID, 10, true)
		pending.State = models.EventStatePending
		pending.PublishedOn = nil
		event := f.events.add(pending)

		got, err := f.svc.Create(ctx, &dto.NewCompilationRequest{
			Title:    "Weekend picks",
			EventIDs: []int64{event.ID},
		})
		require.NoError(t, err)
		assert.Empty(t, got.Events)
	})
}

func TestCompilationService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the member set", func(t *testing.T) {
		f := newCompilationServiceFixture()
		owner := f.users.add("Owner", "owner@example.com")
		first := f.events.add(publishedEvent(owner.ID, 10, true))
		second := f.events.add(publishedEvent(owner.ID, 10, true))

		created, err := f.svc.Create(ctx, &dto.NewCompilationRequest{
			Title:    "Weekend picks",
			EventIDs: []int64{first.ID},
		})
		require.NoError(t, err)

		members := []int64{second.ID}
		pinned := true
		got, err := f.svc.Update(ctx, created.ID, &dto.UpdateCompilationRequest{
			Pinned:   &pinned,
			EventIDs: &members,
		})
		require.NoError(t, err)
		assert.True(t, got.Pinned)
		require.Len(t, got.Events, 1)
		assert.Equal(t, second.ID, got.Events[0].ID)
	})

	t.Run("nil member set stays untouched", func(t *testing.T) {
		f := newCompilationServiceFixture()
		owner := f.users.add("Owner", "owner@example.com")
		event := f.events.add(publishedEvent(owner.ID, 10, true))

		created, err := f.svc.Create(ctx, &dto.NewCompilationRequest{
			Title:    "Weekend picks",
			EventIDs: []int64{event.ID},
		})
		require.NoError(t, err)

		title := "Renamed"
		got, err := f.svc.Update(ctx, created.ID, &dto.UpdateCompilationRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Len(t, got.Events, 1)
	})

	t.Run("unknown compilation", func(t *testing.T) {
		f := newCompilationServiceFixture()

		title := "Renamed"
		_, err := f.svc.Update(ctx, 404, &dto.UpdateCompilationRequest{Title: &title})
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	})
}

func TestCompilationService_ListAndDelete(t *testing.T) {
	ctx := context.Background()

	f := newCompilationServiceFixture()

	pinnedComp, err := f.svc.Create(ctx, &dto.NewCompilationRequest{Title: "Pinned", Pinned: true})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &dto.NewCompilationRequest{Title: "Plain"})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, nil, helpers.Page{From: 0, Size: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pinned := true
	onlyPinned, err := f.svc.List(ctx, &pinned, helpers.Page{From: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, onlyPinned, 1)
	assert.Equal(t, pinnedComp.ID, onlyPinned[0].ID)

	require.NoError(t, f.svc.Delete(ctx, pinnedComp.ID))
	err = f.svc.Delete(ctx, pinnedComp.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}
