package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
)

func newRequestServiceForTest(events *fakeEventStore, requests *fakeRequestStore, users *fakeUserStore) RequestService {
	return NewRequestService(&fakeTxRunner{}, requests, events, users, zerolog.Nop())
}

func publishedEvent(initiatorID int64, limit int, moderation bool) models.Event {
	published := time.Now().Add(-time.Hour)
	return models.Event{
		Annotation:        "annotation long enough for the field bounds",
		Description:       "description long enough for the field bounds",
		Title:             "Some event",
		CategoryID:        1,
		InitiatorID:       initiatorID,
		EventDate:         time.Now().Add(48 * time.Hour),
		Paid:              false,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
		State:             models.EventStatePublished,
		CreatedOn:         time.Now().Add(-2 * time.Hour),
		PublishedOn:       &published,
	}
}

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("moderated event yields pending request", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		requester := users.add("Requester", "req@example.com")

		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, 10, true))

		svc := newRequestServiceForTest(events, newFakeRequestStore(), users)

		got, err := svc.Create(ctx, requester.ID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusPending, got.Status)
		assert.Equal(t, event.ID, got.Event)
		assert.Equal(t, requester.ID, got.Requester)
	})

	t.Run("unmoderated event confirms immediately", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		requester := users.add("Requester", "req@example.com")

		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, 10, false))

		svc := newRequestServiceForTest(events, newFakeRequestStore(), users)

		got, err := svc.Create(ctx, requester.ID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusConfirmed, got.Status)
	})

	t.Run("unlimited event confirms immediately", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		requester := users.add("Requester", "req@example.com")

		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, 0, true))

		svc := newRequestServiceForTest(events, newFakeRequestStore(), users)

		got, err := svc.Create(ctx, requester.ID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusConfirmed, got.Status)
	})

	t.Run("initiator cannot request own event", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")

		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, 10, true))

		svc := newRequestServiceForTest(events, newFakeRequestStore(), users)

		_, err := svc.Create(ctx, initiator.ID, event.ID)
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("unpublished event rejects requests", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		requester := users.add("Requester", "req@example.com")

		events := newFakeEventStore()
		pending := publishedEvent(initiator.ID, 10, true)
		pending.State = models.EventStatePending
		pending.PublishedOn = nil
		event := events.add(pending)

		svc := newRequestServiceForTest(events, newFakeRequestStore(), users)

		_, err := svc.Create(ctx, requester.ID, event.ID)
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("duplicate request rejected", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		requester := users.add("Requester", "req@example.com")

		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, 10, true))

		requests := newFakeRequestStore()
		requests.add(event.ID, requester.ID, models.RequestStatusPending)

		svc := newRequestServiceForTest(events, requests, users)

		_, err := svc.Create(ctx, requester.ID, event.ID)
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("canceled request does not block a retry", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		requester := users.add("Requester", "req@example.com")

		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, 10, true))

		requests := newFakeRequestStore()
		requests.add(event.ID, requester.ID, models.RequestStatusCanceled)

		svc := newRequestServiceForTest(events, requests, users)

		got, err := svc.Create(ctx, requester.ID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusPending, got.Status)
	})

	t.Run("full event rejects new requests", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		requester := users.add("Requester", "req@example.com")
		other := users.add("Other", "other@example.com")

		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, 1, true))

		requests := newFakeRequestStore()
		requests.add(event.ID, other.ID, models.RequestStatusConfirmed)

		svc := newRequestServiceForTest(events, requests, users)

		_, err := svc.Create(ctx, requester.ID, event.ID)
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("unknown event", func(t *testing.T) {
		users := newFakeUserStore()
		requester := users.add("Requester", "req@example.com")

		svc := newRequestServiceForTest(newFakeEventStore(), newFakeRequestStore(), users)

		_, err := svc.Create(ctx, requester.ID, 404)
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	})
}

func TestRequestService_Cancel(t *testing.T) {
	ctx := context.Background()

	users := newFakeUserStore()
	initiator := users.add("Initiator", "init@example.com")
	requester := users.add("Requester", "req@example.com")
	stranger := users.add("Stranger", "stranger@example.com")

	events := newFakeEventStore()
	event := events.add(publishedEvent(initiator.ID, 10, true))

	requests := newFakeRequestStore()
	request := requests.add(event.ID, requester.ID, models.RequestStatusPending)

	svc := newRequestServiceForTest(events, requests, users)

	t.Run("someone else's request is invisible", func(t *testing.T) {
		_, err := svc.Cancel(ctx, stranger.ID, request.ID)
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	})

	t.Run("own request cancels", func(t *testing.T) {
		got, err := svc.Cancel(ctx, requester.ID, request.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusCanceled, got.Status)
	})
}

func TestRequestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(limit int) (RequestService, *fakeUserStore, *fakeEventStore, *fakeRequestStore, *models.Event) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, limit, true))
		requests := newFakeRequestStore()
		svc := newRequestServiceForTest(events, requests, users)
		return svc, users, events, requests, event
	}

	t.Run("confirms the batch within capacity", func(t *testing.T) {
		svc, users, _, requests, event := setup(5)
		a := requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusPending)
		b := requests.add(event.ID, users.add("B", "b@example.com").ID, models.RequestStatusPending)

		result, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{a.ID, b.ID},
			Status:     models.RequestStatusConfirmed,
		})
		require.NoError(t, err)
		assert.Len(t, result.ConfirmedRequests, 2)
		assert.Empty(t, result.RejectedRequests)
	})

	t.Run("filling the last slot rejects the remaining pending requests", func(t *testing.T) {
		svc, users, _, requests, event := setup(2)
		a := requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusPending)
		b := requests.add(event.ID, users.add("B", "b@example.com").ID, models.RequestStatusPending)
		c := requests.add(event.ID, users.add("C", "c@example.com").ID, models.RequestStatusPending)

		result, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{a.ID, b.ID},
			Status:     models.RequestStatusConfirmed,
		})
		require.NoError(t, err)
		assert.Len(t, result.ConfirmedRequests, 2)
		require.Len(t, result.RejectedRequests, 1)
		assert.Equal(t, c.ID, result.RejectedRequests[0].ID)

		stored, err := requests.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusRejected, stored.Status)
	})

	t.Run("batch larger than free capacity splits confirm and reject", func(t *testing.T) {
		svc, users, _, requests, event := setup(1)
		a := requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusPending)
		b := requests.add(event.ID, users.add("B", "b@example.com").ID, models.RequestStatusPending)

		result, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{a.ID, b.ID},
			Status:     models.RequestStatusConfirmed,
		})
		require.NoError(t, err)
		require.Len(t, result.ConfirmedRequests, 1)
		assert.Equal(t, a.ID, result.ConfirmedRequests[0].ID)
		require.Len(t, result.RejectedRequests, 1)
		assert.Equal(t, b.ID, result.RejectedRequests[0].ID)
	})

	t.Run("full event refuses further confirmation", func(t *testing.T) {
		svc, users, _, requests, event := setup(1)
		requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusConfirmed)
		b := requests.add(event.ID, users.add("B", "b@example.com").ID, models.RequestStatusPending)

		_, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{b.ID},
			Status:     models.RequestStatusConfirmed,
		})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("event without moderation has nothing to confirm", func(t *testing.T) {
		users := newFakeUserStore()
		initiator := users.add("Initiator", "init@example.com")
		events := newFakeEventStore()
		event := events.add(publishedEvent(initiator.ID, 5, false))
		requests := newFakeRequestStore()
		r := requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusPending)
		svc := newRequestServiceForTest(events, requests, users)

		_, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{r.ID},
			Status:     models.RequestStatusConfirmed,
		})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("unlimited event has nothing to confirm", func(t *testing.T) {
		svc, users, _, requests, event := setup(0)
		r := requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusPending)

		_, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{r.ID},
			Status:     models.RequestStatusConfirmed,
		})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("full event refuses even a reject batch", func(t *testing.T) {
		svc, users, _, requests, event := setup(1)
		requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusConfirmed)
		b := requests.add(event.ID, users.add("B", "b@example.com").ID, models.RequestStatusPending)

		_, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{b.ID},
			Status:     models.RequestStatusRejected,
		})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("rejecting never cascades", func(t *testing.T) {
		svc, users, _, requests, event := setup(5)
		a := requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusPending)
		b := requests.add(event.ID, users.add("B", "b@example.com").ID, models.RequestStatusPending)

		result, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{a.ID},
			Status:     models.RequestStatusRejected,
		})
		require.NoError(t, err)
		assert.Empty(t, result.ConfirmedRequests)
		require.Len(t, result.RejectedRequests, 1)

		stored, err := requests.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusPending, stored.Status)
	})

	t.Run("non-pending request in the batch is a conflict", func(t *testing.T) {
		svc, users, _, requests, event := setup(5)
		a := requests.add(event.ID, users.add("A", "a@example.com").ID, models.RequestStatusConfirmed)

		_, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{a.ID},
			Status:     models.RequestStatusConfirmed,
		})
		assert.True(t, errors.Is(err, apperrors.ErrConflict))
	})

	t.Run("unknown request id in the batch is not found", func(t *testing.T) {
		svc, _, _, _, event := setup(5)

		_, err := svc.UpdateStatus(ctx, event.InitiatorID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{404},
			Status:     models.RequestStatusConfirmed,
		})
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	})

	t.Run("foreign event is invisible", func(t *testing.T) {
		svc, users, _, _, event := setup(5)
		stranger := users.add("Stranger", "stranger@example.com")

		_, err := svc.UpdateStatus(ctx, stranger.ID, event.ID, &dto.RequestStatusUpdateRequest{
			RequestIDs: []int64{1},
			Status:     models.RequestStatusConfirmed,
		})
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	})
}

func TestRequestService_Listings(t *testing.T) {
	ctx := context.Background()

	users := newFakeUserStore()
	initiator := users.add("Initiator", "init@example.com")
	requester := users.add("Requester", "req@example.com")

	events := newFakeEventStore()
	event := events.add(publishedEvent(initiator.ID, 10, true))

	requests := newFakeRequestStore()
	requests.add(event.ID, requester.ID, models.RequestStatusPending)

	svc := newRequestServiceForTest(events, requests, users)

	own, err := svc.ListOwn(ctx, requester.ID)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	forEvent, err := svc.ListForEvent(ctx, initiator.ID, event.ID)
	require.NoError(t, err)
	assert.Len(t, forEvent, 1)

	_, err = svc.ListForEvent(ctx, requester.ID, event.ID)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}
