package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// fakeHitStore is an in-memory hitStore for tests.
type fakeHitStore struct {
	hits    []EndpointHit
	nextID  int64
	saveErr error
}

func (f *fakeHitStore) Save(ctx context.Context, hit *EndpointHit) (*EndpointHit, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.nextID++
	hit.ID = f.nextID
	f.hits = append(f.hits, *hit)
	return hit, nil
}

func (f *fakeHitStore) GetStats(ctx context.Context, query StatsQuery) ([]ViewStats, error) {
	type key struct {
		app string
		uri string
	}
	counts := make(map[key]int64)
	seen := make(map[key]map[string]struct{})
	for _, h := range f.hits {
		if h.Timestamp.Before(query.Start) || h.Timestamp.After(query.End) {
			continue
		}
		if len(query.URIs) > 0 {
			match := false
			for _, uri := range query.URIs {
				if h.URI == uri {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		k := key{h.App, h.URI}
		if query.Unique {
			if seen[k] == nil {
				seen[k] = make(map[string]struct{})
			}
			if _, ok := seen[k][h.IP]; ok {
				continue
			}
			seen[k][h.IP] = struct{}{}
		}
		counts[k]++
	}
	result := make([]ViewStats, 0, len(counts))
	for k, n := range counts {
		result = append(result, ViewStats{App: k.app, URI: k.uri, Hits: n})
	}
	return result, nil
}

func TestService_RecordHit(t *testing.T) {
	ctx := context.Background()
	store := &fakeHitStore{}
	svc := NewService(store, zerolog.Nop())

	saved, err := svc.RecordHit(ctx, &EndpointHitRequest{
		App:       "eventory-api",
		URI:       "/events/1",
		IP:        "192.163.0.1",
		Timestamp: helpers.NewDateTime(time.Now()),
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "eventory-api", saved.App)
	assert.Len(t, store.hits, 1)
}

func TestService_GetStats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	store := &fakeHitStore{}
	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		_, err := store.Save(ctx, &EndpointHit{
			App: "eventory-api", URI: "/events/1", IP: ip, Timestamp: now,
		})
		require.NoError(t, err)
	}
	svc := NewService(store, zerolog.Nop())

	t.Run("counts every hit", func(t *testing.T) {
		got, err := svc.GetStats(ctx, StatsQuery{
			Start: now.Add(-time.Hour),
			End:   now.Add(time.Hour),
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(3), got[0].Hits)
	})

	t.Run("unique counts distinct addresses", func(t *testing.T) {
		got, err := svc.GetStats(ctx, StatsQuery{
			Start:  now.Add(-time.Hour),
			End:    now.Add(time.Hour),
			Unique: true,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].Hits)
	})

	t.Run("uri filter applies", func(t *testing.T) {
		got, err := svc.GetStats(ctx, StatsQuery{
			Start: now.Add(-time.Hour),
			End:   now.Add(time.Hour),
			URIs:  []string{"/events/2"},
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("inverted window is a bad request", func(t *testing.T) {
		_, err := svc.GetStats(ctx, StatsQuery{
			Start: now,
			End:   now.Add(-time.Hour),
		})
		assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
	})
}
