package ports_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/ports"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMakeListEventsHandler(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	killEvent := domain.Event{
		ID:        "e1",
		Type:      domain.EventTypePlayerKill,
		Details:   domain.Details{"target_id": "p2"},
		PlayerID:  ptr("p1"),
		CreatedAt: createdAt,
	}

	makeHandler := func(t *testing.T, expected domain.EventFilter, result []domain.Event, err error) (http.HandlerFunc, *bool) {
		called := false
		listEvents := func(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
			t.Helper()
			require.Equal(t, expected, filter)
			called = true
			return result, err
		}
		return ports.MakeListEventsHandler(listEvents, newAllowedOrigins(t), testLogger, noopMiddleware), &called
	}

	t.Run("all filters", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
		handler, called := makeHandler(t, domain.EventFilter{
			Type:     ptr(domain.EventTypePlayerKill),
			PlayerID: ptr("p1"),
			GuildID:  ptr("g1"),
			Start:    &start,
			End:      &end,
			Limit:    3,
		}, []domain.Event{killEvent}, nil)

		w := serve(handler, "/v1/events?type=PLAYER_KILL&player_id=p1&guild_id=g1&start=2025-05-01T00:00:00Z&end=2025-07-01T00:00:00Z&limit=3")

		require.True(t, *called)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{
			"success": true,
			"events": [{
				"id": "e1",
				"type": "PLAYER_KILL",
				"details": {"target_id": "p2"},
				"player_id": "p1",
				"guild_id": null,
				"timestamp": null,
				"created_at": "2025-06-01T08:00:00Z"
			}]
		}`, w.Body.String())
	})

	t.Run("no type filter when type is missing", func(t *testing.T) {
		t.Parallel()
		handler, called := makeHandler(t, domain.EventFilter{}, nil, nil)

		w := serve(handler, "/v1/events")

		require.True(t, *called)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"success":true,"events":[]}`, w.Body.String())
	})

	for _, target := range []string{
		"/v1/events?type=BOSS_FIGHT",
		"/v1/events?start=yesterday",
		"/v1/events?end=2025-13-01",
		"/v1/events?limit=1.5",
	} {
		t.Run("bad request "+target, func(t *testing.T) {
			t.Parallel()
			handler, called := makeHandler(t, domain.EventFilter{}, nil, nil)

			w := serve(handler, target)

			require.False(t, *called)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Contains(t, w.Body.String(), `"success":false`)
		})
	}

	t.Run("store error", func(t *testing.T) {
		t.Parallel()
		handler, _ := makeHandler(t, domain.EventFilter{}, nil, assert.AnError)

		w := serve(handler, "/v1/events")

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestMakeGetEventHandler(t *testing.T) {
	t.Parallel()

	timestamp := time.Date(2025, time.June, 1, 7, 59, 0, 0, time.FixedZone("CEST", 2*60*60))
	event := domain.Event{
		ID:        "e2",
		Type:      domain.EventTypeDungeonClear,
		Details:   domain.Details{"party_members": []any{"p1"}},
		GuildID:   ptr("g1"),
		Timestamp: &timestamp,
		CreatedAt: time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC),
	}

	makeHandler := func(t *testing.T, result domain.Event, err error) http.HandlerFunc {
		getEvent := func(ctx context.Context, eventID string) (domain.Event, error) {
			t.Helper()
			require.Equal(t, "e2", eventID)
			return result, err
		}
		return ports.MakeGetEventHandler(getEvent, newAllowedOrigins(t), testLogger, noopMiddleware)
	}

	makeRequest := func(id string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/v1/events/"+id, nil)
		req.SetPathValue("id", id)
		return req
	}

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		handler := makeHandler(t, event, nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, makeRequest("e2"))

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{
			"success": true,
			"event": {
				"id": "e2",
				"type": "DUNGEON_CLEAR",
				"details": {"party_members": ["p1"]},
				"player_id": null,
				"guild_id": "g1",
				"timestamp": "2025-06-01T05:59:00Z",
				"created_at": "2025-06-01T08:00:00Z"
			}
		}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		handler := makeHandler(t, domain.Event{}, domain.ErrEventNotFound)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, makeRequest("e2"))

		require.Equal(t, http.StatusNotFound, w.Code)
		require.JSONEq(t, `{"success":false,"cause":"not found"}`, w.Body.String())
	})
}
