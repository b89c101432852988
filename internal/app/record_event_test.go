package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/domaintest"
)

type mockEventCreator struct {
	t *testing.T

	expectedEvent domain.NewEvent
	returnEvent   domain.Event
	returnError   error
	called        bool
}

func (m *mockEventCreator) CreateEvent(ctx context.Context, event domain.NewEvent) (domain.Event, error) {
	m.t.Helper()
	require.Equal(m.t, m.expectedEvent, event)
	require.False(m.t, m.called)
	m.called = true
	return m.returnEvent, m.returnError
}

func TestBuildRecordEvent(t *testing.T) {
	t.Parallel()

	t.Run("hooks run in order with the stored event", func(t *testing.T) {
		t.Parallel()
		newEvent := domaintest.NewEventBuilder(domain.EventTypeQuestComplete).Build()
		stored := domaintest.NewEventBuilder(domain.EventTypeQuestComplete).BuildStored(domaintest.NewUUID(t), time.Now())
		repo := &mockEventCreator{t: t, expectedEvent: newEvent, returnEvent: stored}

		calls := []string{}
		hook := func(name string) EventCreatedHook {
			return func(ctx context.Context, event domain.Event) {
				require.Equal(t, stored, event)
				calls = append(calls, name)
			}
		}

		record := BuildRecordEvent(repo, hook("first"), hook("second"))
		created, err := record(t.Context(), newEvent)
		require.NoError(t, err)
		require.Equal(t, stored, created)
		require.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("empty type defaults to other", func(t *testing.T) {
		t.Parallel()
		stored := domaintest.NewEventBuilder(domain.EventTypeOther).BuildStored(domaintest.NewUUID(t), time.Now())
		repo := &mockEventCreator{
			t:             t,
			expectedEvent: domain.NewEvent{Type: domain.EventTypeOther},
			returnEvent:   stored,
		}

		created, err := BuildRecordEvent(repo)(t.Context(), domain.NewEvent{})
		require.NoError(t, err)
		require.Equal(t, domain.EventTypeOther, created.Type)
	})

	t.Run("invalid type is rejected before storing", func(t *testing.T) {
		t.Parallel()
		repo := &mockEventCreator{t: t}
		hookCalled := false
		record := BuildRecordEvent(repo, func(ctx context.Context, event domain.Event) {
			hookCalled = true
		})

		_, err := record(t.Context(), domain.NewEvent{Type: "BOSS_FIGHT"})
		require.ErrorIs(t, err, domain.ErrInvalidEventType)
		require.False(t, repo.called)
		require.False(t, hookCalled)
	})

	t.Run("store errors are returned and skip hooks", func(t *testing.T) {
		t.Parallel()
		newEvent := domaintest.NewEventBuilder(domain.EventTypeOther).Build()
		repo := &mockEventCreator{t: t, expectedEvent: newEvent, returnError: assert.AnError}
		hookCalled := false
		record := BuildRecordEvent(repo, func(ctx context.Context, event domain.Event) {
			hookCalled = true
		})

		_, err := record(t.Context(), newEvent)
		require.ErrorIs(t, err, assert.AnError)
		require.True(t, repo.called)
		require.False(t, hookCalled)
	})
}

func TestAwardDetectionHook(t *testing.T) {
	t.Parallel()

	t.Run("failing detection leaves the event committed", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		a := w.player("a", nil)

		detectCalls := 0
		failingDetect := func(ctx context.Context, event domain.Event) DetectionResult {
			detectCalls++
			return DetectionResult{Err: assert.AnError}
		}
		record := BuildRecordEvent(w.store, AwardDetectionHook(failingDetect))

		created, err := record(t.Context(), domaintest.NewEventBuilder(domain.EventTypeDungeonClear).
			WithDetail(domain.DetailsKeyPartyMembers, []any{a.ID}).
			Build())
		require.NoError(t, err)
		require.Equal(t, 1, detectCalls)

		stored, err := w.store.GetEvent(t.Context(), created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, stored.ID)
	})

	t.Run("malformed details still record the event", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)

		created := w.recordEvent(domaintest.NewEventBuilder(domain.EventTypeDungeonClear).
			WithDetail(domain.DetailsKeyPartyMembers, map[string]any{"leader": "a"}).
			Build())

		_, err := w.store.GetEvent(t.Context(), created.ID)
		require.NoError(t, err)
		require.Empty(t, w.awards(domain.AwardFilter{}))
	})

	t.Run("panicking detection is contained", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		a := w.player("a", nil)
		b := w.player("b", nil)

		detect, err := BuildDetectAwards(func(ctx context.Context, ref domain.PlayerRef) (domain.Player, bool) {
			panic("boom")
		}, w.store, w.store)
		require.NoError(t, err)
		record := BuildRecordEvent(w.store, AwardDetectionHook(detect))

		var created domain.Event
		require.NotPanics(t, func() {
			created, err = record(t.Context(), domaintest.NewKillEventBuilder(a.ID, b.ID).Build())
		})
		require.NoError(t, err)

		_, err = w.store.GetEvent(t.Context(), created.ID)
		require.NoError(t, err)
	})
}
