package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/domaintest"
)

func TestBuildRedetectAwards(t *testing.T) {
	t.Parallel()

	t.Run("backfills awards for events recorded without detection", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		a := w.player("a", nil)

		// Recorded without any hooks
		created, err := BuildRecordEvent(w.store)(t.Context(), domaintest.NewEventBuilder(domain.EventTypeDungeonClear).
			WithDetail(domain.DetailsKeyPartyMembers, []any{a.ID}).
			Build())
		require.NoError(t, err)
		require.Empty(t, w.awards(domain.AwardFilter{}))

		redetect := BuildRedetectAwards(w.store, w.detect)

		result, err := redetect(t.Context(), created.ID)
		require.NoError(t, err)
		require.NoError(t, result.Err)
		require.Len(t, result.Granted, 1)
		requireAwardFor(t, w.awardsOf(a, domain.AwardTypeSoloClear), created)

		result, err = redetect(t.Context(), created.ID)
		require.NoError(t, err)
		require.NoError(t, result.Err)
		require.Empty(t, result.Granted)
		require.Len(t, w.awards(domain.AwardFilter{}), 1)
	})

	t.Run("missing event", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		redetect := BuildRedetectAwards(w.store, w.detect)

		_, err := redetect(t.Context(), domaintest.NewUUID(t))
		require.ErrorIs(t, err, domain.ErrEventNotFound)
	})
}
