package reporting

import (
	"testing"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestReportingMeta(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		meta := MetaFromContext(t.Context())
		require.Empty(t, meta.tags)
		require.Empty(t, meta.extras)
		require.True(t, meta.startedAt.IsZero())
	})

	t.Run("adding does not mutate parent context", func(t *testing.T) {
		t.Parallel()

		parent := AddTagsToContext(t.Context(), map[string]string{"port": "awards"})
		child := AddExtrasToContext(parent, map[string]string{"playerID": "p1"})
		child = AddTagsToContext(child, map[string]string{"port": "events"})

		require.Equal(t, map[string]string{"port": "awards"}, MetaFromContext(parent).tags)
		require.Empty(t, MetaFromContext(parent).extras)

		require.Equal(t, map[string]string{"port": "events"}, MetaFromContext(child).tags)
		require.Equal(t, map[string]string{"playerID": "p1"}, MetaFromContext(child).extras)
	})

	t.Run("event", func(t *testing.T) {
		t.Parallel()

		playerID := "p1"
		ctx := AddEventToContext(t.Context(), domain.Event{
			ID:       "e1",
			Type:     domain.EventTypePlayerKill,
			PlayerID: &playerID,
		})

		meta := MetaFromContext(ctx)
		require.Equal(t, map[string]string{"eventType": "PLAYER_KILL"}, meta.tags)
		require.Equal(t, map[string]string{"eventID": "e1", "playerID": "p1"}, meta.extras)
	})
}
