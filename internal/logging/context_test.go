package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/logging"
	"github.com/stretchr/testify/require"
)

// logSink collects JSON log lines and hands them back with the timestamp stripped
type logSink struct {
	t   *testing.T
	buf bytes.Buffer
}

func newLogSink(t *testing.T) (*logSink, *slog.Logger) {
	sink := &logSink{t: t}
	return sink, slog.New(slog.NewJSONHandler(&sink.buf, nil))
}

func (s *logSink) entries() []map[string]any {
	s.t.Helper()

	decoder := json.NewDecoder(&s.buf)
	entries := []map[string]any{}
	for {
		var entry map[string]any
		err := decoder.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(s.t, err)

		stamp, ok := entry["time"].(string)
		require.True(s.t, ok, "log line without time")
		parsed, err := time.Parse(time.RFC3339, stamp)
		require.NoError(s.t, err)
		require.WithinDuration(s.t, time.Now(), parsed, 5*time.Second)
		delete(entry, "time")

		entries = append(entries, entry)
	}
	return entries
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	_, logger := newLogSink(t)
	ctx := logging.AddToContext(t.Context(), logger)
	require.Same(t, logger, logging.FromContext(ctx))

	require.NotNil(t, logging.FromContext(t.Context()))
}

func TestAddMetaToContext(t *testing.T) {
	t.Parallel()

	sink, logger := newLogSink(t)
	ctx := logging.AddToContext(t.Context(), logger.With(slog.String("service", "mmoawards")))

	logging.FromContext(ctx).Info("root")

	ctx = logging.AddMetaToContext(ctx, slog.String("command", "event record"))
	logging.FromContext(ctx).Info("nested")

	// Later attributes shadow earlier ones with the same key
	shadowed := logging.AddMetaToContext(ctx, slog.String("command", "awards redetect"), slog.Int("attempt", 2))
	logging.FromContext(shadowed).Warn("shadowed")

	// The parent context is unaffected
	logging.FromContext(ctx).Info("parent")

	require.Equal(t, []map[string]any{
		{"level": "INFO", "msg": "root", "service": "mmoawards"},
		{"level": "INFO", "msg": "nested", "service": "mmoawards", "command": "event record"},
		{"level": "WARN", "msg": "shadowed", "service": "mmoawards", "command": "awards redetect", "attempt": float64(2)},
		{"level": "INFO", "msg": "parent", "service": "mmoawards", "command": "event record"},
	}, sink.entries())
}

func TestAddEventToContext(t *testing.T) {
	t.Parallel()

	playerID := "player-1"
	guildID := "guild-1"

	cases := []struct {
		name     string
		event    domain.Event
		expected map[string]any
	}{
		{
			name: "with player and guild",
			event: domain.Event{
				ID:       "event-1",
				Type:     domain.EventTypeDungeonClear,
				PlayerID: &playerID,
				GuildID:  &guildID,
			},
			expected: map[string]any{
				"eventID":   "event-1",
				"eventType": "DUNGEON_CLEAR",
				"playerID":  "player-1",
				"guildID":   "guild-1",
			},
		},
		{
			name:  "without references",
			event: domain.Event{ID: "event-2", Type: domain.EventTypeOther},
			expected: map[string]any{
				"eventID":   "event-2",
				"eventType": "OTHER",
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			sink, logger := newLogSink(t)
			ctx := logging.AddEventToContext(logging.AddToContext(t.Context(), logger), c.event)

			logging.FromContext(ctx).Info("processing")

			c.expected["level"] = "INFO"
			c.expected["msg"] = "processing"
			require.Equal(t, []map[string]any{c.expected}, sink.entries())
		})
	}
}
