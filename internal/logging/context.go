package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/guildhall/mmoawards/internal/domain"
)

type loggerContextKey struct{}

func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger)
	if !ok || logger == nil {
		fallback := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		fallback = fallback.With(slog.String("logger", "fallback"))
		return fallback
	}
	return logger
}

func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

func AddMetaToContext(ctx context.Context, args ...slog.Attr) context.Context {
	logger := FromContext(ctx)

	anySlice := make([]any, len(args))
	for i, arg := range args {
		anySlice[i] = arg
	}

	return AddToContext(ctx, logger.With(anySlice...))
}

// AddEventToContext tags all further log lines with the identity of the event being processed
func AddEventToContext(ctx context.Context, event domain.Event) context.Context {
	attrs := []slog.Attr{
		slog.String("eventID", event.ID),
		slog.String("eventType", string(event.Type)),
	}
	if event.PlayerID != nil {
		attrs = append(attrs, slog.String("playerID", *event.PlayerID))
	}
	if event.GuildID != nil {
		attrs = append(attrs, slog.String("guildID", *event.GuildID))
	}
	return AddMetaToContext(ctx, attrs...)
}
