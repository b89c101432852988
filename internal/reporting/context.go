package reporting

import (
	"context"
	"maps"
	"time"

	"github.com/guildhall/mmoawards/internal/domain"
)

type reportingMetaContextKey struct{}

type ReportingMeta struct {
	tags      map[string]string
	extras    map[string]string
	startedAt time.Time
}

func MetaFromContext(ctx context.Context) ReportingMeta {
	meta, ok := ctx.Value(reportingMetaContextKey{}).(ReportingMeta)
	if !ok {
		return ReportingMeta{
			tags:      make(map[string]string),
			extras:    make(map[string]string),
			startedAt: time.Time{},
		}
	}
	return ReportingMeta{
		tags:      maps.Clone(meta.tags),
		extras:    maps.Clone(meta.extras),
		startedAt: meta.startedAt,
	}
}

func addMetaToContext(ctx context.Context, meta ReportingMeta) context.Context {
	return context.WithValue(ctx, reportingMetaContextKey{}, meta)
}

func setStartedAtInContext(ctx context.Context, startedAt time.Time) context.Context {
	meta := MetaFromContext(ctx)
	meta.startedAt = startedAt

	return addMetaToContext(ctx, meta)
}

func AddExtrasToContext(ctx context.Context, extras map[string]string) context.Context {
	meta := MetaFromContext(ctx)

	for key, value := range extras {
		meta.extras[key] = value
	}

	return addMetaToContext(ctx, meta)
}

func AddTagsToContext(ctx context.Context, tags map[string]string) context.Context {
	meta := MetaFromContext(ctx)

	for key, value := range tags {
		meta.tags[key] = value
	}

	return addMetaToContext(ctx, meta)
}

// AddEventToContext attaches the identity of the event being processed to any report
func AddEventToContext(ctx context.Context, event domain.Event) context.Context {
	ctx = AddTagsToContext(ctx, map[string]string{
		"eventType": string(event.Type),
	})

	extras := map[string]string{
		"eventID": event.ID,
	}
	if event.PlayerID != nil {
		extras["playerID"] = *event.PlayerID
	}
	if event.GuildID != nil {
		extras["guildID"] = *event.GuildID
	}
	return AddExtrasToContext(ctx, extras)
}
