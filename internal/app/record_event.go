package app

import (
	"context"
	"fmt"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/logging"
	"github.com/guildhall/mmoawards/internal/reporting"
)

type eventCreator interface {
	CreateEvent(ctx context.Context, event domain.NewEvent) (domain.Event, error)
}

// EventCreatedHook runs synchronously after an event is committed, once per event.
// Hooks cannot fail the write.
type EventCreatedHook func(ctx context.Context, event domain.Event)

type RecordEvent func(ctx context.Context, event domain.NewEvent) (domain.Event, error)

func BuildRecordEvent(repo eventCreator, hooks ...EventCreatedHook) RecordEvent {
	return func(ctx context.Context, event domain.NewEvent) (domain.Event, error) {
		if event.Type == "" {
			event.Type = domain.EventTypeOther
		}
		if !event.Type.Valid() {
			return domain.Event{}, fmt.Errorf("%w: %q", domain.ErrInvalidEventType, event.Type)
		}

		created, err := repo.CreateEvent(ctx, event)
		if err != nil {
			// NOTE: The repository reports its own errors
			return domain.Event{}, fmt.Errorf("failed to create event: %w", err)
		}

		ctx = logging.AddEventToContext(ctx, created)
		ctx = reporting.AddEventToContext(ctx, created)
		logging.FromContext(ctx).InfoContext(ctx, "Recorded event")

		for _, hook := range hooks {
			hook(ctx, created)
		}

		return created, nil
	}
}

// AwardDetectionHook runs award detection for every new event.
// Detection failures are logged and reported, never returned.
func AwardDetectionHook(detect DetectAwards) EventCreatedHook {
	return func(ctx context.Context, event domain.Event) {
		result := detect(ctx, event)
		if result.Err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "Award detection failed", "error", result.Err.Error())
			reporting.Report(ctx, fmt.Errorf("award detection failed: %w", result.Err))
		}
		if len(result.Granted) > 0 {
			logging.FromContext(ctx).InfoContext(ctx, "Awards granted for event", "count", len(result.Granted))
		}
	}
}
