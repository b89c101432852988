package app

import (
	"context"
	"fmt"

	"github.com/guildhall/mmoawards/internal/domain"
)

const MaxEventsLimit = 500
const DefaultEventsLimit = 100

type eventReader interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
}

type ListEvents func(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)

func BuildListEvents(repo eventReader) ListEvents {
	return func(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
		if filter.Limit == 0 {
			filter.Limit = DefaultEventsLimit
		}
		if filter.Limit < 1 || filter.Limit > MaxEventsLimit {
			return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidArgument, MaxEventsLimit)
		}
		if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
			return nil, fmt.Errorf("%w: end is before start", domain.ErrInvalidArgument)
		}

		events, err := repo.ListEvents(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
		return events, nil
	}
}

type GetEvent func(ctx context.Context, eventID string) (domain.Event, error)

func BuildGetEvent(repo eventReader) GetEvent {
	return func(ctx context.Context, eventID string) (domain.Event, error) {
		event, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			return domain.Event{}, fmt.Errorf("failed to get event: %w", err)
		}
		return event, nil
	}
}
