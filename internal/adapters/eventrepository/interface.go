package eventrepository

import (
	"context"

	"github.com/guildhall/mmoawards/internal/domain"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.NewEvent) (domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)

	// KillExists reports whether query.KillerID has a PLAYER_KILL event targeting query.TargetID
	KillExists(ctx context.Context, query domain.KillQuery) (bool, error)
	// CountKills counts the PLAYER_KILL events by query.KillerID targeting query.TargetID
	CountKills(ctx context.Context, query domain.KillQuery) (int, error)
}
