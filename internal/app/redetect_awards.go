package app

import (
	"context"
	"fmt"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/logging"
	"github.com/guildhall/mmoawards/internal/reporting"
)

type eventGetter interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// RedetectAwards runs award detection again for an already recorded event.
// Awards that already exist are left as they are.
type RedetectAwards func(ctx context.Context, eventID string) (DetectionResult, error)

func BuildRedetectAwards(repo eventGetter, detect DetectAwards) RedetectAwards {
	return func(ctx context.Context, eventID string) (DetectionResult, error) {
		event, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			return DetectionResult{}, fmt.Errorf("failed to get event: %w", err)
		}

		ctx = logging.AddEventToContext(ctx, event)
		ctx = reporting.AddEventToContext(ctx, event)

		result := detect(ctx, event)
		if result.Err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "Award re-detection failed", "error", result.Err.Error())
		}
		return result, nil
	}
}
