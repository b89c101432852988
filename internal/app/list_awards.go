package app

import (
	"context"
	"fmt"

	"github.com/guildhall/mmoawards/internal/domain"
)

const MaxAwardsLimit = 500
const DefaultAwardsLimit = 100

type awardLister interface {
	ListAwards(ctx context.Context, filter domain.AwardFilter) ([]domain.Award, error)
}

type ListAwards func(ctx context.Context, filter domain.AwardFilter) ([]domain.Award, error)

func BuildListAwards(repo awardLister) ListAwards {
	return func(ctx context.Context, filter domain.AwardFilter) ([]domain.Award, error) {
		if filter.Limit == 0 {
			filter.Limit = DefaultAwardsLimit
		}
		if filter.Limit < 1 || filter.Limit > MaxAwardsLimit {
			return nil, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidArgument, MaxAwardsLimit)
		}

		awards, err := repo.ListAwards(ctx, filter)
		if err != nil {
			// NOTE: The repository reports its own errors
			return nil, fmt.Errorf("failed to list awards: %w", err)
		}
		return awards, nil
	}
}
