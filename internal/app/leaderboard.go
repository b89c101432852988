package app

import (
	"context"
	"fmt"

	"github.com/guildhall/mmoawards/internal/adapters/cache"
	"github.com/guildhall/mmoawards/internal/domain"
)

const MaxLeaderboardSize = 100
const DefaultLeaderboardSize = 20

type leaderboardRepository interface {
	GetLeaderboard(ctx context.Context, top int) ([]domain.LeaderboardEntry, error)
}

type GetLeaderboard func(ctx context.Context, top int) ([]domain.LeaderboardEntry, error)

func BuildGetLeaderboard(repo leaderboardRepository, leaderboardCache cache.Cache[[]domain.LeaderboardEntry]) GetLeaderboard {
	return func(ctx context.Context, top int) ([]domain.LeaderboardEntry, error) {
		if top == 0 {
			top = DefaultLeaderboardSize
		}
		if top < 1 || top > MaxLeaderboardSize {
			return nil, fmt.Errorf("%w: top must be between 1 and %d", domain.ErrInvalidArgument, MaxLeaderboardSize)
		}

		key := fmt.Sprintf("top:%d", top)
		entries, err := cache.GetOrCreate(ctx, leaderboardCache, key, func() ([]domain.LeaderboardEntry, error) {
			// Other callers may be waiting on this entry, so the claimer's cancellation must not fail them
			return repo.GetLeaderboard(context.WithoutCancel(ctx), top)
		})
		if err != nil {
			// NOTE: GetOrCreate only returns an error if create() fails or ctx is done.
			// The repository reports its own errors
			return nil, fmt.Errorf("failed to get leaderboard: %w", err)
		}

		return entries, nil
	}
}
