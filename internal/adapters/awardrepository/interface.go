package awardrepository

import (
	"context"

	"github.com/guildhall/mmoawards/internal/domain"
)

type AwardRepository interface {
	// GrantAward stores the award unless an award with the same uniqueness key exists.
	// Returns domain.ErrAwardAlreadyGranted in that case.
	GrantAward(ctx context.Context, grant domain.AwardGrant) (domain.Award, error)
	ListAwards(ctx context.Context, filter domain.AwardFilter) ([]domain.Award, error)
	GetLeaderboard(ctx context.Context, top int) ([]domain.LeaderboardEntry, error)
}
