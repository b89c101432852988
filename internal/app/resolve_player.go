package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/logging"
)

type playerLookup interface {
	GetPlayerByID(ctx context.Context, playerID string) (domain.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error)
}

// ResolvePlayer maps a loosely typed reference to a stored player.
// It never fails: anything that does not match exactly one player resolves to false.
type ResolvePlayer func(ctx context.Context, ref domain.PlayerRef) (domain.Player, bool)

func BuildResolvePlayer(repo playerLookup) ResolvePlayer {
	return func(ctx context.Context, ref domain.PlayerRef) (domain.Player, bool) {
		if player, ok := ref.Player(); ok {
			return player, true
		}

		raw, ok := ref.Raw()
		if !ok || raw == "" {
			return domain.Player{}, false
		}

		var player domain.Player
		var err error
		if id, parseErr := uuid.Parse(raw); parseErr == nil {
			player, err = repo.GetPlayerByID(ctx, id.String())
		} else {
			player, err = repo.GetPlayerByUsername(ctx, raw)
		}

		if errors.Is(err, domain.ErrPlayerNotFound) {
			return domain.Player{}, false
		} else if err != nil {
			// NOTE: The repository reports its own errors
			logging.FromContext(ctx).WarnContext(ctx, "Failed to resolve player", "ref", raw, "error", err.Error())
			return domain.Player{}, false
		}

		return player, true
	}
}
