package playerrepository

import (
	"context"

	"github.com/guildhall/mmoawards/internal/domain"
)

type PlayerRepository interface {
	CreateUser(ctx context.Context, username string) (domain.User, error)
	CreateGuild(ctx context.Context, name string, score int64) (domain.Guild, error)
	CreatePlayer(ctx context.Context, userID string, guildID *string) (domain.Player, error)
	GetGuild(ctx context.Context, guildID string) (domain.Guild, error)
	GetPlayerByID(ctx context.Context, playerID string) (domain.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error)
	SetPlayerGuild(ctx context.Context, playerID string, guildID *string) (domain.Player, error)
}
