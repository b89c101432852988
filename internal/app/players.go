package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/guildhall/mmoawards/internal/domain"
)

type playerRegistry interface {
	CreateUser(ctx context.Context, username string) (domain.User, error)
	CreateGuild(ctx context.Context, name string, score int64) (domain.Guild, error)
	CreatePlayer(ctx context.Context, userID string, guildID *string) (domain.Player, error)
	SetPlayerGuild(ctx context.Context, playerID string, guildID *string) (domain.Player, error)
}

type CreateUser func(ctx context.Context, username string) (domain.User, error)

func BuildCreateUser(repo playerRegistry) CreateUser {
	return func(ctx context.Context, username string) (domain.User, error) {
		username = strings.TrimSpace(username)
		if username == "" {
			return domain.User{}, fmt.Errorf("%w: username is empty", domain.ErrInvalidArgument)
		}

		user, err := repo.CreateUser(ctx, username)
		if err != nil {
			return domain.User{}, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	}
}

// RegisterPlayer creates a player for an existing user, optionally as a member of a guild
type RegisterPlayer func(ctx context.Context, userID string, guildID *string) (domain.Player, error)

func BuildRegisterPlayer(repo playerRegistry) RegisterPlayer {
	return func(ctx context.Context, userID string, guildID *string) (domain.Player, error) {
		player, err := repo.CreatePlayer(ctx, userID, guildID)
		if err != nil {
			return domain.Player{}, fmt.Errorf("failed to register player: %w", err)
		}
		return player, nil
	}
}

type CreateGuild func(ctx context.Context, name string, score int64) (domain.Guild, error)

func BuildCreateGuild(repo playerRegistry) CreateGuild {
	return func(ctx context.Context, name string, score int64) (domain.Guild, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return domain.Guild{}, fmt.Errorf("%w: guild name is empty", domain.ErrInvalidArgument)
		}

		guild, err := repo.CreateGuild(ctx, name, score)
		if err != nil {
			return domain.Guild{}, fmt.Errorf("failed to create guild: %w", err)
		}
		return guild, nil
	}
}

// SetPlayerGuild moves the player to a guild, or out of any guild when guildID is nil.
// Membership is not derived from GUILD_JOIN or GUILD_LEAVE events.
type SetPlayerGuild func(ctx context.Context, playerID string, guildID *string) (domain.Player, error)

func BuildSetPlayerGuild(repo playerRegistry) SetPlayerGuild {
	return func(ctx context.Context, playerID string, guildID *string) (domain.Player, error) {
		player, err := repo.SetPlayerGuild(ctx, playerID, guildID)
		if err != nil {
			return domain.Player{}, fmt.Errorf("failed to set player guild: %w", err)
		}
		return player, nil
	}
}
