package domaintest

import (
	"fmt"
	"testing"
	"time"

	"github.com/guildhall/mmoawards/internal/domain"
)

type playerBuilder struct {
	player *domain.Player
}

func (pb *playerBuilder) WithUsername(username string) *playerBuilder {
	pb.player.Username = username
	return pb
}

func (pb *playerBuilder) WithGuild(guildID string) *playerBuilder {
	pb.player.GuildID = &guildID
	return pb
}

func (pb *playerBuilder) WithCreatedAt(createdAt time.Time) *playerBuilder {
	pb.player.CreatedAt = createdAt
	return pb
}

func (pb *playerBuilder) Build() domain.Player {
	player := *pb.player
	if pb.player.GuildID != nil {
		guildID := *pb.player.GuildID
		player.GuildID = &guildID
	}
	return player
}

func (pb *playerBuilder) BuildPtr() *domain.Player {
	// Make a copy, so further mutations to the builder don't affect the returned player
	player := pb.Build()
	return &player
}

func NewPlayerBuilder(t *testing.T) *playerBuilder {
	id := NewUUID(t)
	return &playerBuilder{
		player: &domain.Player{
			ID:        id,
			UserID:    NewUUID(t),
			Username:  fmt.Sprintf("player-%s", id[:8]),
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}
