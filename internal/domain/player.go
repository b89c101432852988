package domain

import "time"

type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

type Guild struct {
	ID        string
	Name      string
	Score     int64
	CreatedAt time.Time
}

type Player struct {
	ID       string
	UserID   string
	Username string

	// A player is in at most one guild at a time
	GuildID *string

	CreatedAt time.Time
}

// InGuild reports whether the player currently belongs to guildID
func (p Player) InGuild(guildID string) bool {
	return p.GuildID != nil && *p.GuildID == guildID
}
