package domain

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventTypePlayerKill        EventType = "PLAYER_KILL"
	EventTypeDungeonClear      EventType = "DUNGEON_CLEAR"
	EventTypeItemPurchase      EventType = "ITEM_PURCHASE"
	EventTypeGuildJoin         EventType = "GUILD_JOIN"
	EventTypeGuildLeave        EventType = "GUILD_LEAVE"
	EventTypePlayerLevelUp     EventType = "PLAYER_LEVEL_UP"
	EventTypeQuestComplete     EventType = "QUEST_COMPLETE"
	EventTypeMarketTransaction EventType = "MARKET_TRANSACTION"
	EventTypeOther             EventType = "OTHER"
)

var EventTypes = []EventType{
	EventTypePlayerKill,
	EventTypeDungeonClear,
	EventTypeItemPurchase,
	EventTypeGuildJoin,
	EventTypeGuildLeave,
	EventTypePlayerLevelUp,
	EventTypeQuestComplete,
	EventTypeMarketTransaction,
	EventTypeOther,
}

// ParseEventType parses the wire representation of an event type.
// The empty string is treated as OTHER.
func ParseEventType(raw string) (EventType, error) {
	if raw == "" {
		return EventTypeOther, nil
	}
	for _, eventType := range EventTypes {
		if string(eventType) == raw {
			return eventType, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEventType, raw)
}

func (et EventType) Valid() bool {
	_, err := ParseEventType(string(et))
	return err == nil && et != ""
}

// Keys in Event.Details read by the award rules
const (
	DetailsKeyPartyMembers = "party_members"
	DetailsKeyTargetID     = "target_id"
)

// Details is the free-form payload of an event. Its shape depends on the event type.
type Details map[string]any

type Event struct {
	ID       string
	Type     EventType
	Details  Details
	PlayerID *string
	GuildID  *string

	// Timestamp reported by the game server, if any
	Timestamp *time.Time

	CreatedAt time.Time
}

// NewEvent is an event that has not been stored yet
type NewEvent struct {
	Type      EventType
	Details   Details
	PlayerID  *string
	GuildID   *string
	Timestamp *time.Time
}

type EventFilter struct {
	Type     *EventType
	PlayerID *string
	GuildID  *string
	Start    *time.Time
	End      *time.Time
	Limit    int
}

// KillQuery matches PLAYER_KILL events authored by KillerID whose target_id detail equals TargetID
type KillQuery struct {
	KillerID string
	TargetID string
}
