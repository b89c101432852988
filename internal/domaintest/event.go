package domaintest

import (
	"time"

	"github.com/guildhall/mmoawards/internal/domain"
)

type eventBuilder struct {
	event *domain.NewEvent
}

func (eb *eventBuilder) WithPlayer(playerID string) *eventBuilder {
	eb.event.PlayerID = &playerID
	return eb
}

func (eb *eventBuilder) WithGuild(guildID string) *eventBuilder {
	eb.event.GuildID = &guildID
	return eb
}

func (eb *eventBuilder) WithDetail(key string, value any) *eventBuilder {
	if eb.event.Details == nil {
		eb.event.Details = domain.Details{}
	}
	eb.event.Details[key] = value
	return eb
}

func (eb *eventBuilder) WithTimestamp(timestamp time.Time) *eventBuilder {
	eb.event.Timestamp = &timestamp
	return eb
}

func (eb *eventBuilder) Build() domain.NewEvent {
	event := *eb.event
	if eb.event.Details != nil {
		event.Details = make(domain.Details, len(eb.event.Details))
		for k, v := range eb.event.Details {
			event.Details[k] = v
		}
	}
	return event
}

// BuildStored returns the event as it would look after being persisted
func (eb *eventBuilder) BuildStored(id string, createdAt time.Time) domain.Event {
	event := eb.Build()
	details := event.Details
	if details == nil {
		details = domain.Details{}
	}
	return domain.Event{
		ID:        id,
		Type:      event.Type,
		Details:   details,
		PlayerID:  event.PlayerID,
		GuildID:   event.GuildID,
		Timestamp: event.Timestamp,
		CreatedAt: createdAt,
	}
}

func NewEventBuilder(eventType domain.EventType) *eventBuilder {
	return &eventBuilder{
		event: &domain.NewEvent{
			Type: eventType,
		},
	}
}

func NewKillEventBuilder(killerID string, target any) *eventBuilder {
	return NewEventBuilder(domain.EventTypePlayerKill).
		WithPlayer(killerID).
		WithDetail(domain.DetailsKeyTargetID, target)
}

func NewDungeonClearEventBuilder(guildID string, partyMembers ...any) *eventBuilder {
	members := make([]any, 0, len(partyMembers))
	members = append(members, partyMembers...)
	return NewEventBuilder(domain.EventTypeDungeonClear).
		WithGuild(guildID).
		WithDetail(domain.DetailsKeyPartyMembers, members)
}
