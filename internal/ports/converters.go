package ports

import (
	"time"

	"github.com/guildhall/mmoawards/internal/domain"
)

type awardResponse struct {
	ID              string    `json:"id"`
	PlayerID        string    `json:"player_id"`
	AwardType       string    `json:"award_type"`
	EventID         *string   `json:"event_id"`
	SubjectPlayerID *string   `json:"subject_player_id,omitempty"`
	Description     string    `json:"description"`
	EarnedAt        time.Time `json:"earned_at"`
}

type listAwardsResponse struct {
	Success bool            `json:"success"`
	Awards  []awardResponse `json:"awards"`
}

type leaderboardEntryResponse struct {
	PlayerID    string `json:"player_id"`
	Username    string `json:"username"`
	AwardsCount int64  `json:"awards_count"`
}

type leaderboardResponse struct {
	Success     bool                       `json:"success"`
	Leaderboard []leaderboardEntryResponse `json:"leaderboard"`
}

type eventResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Details   map[string]any `json:"details"`
	PlayerID  *string        `json:"player_id"`
	GuildID   *string        `json:"guild_id"`
	Timestamp *time.Time     `json:"timestamp"`
	CreatedAt time.Time      `json:"created_at"`
}

type listEventsResponse struct {
	Success bool            `json:"success"`
	Events  []eventResponse `json:"events"`
}

type getEventResponse struct {
	Success bool          `json:"success"`
	Event   eventResponse `json:"event"`
}

func awardToResponse(award domain.Award) awardResponse {
	return awardResponse{
		ID:              award.ID,
		PlayerID:        award.PlayerID,
		AwardType:       string(award.Type),
		EventID:         award.EventID,
		SubjectPlayerID: award.SubjectPlayerID,
		Description:     award.Description,
		EarnedAt:        award.EarnedAt.UTC(),
	}
}

func awardsToResponse(awards []domain.Award) listAwardsResponse {
	converted := make([]awardResponse, 0, len(awards))
	for _, award := range awards {
		converted = append(converted, awardToResponse(award))
	}
	return listAwardsResponse{Success: true, Awards: converted}
}

func leaderboardToResponse(entries []domain.LeaderboardEntry) leaderboardResponse {
	converted := make([]leaderboardEntryResponse, 0, len(entries))
	for _, entry := range entries {
		converted = append(converted, leaderboardEntryResponse{
			PlayerID:    entry.PlayerID,
			Username:    entry.Username,
			AwardsCount: entry.AwardsCount,
		})
	}
	return leaderboardResponse{Success: true, Leaderboard: converted}
}

func eventToResponse(event domain.Event) eventResponse {
	details := map[string]any(event.Details)
	if details == nil {
		details = map[string]any{}
	}

	var timestamp *time.Time
	if event.Timestamp != nil {
		utc := event.Timestamp.UTC()
		timestamp = &utc
	}

	return eventResponse{
		ID:        event.ID,
		Type:      string(event.Type),
		Details:   details,
		PlayerID:  event.PlayerID,
		GuildID:   event.GuildID,
		Timestamp: timestamp,
		CreatedAt: event.CreatedAt.UTC(),
	}
}

func eventsToResponse(events []domain.Event) listEventsResponse {
	converted := make([]eventResponse, 0, len(events))
	for _, event := range events {
		converted = append(converted, eventToResponse(event))
	}
	return listEventsResponse{Success: true, Events: converted}
}
