package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/guildhall/mmoawards/internal/app"
	"github.com/guildhall/mmoawards/internal/domain"
)

type userOutput struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type guildOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

type playerOutput struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	GuildID  *string `json:"guild_id"`
}

type awardOutput struct {
	ID              string    `json:"id"`
	PlayerID        string    `json:"player_id"`
	AwardType       string    `json:"award_type"`
	EventID         *string   `json:"event_id"`
	SubjectPlayerID *string   `json:"subject_player_id,omitempty"`
	Description     string    `json:"description"`
	EarnedAt        time.Time `json:"earned_at"`
}

type eventOutput struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Details   domain.Details `json:"details"`
	PlayerID  *string        `json:"player_id"`
	GuildID   *string        `json:"guild_id"`
	Timestamp *time.Time     `json:"timestamp"`
	CreatedAt time.Time      `json:"created_at"`
}

type detectionOutput struct {
	Granted []awardOutput `json:"granted"`
	Error   *string       `json:"error,omitempty"`
}

type leaderboardEntryOutput struct {
	PlayerID    string `json:"player_id"`
	Username    string `json:"username"`
	AwardsCount int64  `json:"awards_count"`
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func toUserOutput(user domain.User) userOutput {
	return userOutput{ID: user.ID, Username: user.Username}
}

func toGuildOutput(guild domain.Guild) guildOutput {
	return guildOutput{ID: guild.ID, Name: guild.Name, Score: guild.Score}
}

func toPlayerOutput(player domain.Player) playerOutput {
	return playerOutput{ID: player.ID, UserID: player.UserID, Username: player.Username, GuildID: player.GuildID}
}

func toAwardOutputs(awards []domain.Award) []awardOutput {
	outputs := make([]awardOutput, 0, len(awards))
	for _, award := range awards {
		outputs = append(outputs, awardOutput{
			ID:              award.ID,
			PlayerID:        award.PlayerID,
			AwardType:       string(award.Type),
			EventID:         award.EventID,
			SubjectPlayerID: award.SubjectPlayerID,
			Description:     award.Description,
			EarnedAt:        award.EarnedAt.UTC(),
		})
	}
	return outputs
}

func toEventOutput(event domain.Event) eventOutput {
	details := event.Details
	if details == nil {
		details = domain.Details{}
	}
	return eventOutput{
		ID:        event.ID,
		Type:      string(event.Type),
		Details:   details,
		PlayerID:  event.PlayerID,
		GuildID:   event.GuildID,
		Timestamp: event.Timestamp,
		CreatedAt: event.CreatedAt.UTC(),
	}
}

func toDetectionOutput(result app.DetectionResult) detectionOutput {
	output := detectionOutput{Granted: toAwardOutputs(result.Granted)}
	if result.Err != nil {
		message := result.Err.Error()
		output.Error = &message
	}
	return output
}

func toLeaderboardOutputs(entries []domain.LeaderboardEntry) []leaderboardEntryOutput {
	outputs := make([]leaderboardEntryOutput, 0, len(entries))
	for _, entry := range entries {
		outputs = append(outputs, leaderboardEntryOutput{
			PlayerID:    entry.PlayerID,
			Username:    entry.Username,
			AwardsCount: entry.AwardsCount,
		})
	}
	return outputs
}
