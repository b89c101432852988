package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guildhall/mmoawards/internal/domain"
)

type recordEventFlags struct {
	eventType string
	playerID  string
	guildID   string
	details   string
	timestamp string
}

func (f recordEventFlags) toNewEvent() (domain.NewEvent, error) {
	eventType, err := domain.ParseEventType(f.eventType)
	if err != nil {
		return domain.NewEvent{}, err
	}

	var details domain.Details
	if err := json.Unmarshal([]byte(f.details), &details); err != nil {
		return domain.NewEvent{}, fmt.Errorf("%w: --details must be a JSON object: %w", domain.ErrMalformedDetails, err)
	}

	event := domain.NewEvent{
		Type:     eventType,
		Details:  details,
		PlayerID: optionalString(f.playerID),
		GuildID:  optionalString(f.guildID),
	}

	if f.timestamp != "" {
		timestamp, err := time.Parse(time.RFC3339, f.timestamp)
		if err != nil {
			return domain.NewEvent{}, fmt.Errorf("%w: --timestamp must be an RFC 3339 timestamp", domain.ErrInvalidArgument)
		}
		event.Timestamp = &timestamp
	}

	return event, nil
}

func newEventCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Record game events",
	}

	var flags recordEventFlags
	record := &cobra.Command{
		Use:   "record",
		Short: "Record an event and run award detection on it",
		Long: `Record an event and run award detection on it.

Example:
  awardctl event record --type PLAYER_KILL --player-id <killer> --details '{"target_id":"<victim>"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			newEvent, err := flags.toNewEvent()
			if err != nil {
				return err
			}
			event, err := backend.RecordEvent(cmd.Context(), newEvent)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toEventOutput(event))
		},
	}
	record.Flags().StringVar(&flags.eventType, "type", "", "event type (defaults to OTHER)")
	record.Flags().StringVar(&flags.playerID, "player-id", "", "id of the player that caused the event")
	record.Flags().StringVar(&flags.guildID, "guild-id", "", "id of the guild the event belongs to")
	record.Flags().StringVar(&flags.details, "details", "{}", "event details as a JSON object")
	record.Flags().StringVar(&flags.timestamp, "timestamp", "", "game server timestamp (RFC 3339)")
	cmd.AddCommand(record)

	return cmd
}

func newAwardsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "awards",
		Short: "Inspect and backfill awards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "redetect <event-id>",
		Short: "Run award detection again for a recorded event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			result, err := backend.RedetectAwards(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toDetectionOutput(result))
		},
	})

	var playerID, awardType string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List awards, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			filter := domain.AwardFilter{PlayerID: optionalString(playerID), Limit: limit}
			if awardType != "" {
				parsed, err := domain.ParseAwardType(awardType)
				if err != nil {
					return err
				}
				filter.Type = &parsed
			}
			awards, err := backend.ListAwards(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toAwardOutputs(awards))
		},
	}
	list.Flags().StringVar(&playerID, "player-id", "", "only awards of this player")
	list.Flags().StringVar(&awardType, "award-type", "", "only awards of this type")
	list.Flags().IntVar(&limit, "limit", 0, "maximum number of awards (default 100)")
	cmd.AddCommand(list)

	var top int
	leaderboard := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the players with the most awards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := backendFrom(opts)
			if err != nil {
				return err
			}
			entries, err := backend.GetLeaderboard(cmd.Context(), top)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toLeaderboardOutputs(entries))
		},
	}
	leaderboard.Flags().IntVar(&top, "top", 0, "number of players (default 20)")
	cmd.AddCommand(leaderboard)

	return cmd
}
