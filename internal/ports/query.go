package ports

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/guildhall/mmoawards/internal/domain"
)

// Empty parameters parse to the zero value so the app layer can apply its defaults
func parseIntParam(query url.Values, key string) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidArgument, key)
	}
	return value, nil
}

func parseTimeParam(query url.Values, key string) (*time.Time, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}

	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an RFC 3339 timestamp", domain.ErrInvalidArgument, key)
	}
	return &value, nil
}

func parseStringParam(query url.Values, key string) *string {
	raw := query.Get(key)
	if raw == "" {
		return nil
	}
	return &raw
}

func parseAwardFilter(query url.Values) (domain.AwardFilter, error) {
	filter := domain.AwardFilter{
		PlayerID: parseStringParam(query, "player_id"),
	}

	if rawType := query.Get("award_type"); rawType != "" {
		awardType, err := domain.ParseAwardType(rawType)
		if err != nil {
			return domain.AwardFilter{}, err
		}
		filter.Type = &awardType
	}

	limit, err := parseIntParam(query, "limit")
	if err != nil {
		return domain.AwardFilter{}, err
	}
	filter.Limit = limit

	return filter, nil
}

func parseEventFilter(query url.Values) (domain.EventFilter, error) {
	filter := domain.EventFilter{
		PlayerID: parseStringParam(query, "player_id"),
		GuildID:  parseStringParam(query, "guild_id"),
	}

	// NOTE: ParseEventType maps "" to OTHER, so a missing type must not reach it
	if rawType := query.Get("type"); rawType != "" {
		eventType, err := domain.ParseEventType(rawType)
		if err != nil {
			return domain.EventFilter{}, err
		}
		filter.Type = &eventType
	}

	var err error
	filter.Start, err = parseTimeParam(query, "start")
	if err != nil {
		return domain.EventFilter{}, err
	}
	filter.End, err = parseTimeParam(query, "end")
	if err != nil {
		return domain.EventFilter{}, err
	}

	filter.Limit, err = parseIntParam(query, "limit")
	if err != nil {
		return domain.EventFilter{}, err
	}

	return filter, nil
}
