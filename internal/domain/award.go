package domain

import (
	"fmt"
	"time"
)

type AwardType string

const (
	AwardTypeGuildHarmony AwardType = "GUILD_HARMONY"
	AwardTypeSoloClear    AwardType = "SOLO_CLEAR"
	AwardTypeRevenge      AwardType = "REVENGE_AWARD"
	AwardTypeRivalSlayer  AwardType = "RIVAL_SLAYER"
)

var AwardTypes = []AwardType{
	AwardTypeGuildHarmony,
	AwardTypeSoloClear,
	AwardTypeRevenge,
	AwardTypeRivalSlayer,
}

func ParseAwardType(raw string) (AwardType, error) {
	for _, awardType := range AwardTypes {
		if string(awardType) == raw {
			return awardType, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAwardType, raw)
}

type Award struct {
	ID       string
	PlayerID string
	Type     AwardType

	// The event that earned the award
	EventID *string

	// The other player the award is about. Set for RIVAL_SLAYER only.
	SubjectPlayerID *string

	Description string
	EarnedAt    time.Time
}

// AwardGrant is a request to store an award if it has not been granted already.
//
// (PlayerID, Type, EventID) is unique for all award types.
// (PlayerID, Type, SubjectPlayerID) is additionally unique for RIVAL_SLAYER.
type AwardGrant struct {
	PlayerID        string
	Type            AwardType
	EventID         string
	SubjectPlayerID *string
	Description     string
}

type AwardFilter struct {
	PlayerID *string
	Type     *AwardType
	Limit    int
}

type LeaderboardEntry struct {
	PlayerID    string
	Username    string
	AwardsCount int64
}
