package app

import (
	"context"
	"fmt"

	"github.com/guildhall/mmoawards/internal/domain"
)

// rivalKillThreshold is the number of kills of the same target that makes it a rival
const rivalKillThreshold = 2

func (r *detection) kill(ctx context.Context) error {
	if r.event.PlayerID == nil {
		return nil
	}
	killer, ok := r.resolve(ctx, domain.PlayerRefFromString(*r.event.PlayerID))
	if !ok {
		return nil
	}

	target, ok := r.resolve(ctx, domain.PlayerRefFromAny(r.event.Details[domain.DetailsKeyTargetID]))
	if !ok {
		return nil
	}

	if err := r.revenge(ctx, killer, target); err != nil {
		return err
	}
	return r.rivalSlayer(ctx, killer, target)
}

func (r *detection) revenge(ctx context.Context, killer, target domain.Player) error {
	avenged, err := r.history.KillExists(ctx, domain.KillQuery{
		KillerID: target.ID,
		TargetID: killer.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to look up earlier kills of %s: %w", killer.ID, err)
	}
	if !avenged {
		return nil
	}

	return r.grant(ctx, domain.AwardGrant{
		PlayerID:    killer.ID,
		Type:        domain.AwardTypeRevenge,
		EventID:     r.event.ID,
		Description: fmt.Sprintf("Revenge against %s", target.ID),
	})
}

func (r *detection) rivalSlayer(ctx context.Context, killer, target domain.Player) error {
	kills, err := r.history.CountKills(ctx, domain.KillQuery{
		KillerID: killer.ID,
		TargetID: target.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to count kills of %s: %w", target.ID, err)
	}
	if kills < rivalKillThreshold {
		return nil
	}

	// The store allows a single rival slayer award per (killer, target), so later kills are no-ops
	subjectID := target.ID
	return r.grant(ctx, domain.AwardGrant{
		PlayerID:        killer.ID,
		Type:            domain.AwardTypeRivalSlayer,
		EventID:         r.event.ID,
		SubjectPlayerID: &subjectID,
		Description:     fmt.Sprintf("Rival slayer of %s (kills: %d)", target.ID, kills),
	})
}
