package app

import (
	"context"
	"fmt"

	"github.com/guildhall/mmoawards/internal/domain"
)

const soloClearDescription = "Solo dungeon clear"

func partyMemberRefs(details domain.Details) ([]domain.PlayerRef, error) {
	raw, ok := details[domain.DetailsKeyPartyMembers]
	if !ok || raw == nil {
		return nil, nil
	}

	switch members := raw.(type) {
	case []any:
		refs := make([]domain.PlayerRef, 0, len(members))
		for _, member := range members {
			refs = append(refs, domain.PlayerRefFromAny(member))
		}
		return refs, nil
	case []string:
		refs := make([]domain.PlayerRef, 0, len(members))
		for _, member := range members {
			refs = append(refs, domain.PlayerRefFromString(member))
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a list, got %T", domain.ErrMalformedDetails, domain.DetailsKeyPartyMembers, raw)
	}
}

// resolveParty resolves every party member, dropping the unresolved ones and duplicates
func (r *detection) resolveParty(ctx context.Context, refs []domain.PlayerRef) []domain.Player {
	party := make([]domain.Player, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		player, ok := r.resolve(ctx, ref)
		if !ok || seen[player.ID] {
			continue
		}
		seen[player.ID] = true
		party = append(party, player)
	}
	return party
}

func (r *detection) dungeonClear(ctx context.Context) error {
	refs, err := partyMemberRefs(r.event.Details)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	party := r.resolveParty(ctx, refs)

	if len(party) == 1 {
		err := r.grant(ctx, domain.AwardGrant{
			PlayerID:    party[0].ID,
			Type:        domain.AwardTypeSoloClear,
			EventID:     r.event.ID,
			Description: soloClearDescription,
		})
		if err != nil {
			return err
		}
	}

	if r.event.GuildID == nil || len(party) == 0 {
		return nil
	}
	guildID := *r.event.GuildID
	for _, player := range party {
		if !player.InGuild(guildID) {
			return nil
		}
	}

	for _, player := range party {
		err := r.grant(ctx, domain.AwardGrant{
			PlayerID:    player.ID,
			Type:        domain.AwardTypeGuildHarmony,
			EventID:     r.event.ID,
			Description: fmt.Sprintf("GuildHarmony for guild %s", guildID),
		})
		if err != nil {
			return err
		}
	}

	return nil
}
