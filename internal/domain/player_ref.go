package domain

import "fmt"

// PlayerRef is a loosely typed reference to a player, as found in event payloads.
// It holds either a player that is already resolved, or a raw identifier that may be
// a player ID or a username.
type PlayerRef struct {
	player *Player
	raw    string
	valid  bool
}

func PlayerRefFromPlayer(player Player) PlayerRef {
	return PlayerRef{player: &player, valid: true}
}

func PlayerRefFromString(raw string) PlayerRef {
	return PlayerRef{raw: raw, valid: true}
}

// PlayerRefFromAny builds a reference from a decoded payload value.
// nil gives an empty reference, all other non-player values are stringified.
func PlayerRefFromAny(value any) PlayerRef {
	switch v := value.(type) {
	case nil:
		return PlayerRef{}
	case Player:
		return PlayerRefFromPlayer(v)
	case *Player:
		if v == nil {
			return PlayerRef{}
		}
		return PlayerRefFromPlayer(*v)
	case string:
		return PlayerRefFromString(v)
	default:
		return PlayerRefFromString(fmt.Sprint(v))
	}
}

func (r PlayerRef) IsEmpty() bool {
	return !r.valid
}

func (r PlayerRef) Player() (Player, bool) {
	if r.player == nil {
		return Player{}, false
	}
	return *r.player, true
}

func (r PlayerRef) Raw() (string, bool) {
	if !r.valid || r.player != nil {
		return "", false
	}
	return r.raw, true
}

func (r PlayerRef) String() string {
	switch {
	case !r.valid:
		return "<empty>"
	case r.player != nil:
		return r.player.ID
	default:
		return r.raw
	}
}
