package memory

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guildhall/mmoawards/internal/domain"
)

const maxLimit = 500
const defaultLimit = 100
const maxLeaderboardSize = 100

// Store keeps users, guilds, players, events and awards in process memory.
// It enforces the same uniqueness and reference rules as the Postgres repositories.
type Store struct {
	mu sync.RWMutex

	nowFunc func() time.Time

	users   map[string]domain.User
	guilds  map[string]domain.Guild
	players map[string]domain.Player
	events  []storedEvent
	awards  []domain.Award
}

type storedEvent struct {
	event domain.Event
	// details as serialized JSON, so every read hands out a private copy
	details []byte
}

func NewStore(nowFunc func() time.Time) *Store {
	return &Store{
		nowFunc: nowFunc,
		users:   map[string]domain.User{},
		guilds:  map[string]domain.Guild{},
		players: map[string]domain.Player{},
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *Store) CreateUser(ctx context.Context, username string) (domain.User, error) {
	if username == "" {
		return domain.User{}, fmt.Errorf("username is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUsernameTaken, username)
		}
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: s.nowFunc(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) CreateGuild(ctx context.Context, name string, score int64) (domain.Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	guild := domain.Guild{
		ID:        uuid.NewString(),
		Name:      name,
		Score:     score,
		CreatedAt: s.nowFunc(),
	}
	s.guilds[guild.ID] = guild
	return guild, nil
}

func (s *Store) GetGuild(ctx context.Context, guildID string) (domain.Guild, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guild, ok := s.guilds[guildID]
	if !ok {
		return domain.Guild{}, domain.ErrGuildNotFound
	}
	return guild, nil
}

func (s *Store) CreatePlayer(ctx context.Context, userID string, guildID *string) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.Player{}, domain.ErrUserNotFound
	}
	if guildID != nil {
		if _, ok := s.guilds[*guildID]; !ok {
			return domain.Player{}, domain.ErrGuildNotFound
		}
	}

	player := domain.Player{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		GuildID:   copyString(guildID),
		CreatedAt: s.nowFunc(),
	}
	s.players[player.ID] = player
	return s.playerCopy(player), nil
}

func (s *Store) playerCopy(player domain.Player) domain.Player {
	player.GuildID = copyString(player.GuildID)
	return player
}

func (s *Store) GetPlayerByID(ctx context.Context, playerID string) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, ok := s.players[playerID]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return s.playerCopy(player), nil
}

func (s *Store) GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, player := range s.players {
		if player.Username == username {
			return s.playerCopy(player), nil
		}
	}
	return domain.Player{}, domain.ErrPlayerNotFound
}

func (s *Store) SetPlayerGuild(ctx context.Context, playerID string, guildID *string) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[playerID]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	if guildID != nil {
		if _, ok := s.guilds[*guildID]; !ok {
			return domain.Player{}, domain.ErrGuildNotFound
		}
	}

	player.GuildID = copyString(guildID)
	s.players[playerID] = player
	return s.playerCopy(player), nil
}

func (s *Store) CreateEvent(ctx context.Context, event domain.NewEvent) (domain.Event, error) {
	if !event.Type.Valid() {
		return domain.Event{}, fmt.Errorf("%w: %q", domain.ErrInvalidEventType, event.Type)
	}

	details := event.Details
	if details == nil {
		details = domain.Details{}
	}
	data, err := json.Marshal(details)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrMalformedDetails, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if event.PlayerID != nil {
		if _, ok := s.players[*event.PlayerID]; !ok {
			return domain.Event{}, domain.ErrPlayerNotFound
		}
	}
	if event.GuildID != nil {
		if _, ok := s.guilds[*event.GuildID]; !ok {
			return domain.Event{}, domain.ErrGuildNotFound
		}
	}

	var timestamp *time.Time
	if event.Timestamp != nil {
		t := *event.Timestamp
		timestamp = &t
	}

	stored := storedEvent{
		event: domain.Event{
			ID:        uuid.NewString(),
			Type:      event.Type,
			PlayerID:  copyString(event.PlayerID),
			GuildID:   copyString(event.GuildID),
			Timestamp: timestamp,
			CreatedAt: s.nowFunc(),
		},
		details: data,
	}
	s.events = append(s.events, stored)

	return stored.toDomain()
}

func (e storedEvent) toDomain() (domain.Event, error) {
	details := domain.Details{}
	if err := json.Unmarshal(e.details, &details); err != nil {
		return domain.Event{}, fmt.Errorf("failed to unmarshal details: %w", err)
	}

	event := e.event
	event.Details = details
	event.PlayerID = copyString(event.PlayerID)
	event.GuildID = copyString(event.GuildID)
	if event.Timestamp != nil {
		t := *event.Timestamp
		event.Timestamp = &t
	}
	return event, nil
}

// targetID mirrors details->>'target_id': strings as-is, other JSON values as their JSON text
func (e storedEvent) targetID() (string, bool) {
	var details map[string]json.RawMessage
	if err := json.Unmarshal(e.details, &details); err != nil {
		return "", false
	}
	raw, ok := details[domain.DetailsKeyTargetID]
	if !ok || string(raw) == "null" {
		return "", false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, true
	}
	return string(raw), true
}

func (s *Store) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, stored := range s.events {
		if stored.event.ID == eventID {
			return stored.toDomain()
		}
	}
	return domain.Event{}, domain.ErrEventNotFound
}

func checkLimit(limit int) (int, error) {
	if limit == 0 {
		return defaultLimit, nil
	}
	if limit < 1 || limit > maxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}
	return limit, nil
}

func (s *Store) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	limit, err := checkLimit(filter.Limit)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []storedEvent{}
	for _, stored := range s.events {
		event := stored.event
		if filter.Type != nil && event.Type != *filter.Type {
			continue
		}
		if filter.PlayerID != nil && (event.PlayerID == nil || *event.PlayerID != *filter.PlayerID) {
			continue
		}
		if filter.GuildID != nil && (event.GuildID == nil || *event.GuildID != *filter.GuildID) {
			continue
		}
		if filter.Start != nil && event.CreatedAt.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && event.CreatedAt.After(*filter.End) {
			continue
		}
		matches = append(matches, stored)
	}

	slices.SortStableFunc(matches, func(a, b storedEvent) int {
		if c := b.event.CreatedAt.Compare(a.event.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.event.ID, b.event.ID)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	events := make([]domain.Event, 0, len(matches))
	for _, stored := range matches {
		event, err := stored.toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (s *Store) killsLocked(query domain.KillQuery) int {
	count := 0
	for _, stored := range s.events {
		if stored.event.Type != domain.EventTypePlayerKill {
			continue
		}
		if stored.event.PlayerID == nil || *stored.event.PlayerID != query.KillerID {
			continue
		}
		if targetID, ok := stored.targetID(); ok && targetID == query.TargetID {
			count++
		}
	}
	return count
}

func (s *Store) KillExists(ctx context.Context, query domain.KillQuery) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.killsLocked(query) > 0, nil
}

func (s *Store) CountKills(ctx context.Context, query domain.KillQuery) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.killsLocked(query), nil
}

func (s *Store) GrantAward(ctx context.Context, grant domain.AwardGrant) (domain.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[grant.PlayerID]; !ok {
		return domain.Award{}, fmt.Errorf("failed to insert award: %w", domain.ErrPlayerNotFound)
	}

	for _, award := range s.awards {
		if award.PlayerID != grant.PlayerID || award.Type != grant.Type {
			continue
		}
		if award.EventID != nil && *award.EventID == grant.EventID {
			return domain.Award{}, domain.ErrAwardAlreadyGranted
		}
		if grant.Type == domain.AwardTypeRivalSlayer && grant.SubjectPlayerID != nil &&
			award.SubjectPlayerID != nil && *award.SubjectPlayerID == *grant.SubjectPlayerID {
			return domain.Award{}, domain.ErrAwardAlreadyGranted
		}
	}

	eventID := grant.EventID
	award := domain.Award{
		ID:              uuid.NewString(),
		PlayerID:        grant.PlayerID,
		Type:            grant.Type,
		EventID:         &eventID,
		SubjectPlayerID: copyString(grant.SubjectPlayerID),
		Description:     grant.Description,
		EarnedAt:        s.nowFunc(),
	}
	s.awards = append(s.awards, award)

	return awardCopy(award), nil
}

func awardCopy(award domain.Award) domain.Award {
	award.EventID = copyString(award.EventID)
	award.SubjectPlayerID = copyString(award.SubjectPlayerID)
	return award
}

func (s *Store) ListAwards(ctx context.Context, filter domain.AwardFilter) ([]domain.Award, error) {
	limit, err := checkLimit(filter.Limit)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	awards := []domain.Award{}
	for _, award := range s.awards {
		if filter.PlayerID != nil && award.PlayerID != *filter.PlayerID {
			continue
		}
		if filter.Type != nil && award.Type != *filter.Type {
			continue
		}
		awards = append(awards, awardCopy(award))
	}

	slices.SortStableFunc(awards, func(a, b domain.Award) int {
		if c := b.EarnedAt.Compare(a.EarnedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(awards) > limit {
		awards = awards[:limit]
	}
	return awards, nil
}

func (s *Store) GetLeaderboard(ctx context.Context, top int) ([]domain.LeaderboardEntry, error) {
	if top < 1 || top > maxLeaderboardSize {
		return nil, fmt.Errorf("top must be between 1 and %d", maxLeaderboardSize)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int64{}
	for _, award := range s.awards {
		counts[award.PlayerID]++
	}

	entries := make([]domain.LeaderboardEntry, 0, len(counts))
	for playerID, count := range counts {
		player, ok := s.players[playerID]
		if !ok {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID:    playerID,
			Username:    player.Username,
			AwardsCount: count,
		})
	}

	slices.SortFunc(entries, func(a, b domain.LeaderboardEntry) int {
		if c := cmp.Compare(b.AwardsCount, a.AwardsCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
	if len(entries) > top {
		entries = entries[:top]
	}
	return entries, nil
}
