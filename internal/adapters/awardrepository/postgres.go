package awardrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const MAX_LIMIT = 500
const DEFAULT_LIMIT = 100
const MAX_LEADERBOARD_SIZE = 100

type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  otel.Tracer("mmoawards/awardrepository/postgres"),
		nowFunc: nowFunc,
	}
}

type dbAward struct {
	ID              string    `db:"id"`
	PlayerID        string    `db:"player_id"`
	AwardType       string    `db:"award_type"`
	EventID         *string   `db:"event_id"`
	SubjectPlayerID *string   `db:"subject_player_id"`
	Description     string    `db:"description"`
	EarnedAt        time.Time `db:"earned_at"`
}

const awardColumns = "id, player_id, award_type, event_id, subject_player_id, description, earned_at"

func (a dbAward) toDomain() (domain.Award, error) {
	awardType, err := domain.ParseAwardType(a.AwardType)
	if err != nil {
		return domain.Award{}, err
	}
	return domain.Award{
		ID:              a.ID,
		PlayerID:        a.PlayerID,
		Type:            awardType,
		EventID:         a.EventID,
		SubjectPlayerID: a.SubjectPlayerID,
		Description:     a.Description,
		EarnedAt:        a.EarnedAt,
	}, nil
}

func (p *Postgres) table(name string) string {
	return fmt.Sprintf("%s.%s", pq.QuoteIdentifier(p.schema), name)
}

func (p *Postgres) GrantAward(ctx context.Context, grant domain.AwardGrant) (domain.Award, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GrantAward")
	defer span.End()

	extras := map[string]string{
		"playerID":  grant.PlayerID,
		"awardType": string(grant.Type),
		"eventID":   grant.EventID,
	}

	if uuid.Validate(grant.PlayerID) != nil || uuid.Validate(grant.EventID) != nil {
		err := fmt.Errorf("award grant has invalid player or event id")
		reporting.Report(ctx, err, extras)
		return domain.Award{}, err
	}

	// The conflict target is left out so both the (player, type, event) constraint and
	// the rival slayer index turn a duplicate into a no-op
	var stored dbAward
	err := p.db.GetContext(ctx, &stored, fmt.Sprintf(`INSERT INTO %s
		(id, player_id, award_type, event_id, subject_player_id, description, earned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
		RETURNING %s`, p.table("awards"), awardColumns),
		uuid.NewString(),
		grant.PlayerID,
		string(grant.Type),
		grant.EventID,
		grant.SubjectPlayerID,
		grant.Description,
		p.nowFunc(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Award{}, domain.ErrAwardAlreadyGranted
	} else if err != nil {
		err := fmt.Errorf("failed to insert award: %w", err)
		reporting.Report(ctx, err, extras)
		return domain.Award{}, err
	}

	award, err := stored.toDomain()
	if err != nil {
		err := fmt.Errorf("failed to convert stored award: %w", err)
		reporting.Report(ctx, err, extras)
		return domain.Award{}, err
	}
	return award, nil
}

func (p *Postgres) ListAwards(ctx context.Context, filter domain.AwardFilter) ([]domain.Award, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListAwards")
	defer span.End()

	limit := filter.Limit
	if limit == 0 {
		limit = DEFAULT_LIMIT
	}
	if limit < 1 || limit > MAX_LIMIT {
		return nil, fmt.Errorf("limit must be between 1 and %d", MAX_LIMIT)
	}

	conditions := []string{}
	args := []any{}
	if filter.PlayerID != nil {
		if uuid.Validate(*filter.PlayerID) != nil {
			return []domain.Award{}, nil
		}
		args = append(args, *filter.PlayerID)
		conditions = append(conditions, "player_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conditions = append(conditions, "award_type = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)

	var stored []dbAward
	err := p.db.SelectContext(ctx, &stored, fmt.Sprintf(`SELECT %s
		FROM %s
		%s
		ORDER BY earned_at DESC, id
		LIMIT $%d`, awardColumns, p.table("awards"), where, len(args)),
		args...,
	)
	if err != nil {
		err := fmt.Errorf("failed to select awards: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	awards := make([]domain.Award, 0, len(stored))
	for _, s := range stored {
		award, err := s.toDomain()
		if err != nil {
			err := fmt.Errorf("failed to convert stored award: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"awardID": s.ID,
			})
			return nil, err
		}
		awards = append(awards, award)
	}
	return awards, nil
}

func (p *Postgres) GetLeaderboard(ctx context.Context, top int) ([]domain.LeaderboardEntry, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetLeaderboard")
	defer span.End()

	if top < 1 || top > MAX_LEADERBOARD_SIZE {
		err := fmt.Errorf("top must be between 1 and %d", MAX_LEADERBOARD_SIZE)
		reporting.Report(ctx, err, map[string]string{
			"top": strconv.Itoa(top),
		})
		return nil, err
	}

	type result struct {
		PlayerID    string `db:"player_id"`
		Username    string `db:"username"`
		AwardsCount int64  `db:"awards_count"`
	}

	var results []result
	err := p.db.SelectContext(ctx, &results, fmt.Sprintf(`SELECT
			awards.player_id, users.username, COUNT(*) AS awards_count
		FROM %s AS awards
		JOIN %s AS players ON players.id = awards.player_id
		JOIN %s AS users ON users.id = players.user_id
		GROUP BY awards.player_id, users.username
		ORDER BY awards_count DESC, users.username
		LIMIT $1`,
		p.table("awards"), p.table("players"), p.table("users"),
	),
		top,
	)
	if err != nil {
		err := fmt.Errorf("failed to select leaderboard: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID:    r.PlayerID,
			Username:    r.Username,
			AwardsCount: r.AwardsCount,
		})
	}
	return entries, nil
}
