package eventrepository

import (
	"context"
	"database/sql"
	"encoding/json"
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

const pqForeignKeyViolation = "23503"

const MAX_LIMIT = 500
const DEFAULT_LIMIT = 100

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
		tracer:  otel.Tracer("mmoawards/eventrepository/postgres"),
		nowFunc: nowFunc,
	}
}

type dbEvent struct {
	ID             string     `db:"id"`
	EventType      string     `db:"event_type"`
	Details        []byte     `db:"details"`
	PlayerID       *string    `db:"player_id"`
	GuildID        *string    `db:"guild_id"`
	EventTimestamp *time.Time `db:"event_timestamp"`
	CreatedAt      time.Time  `db:"created_at"`
}

const eventColumns = "id, event_type, details, player_id, guild_id, event_timestamp, created_at"

func (e dbEvent) toDomain() (domain.Event, error) {
	eventType, err := domain.ParseEventType(e.EventType)
	if err != nil {
		return domain.Event{}, err
	}

	details, err := unmarshalDetails(e.Details)
	if err != nil {
		return domain.Event{}, err
	}

	return domain.Event{
		ID:        e.ID,
		Type:      eventType,
		Details:   details,
		PlayerID:  e.PlayerID,
		GuildID:   e.GuildID,
		Timestamp: e.EventTimestamp,
		CreatedAt: e.CreatedAt,
	}, nil
}

func marshalDetails(details domain.Details) ([]byte, error) {
	if details == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(details)
}

func unmarshalDetails(data []byte) (domain.Details, error) {
	details := domain.Details{}
	if len(data) == 0 {
		return details, nil
	}
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal details: %w", err)
	}
	return details, nil
}

func (p *Postgres) table(name string) string {
	return fmt.Sprintf("%s.%s", pq.QuoteIdentifier(p.schema), name)
}

func (p *Postgres) CreateEvent(ctx context.Context, event domain.NewEvent) (domain.Event, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CreateEvent")
	defer span.End()

	if !event.Type.Valid() {
		return domain.Event{}, fmt.Errorf("%w: %q", domain.ErrInvalidEventType, event.Type)
	}
	if event.PlayerID != nil && uuid.Validate(*event.PlayerID) != nil {
		return domain.Event{}, domain.ErrPlayerNotFound
	}
	if event.GuildID != nil && uuid.Validate(*event.GuildID) != nil {
		return domain.Event{}, domain.ErrGuildNotFound
	}

	details, err := marshalDetails(event.Details)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: %w", domain.ErrMalformedDetails, err)
	}

	var stored dbEvent
	err = p.db.GetContext(ctx, &stored, fmt.Sprintf(`INSERT INTO %s
		(id, event_type, details, player_id, guild_id, event_timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, p.table("events"), eventColumns),
		uuid.NewString(),
		string(event.Type),
		// lib/pq sends []byte as bytea
		string(details),
		event.PlayerID,
		event.GuildID,
		event.Timestamp,
		p.nowFunc(),
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation {
		if pqErr.Constraint == "events_guild_id_fkey" {
			return domain.Event{}, domain.ErrGuildNotFound
		}
		return domain.Event{}, domain.ErrPlayerNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to insert event: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"eventType": string(event.Type),
		})
		return domain.Event{}, err
	}

	created, err := stored.toDomain()
	if err != nil {
		err := fmt.Errorf("failed to convert stored event: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"eventID": stored.ID,
		})
		return domain.Event{}, err
	}

	return created, nil
}

func (p *Postgres) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetEvent")
	defer span.End()

	if uuid.Validate(eventID) != nil {
		return domain.Event{}, domain.ErrEventNotFound
	}

	var stored dbEvent
	err := p.db.GetContext(ctx, &stored, fmt.Sprintf(`SELECT %s
		FROM %s
		WHERE id = $1`, eventColumns, p.table("events")),
		eventID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, domain.ErrEventNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to select event: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"eventID": eventID,
		})
		return domain.Event{}, err
	}

	event, err := stored.toDomain()
	if err != nil {
		err := fmt.Errorf("failed to convert stored event: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"eventID": eventID,
		})
		return domain.Event{}, err
	}
	return event, nil
}

func (p *Postgres) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListEvents")
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
	addCondition := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, "$"+strconv.Itoa(len(args))))
	}

	if filter.Type != nil {
		addCondition("event_type = %s", string(*filter.Type))
	}
	if filter.PlayerID != nil {
		if uuid.Validate(*filter.PlayerID) != nil {
			return []domain.Event{}, nil
		}
		addCondition("player_id = %s", *filter.PlayerID)
	}
	if filter.GuildID != nil {
		if uuid.Validate(*filter.GuildID) != nil {
			return []domain.Event{}, nil
		}
		addCondition("guild_id = %s", *filter.GuildID)
	}
	if filter.Start != nil {
		addCondition("created_at >= %s", *filter.Start)
	}
	if filter.End != nil {
		addCondition("created_at <= %s", *filter.End)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)

	var stored []dbEvent
	err := p.db.SelectContext(ctx, &stored, fmt.Sprintf(`SELECT %s
		FROM %s
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d`, eventColumns, p.table("events"), where, len(args)),
		args...,
	)
	if err != nil {
		err := fmt.Errorf("failed to select events: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	events := make([]domain.Event, 0, len(stored))
	for _, s := range stored {
		event, err := s.toDomain()
		if err != nil {
			err := fmt.Errorf("failed to convert stored event: %w", err)
			reporting.Report(ctx, err, map[string]string{
				"eventID": s.ID,
			})
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

func (p *Postgres) KillExists(ctx context.Context, query domain.KillQuery) (bool, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.KillExists")
	defer span.End()

	if uuid.Validate(query.KillerID) != nil {
		return false, nil
	}

	var exists bool
	err := p.db.GetContext(ctx, &exists, fmt.Sprintf(`SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE event_type = $1 AND player_id = $2 AND details->>'target_id' = $3
		)`, p.table("events")),
		string(domain.EventTypePlayerKill),
		query.KillerID,
		query.TargetID,
	)
	if err != nil {
		err := fmt.Errorf("failed to check for kill: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"killerID": query.KillerID,
			"targetID": query.TargetID,
		})
		return false, err
	}

	return exists, nil
}

func (p *Postgres) CountKills(ctx context.Context, query domain.KillQuery) (int, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CountKills")
	defer span.End()

	if uuid.Validate(query.KillerID) != nil {
		return 0, nil
	}

	var count int
	err := p.db.GetContext(ctx, &count, fmt.Sprintf(`SELECT COUNT(*)
		FROM %s
		WHERE event_type = $1 AND player_id = $2 AND details->>'target_id' = $3`, p.table("events")),
		string(domain.EventTypePlayerKill),
		query.KillerID,
		query.TargetID,
	)
	if err != nil {
		err := fmt.Errorf("failed to count kills: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"killerID": query.KillerID,
			"targetID": query.TargetID,
		})
		return 0, err
	}

	return count, nil
}
