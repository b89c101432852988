package playerrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

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
		tracer:  otel.Tracer("mmoawards/playerrepository/postgres"),
		nowFunc: nowFunc,
	}
}

type dbUser struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

type dbGuild struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Score     int64     `db:"score"`
	CreatedAt time.Time `db:"created_at"`
}

func (g dbGuild) toDomain() domain.Guild {
	return domain.Guild{
		ID:        g.ID,
		Name:      g.Name,
		Score:     g.Score,
		CreatedAt: g.CreatedAt,
	}
}

type dbPlayer struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Username  string    `db:"username"`
	GuildID   *string   `db:"guild_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (p dbPlayer) toDomain() domain.Player {
	return domain.Player{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.Username,
		GuildID:   p.GuildID,
		CreatedAt: p.CreatedAt,
	}
}

func (p *Postgres) table(name string) string {
	return fmt.Sprintf("%s.%s", pq.QuoteIdentifier(p.schema), name)
}

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

func isPQCode(err error, code string) bool {
	pqErr, ok := asPQError(err)
	return ok && string(pqErr.Code) == code
}

func (p *Postgres) CreateUser(ctx context.Context, username string) (domain.User, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CreateUser")
	defer span.End()

	if username == "" {
		err := fmt.Errorf("username is empty")
		reporting.Report(ctx, err)
		return domain.User{}, err
	}

	user := dbUser{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: p.nowFunc(),
	}

	_, err := p.db.NamedExecContext(ctx, fmt.Sprintf(`INSERT INTO %s
		(id, username, created_at)
		VALUES (:id, :username, :created_at)`, p.table("users")),
		user,
	)
	if isPQCode(err, pqUniqueViolation) {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUsernameTaken, username)
	} else if err != nil {
		err := fmt.Errorf("failed to insert user: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return domain.User{}, err
	}

	return domain.User{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (p *Postgres) CreateGuild(ctx context.Context, name string, score int64) (domain.Guild, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CreateGuild")
	defer span.End()

	guild := dbGuild{
		ID:        uuid.NewString(),
		Name:      name,
		Score:     score,
		CreatedAt: p.nowFunc(),
	}

	_, err := p.db.NamedExecContext(ctx, fmt.Sprintf(`INSERT INTO %s
		(id, name, score, created_at)
		VALUES (:id, :name, :score, :created_at)`, p.table("guilds")),
		guild,
	)
	if err != nil {
		err := fmt.Errorf("failed to insert guild: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"name": name,
		})
		return domain.Guild{}, err
	}

	return guild.toDomain(), nil
}

func (p *Postgres) GetGuild(ctx context.Context, guildID string) (domain.Guild, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetGuild")
	defer span.End()

	if uuid.Validate(guildID) != nil {
		return domain.Guild{}, domain.ErrGuildNotFound
	}

	var guild dbGuild
	err := p.db.GetContext(ctx, &guild, fmt.Sprintf(`SELECT
		id, name, score, created_at
		FROM %s
		WHERE id = $1`, p.table("guilds")),
		guildID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Guild{}, domain.ErrGuildNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to select guild: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"guildID": guildID,
		})
		return domain.Guild{}, err
	}

	return guild.toDomain(), nil
}

func (p *Postgres) CreatePlayer(ctx context.Context, userID string, guildID *string) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CreatePlayer")
	defer span.End()

	if uuid.Validate(userID) != nil {
		return domain.Player{}, domain.ErrUserNotFound
	}
	if guildID != nil && uuid.Validate(*guildID) != nil {
		return domain.Player{}, domain.ErrGuildNotFound
	}

	var player dbPlayer
	err := p.db.GetContext(ctx, &player, fmt.Sprintf(`WITH inserted AS (
			INSERT INTO %s (id, user_id, guild_id, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, guild_id, created_at
		)
		SELECT inserted.id, inserted.user_id, users.username, inserted.guild_id, inserted.created_at
		FROM inserted
		JOIN %s AS users ON users.id = inserted.user_id`,
		p.table("players"), p.table("users"),
	),
		uuid.NewString(), userID, guildID, p.nowFunc(),
	)
	if pqErr, ok := asPQError(err); ok && string(pqErr.Code) == pqForeignKeyViolation {
		if pqErr.Constraint == "players_guild_id_fkey" {
			return domain.Player{}, domain.ErrGuildNotFound
		}
		return domain.Player{}, domain.ErrUserNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to insert player: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"userID": userID,
		})
		return domain.Player{}, err
	}

	return player.toDomain(), nil
}

func (p *Postgres) selectPlayer(ctx context.Context, column string, value string) (domain.Player, error) {
	var player dbPlayer
	err := p.db.GetContext(ctx, &player, fmt.Sprintf(`SELECT
		players.id, players.user_id, users.username, players.guild_id, players.created_at
		FROM %s AS players
		JOIN %s AS users ON users.id = players.user_id
		WHERE %s = $1`,
		p.table("players"), p.table("users"), column,
	),
		value,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Player{}, domain.ErrPlayerNotFound
	} else if err != nil {
		return domain.Player{}, err
	}
	return player.toDomain(), nil
}

func (p *Postgres) GetPlayerByID(ctx context.Context, playerID string) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetPlayerByID")
	defer span.End()

	// The id column is a uuid, so nothing else can match
	if uuid.Validate(playerID) != nil {
		return domain.Player{}, domain.ErrPlayerNotFound
	}

	player, err := p.selectPlayer(ctx, "players.id", playerID)
	if err != nil && !errors.Is(err, domain.ErrPlayerNotFound) {
		err := fmt.Errorf("failed to select player by id: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return domain.Player{}, err
	}
	return player, err
}

func (p *Postgres) GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetPlayerByUsername")
	defer span.End()

	player, err := p.selectPlayer(ctx, "users.username", username)
	if err != nil && !errors.Is(err, domain.ErrPlayerNotFound) {
		err := fmt.Errorf("failed to select player by username: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return domain.Player{}, err
	}
	return player, err
}

func (p *Postgres) SetPlayerGuild(ctx context.Context, playerID string, guildID *string) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.SetPlayerGuild")
	defer span.End()

	if uuid.Validate(playerID) != nil {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	if guildID != nil && uuid.Validate(*guildID) != nil {
		return domain.Player{}, domain.ErrGuildNotFound
	}

	result, err := p.db.ExecContext(ctx, fmt.Sprintf(`UPDATE %s
		SET guild_id = $2
		WHERE id = $1`, p.table("players")),
		playerID, guildID,
	)
	if isPQCode(err, pqForeignKeyViolation) {
		return domain.Player{}, domain.ErrGuildNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to update player guild: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": playerID,
		})
		return domain.Player{}, err
	}

	updated, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("failed to get affected rows: %w", err)
		reporting.Report(ctx, err)
		return domain.Player{}, err
	}
	if updated == 0 {
		return domain.Player{}, domain.ErrPlayerNotFound
	}

	return p.GetPlayerByID(ctx, playerID)
}
