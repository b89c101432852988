package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/guildhall/mmoawards/internal/adapters/awardrepository"
	"github.com/guildhall/mmoawards/internal/adapters/cache"
	"github.com/guildhall/mmoawards/internal/adapters/database"
	"github.com/guildhall/mmoawards/internal/adapters/eventrepository"
	"github.com/guildhall/mmoawards/internal/adapters/memory"
	"github.com/guildhall/mmoawards/internal/adapters/playerrepository"
	"github.com/guildhall/mmoawards/internal/app"
	"github.com/guildhall/mmoawards/internal/config"
	"github.com/guildhall/mmoawards/internal/domain"
)

// Backend is the set of operations the commands run against
type Backend struct {
	Migrate func(ctx context.Context) error

	CreateUser     app.CreateUser
	CreateGuild    app.CreateGuild
	RegisterPlayer app.RegisterPlayer
	SetPlayerGuild app.SetPlayerGuild

	RecordEvent    app.RecordEvent
	RedetectAwards app.RedetectAwards

	ListAwards     app.ListAwards
	GetLeaderboard app.GetLeaderboard

	Close func() error
}

// BackendFactory is called once per command invocation, after flags are parsed
type BackendFactory func(ctx context.Context, opts *RootOptions, logger *slog.Logger) (*Backend, error)

type playerStore interface {
	CreateUser(ctx context.Context, username string) (domain.User, error)
	CreateGuild(ctx context.Context, name string, score int64) (domain.Guild, error)
	CreatePlayer(ctx context.Context, userID string, guildID *string) (domain.Player, error)
	SetPlayerGuild(ctx context.Context, playerID string, guildID *string) (domain.Player, error)
	GetPlayerByID(ctx context.Context, playerID string) (domain.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (domain.Player, error)
}

type eventStore interface {
	CreateEvent(ctx context.Context, event domain.NewEvent) (domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	KillExists(ctx context.Context, query domain.KillQuery) (bool, error)
	CountKills(ctx context.Context, query domain.KillQuery) (int, error)
}

type awardStore interface {
	GrantAward(ctx context.Context, grant domain.AwardGrant) (domain.Award, error)
	ListAwards(ctx context.Context, filter domain.AwardFilter) ([]domain.Award, error)
	GetLeaderboard(ctx context.Context, top int) ([]domain.LeaderboardEntry, error)
}

func buildBackend(players playerStore, events eventStore, awards awardStore) (*Backend, error) {
	resolvePlayer := app.BuildResolvePlayer(players)
	detectAwards, err := app.BuildDetectAwards(resolvePlayer, events, awards)
	if err != nil {
		return nil, fmt.Errorf("failed to build award detection: %w", err)
	}

	return &Backend{
		Migrate: func(ctx context.Context) error { return nil },

		CreateUser:     app.BuildCreateUser(players),
		CreateGuild:    app.BuildCreateGuild(players),
		RegisterPlayer: app.BuildRegisterPlayer(players),
		SetPlayerGuild: app.BuildSetPlayerGuild(players),

		RecordEvent:    app.BuildRecordEvent(events, app.AwardDetectionHook(detectAwards)),
		RedetectAwards: app.BuildRedetectAwards(events, detectAwards),

		ListAwards: app.BuildListAwards(awards),
		// A single invocation never needs a leaderboard twice
		GetLeaderboard: app.BuildGetLeaderboard(awards, cache.NewBasicCache[[]domain.LeaderboardEntry]()),

		Close: func() error { return nil },
	}, nil
}

// NewMemoryBackend keeps all state in process. Nothing survives the invocation.
func NewMemoryBackend(nowFunc func() time.Time) (*Backend, error) {
	store := memory.NewStore(nowFunc)
	return buildBackend(store, store, store)
}

func newPostgresBackend(conf config.Config, logger *slog.Logger) (*Backend, error) {
	db, err := database.NewPostgresDatabaseFromConfig(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	schema := database.GetSchemaName(!conf.IsProduction())

	backend, err := buildBackend(
		playerrepository.NewPostgres(db, schema, time.Now),
		eventrepository.NewPostgres(db, schema, time.Now),
		awardrepository.NewPostgres(db, schema, time.Now),
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	migrator := database.NewDatabaseMigrator(db, logger.With("component", "migrator"))
	backend.Migrate = func(ctx context.Context) error {
		return migrator.Migrate(ctx, schema)
	}
	backend.Close = db.Close

	return backend, nil
}

// DefaultBackendFactory uses Postgres from the environment config unless --memory is set
func DefaultBackendFactory(ctx context.Context, opts *RootOptions, logger *slog.Logger) (*Backend, error) {
	if opts.Memory {
		return NewMemoryBackend(time.Now)
	}
	return newPostgresBackend(opts.Config, logger)
}
