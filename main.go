package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback"

	"github.com/guildhall/mmoawards/internal/adapters/awardrepository"
	"github.com/guildhall/mmoawards/internal/adapters/cache"
	"github.com/guildhall/mmoawards/internal/adapters/database"
	"github.com/guildhall/mmoawards/internal/adapters/eventrepository"
	"github.com/guildhall/mmoawards/internal/adapters/playerrepository"
	"github.com/guildhall/mmoawards/internal/app"
	"github.com/guildhall/mmoawards/internal/config"
	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/logging"
	"github.com/guildhall/mmoawards/internal/ports"
	"github.com/guildhall/mmoawards/internal/reporting"
	"github.com/guildhall/mmoawards/internal/telemetry"
)

func main() {
	ctx := context.Background()

	instanceID := uuid.New().String()
	rootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		rootLogger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	rootLogger.Info("Loaded config", "config", config.NonSensitiveString())

	logger := slog.New(
		logging.NewCloudTraceLogHandler(rootLogger.Handler(), config.GCPProject()),
	)

	shutdownOTel, err := telemetry.SetupOTelSDK(ctx, "mmoawards")
	if err != nil {
		fail("Failed to set up OpenTelemetry", "error", err.Error())
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
		}
	}()
	logger.Info("Initialized OpenTelemetry")

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	logger.Info("Initializing database connection")
	db, err := database.NewPostgresDatabaseFromConfig(config)
	if err != nil {
		fail("Failed to initialize database", "error", err.Error())
	}
	defer db.Close()
	logger.Info("Initialized database connection")

	repositorySchemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, repositorySchemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	playerRepo := playerrepository.NewPostgres(db, repositorySchemaName, time.Now)
	_ = playerRepo
	eventRepo := eventrepository.NewPostgres(db, repositorySchemaName, time.Now)
	awardRepo := awardrepository.NewPostgres(db, repositorySchemaName, time.Now)
	logger.Info("Initialized repositories")

	allowedOrigins, err := ports.NewDomainSuffixes(config.AllowedOriginSuffixes()...)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	leaderboardCache := cache.NewTTLCache[[]domain.LeaderboardEntry](1 * time.Minute)

	listAwards := app.BuildListAwards(awardRepo)
	getLeaderboard := app.BuildGetLeaderboard(awardRepo, leaderboardCache)
	listEvents := app.BuildListEvents(eventRepo)
	getEvent := app.BuildGetEvent(eventRepo)

	mux := http.NewServeMux()

	mux.HandleFunc(
		"OPTIONS /v1/awards",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /v1/awards",
		ports.MakeListAwardsHandler(
			listAwards,
			allowedOrigins,
			logger.With("port", "awards"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /v1/awards/leaderboard",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /v1/awards/leaderboard",
		ports.MakeGetLeaderboardHandler(
			getLeaderboard,
			allowedOrigins,
			logger.With("port", "leaderboard"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /v1/events",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /v1/events",
		ports.MakeListEventsHandler(
			listEvents,
			allowedOrigins,
			logger.With("port", "events"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /v1/events/{id}",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /v1/events/{id}",
		ports.MakeGetEventHandler(
			getEvent,
			allowedOrigins,
			logger.With("port", "event"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", config.Port()), otelhttp.NewHandler(mux, "mmoawards"))
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
