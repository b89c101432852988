package ports

import (
	"log/slog"
	"net/http"

	"github.com/guildhall/mmoawards/internal/app"
	"github.com/guildhall/mmoawards/internal/logging"
)

func MakeListAwardsHandler(
	listAwards app.ListAwards,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("list_awards", readEndpointLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := parseAwardFilter(r.URL.Query())
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}

		if filter.PlayerID != nil {
			ctx = logging.AddMetaToContext(ctx, slog.String("playerID", *filter.PlayerID))
		}

		awards, err := listAwards(ctx, filter)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeSuccessResponse(ctx, w, awardsToResponse(awards))
	}

	return middleware(handler)
}

func MakeGetLeaderboardHandler(
	getLeaderboard app.GetLeaderboard,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("leaderboard", readEndpointLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		top, err := parseIntParam(r.URL.Query(), "top")
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}

		entries, err := getLeaderboard(ctx, top)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeSuccessResponse(ctx, w, leaderboardToResponse(entries))
	}

	return middleware(handler)
}
