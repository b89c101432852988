package ports

import (
	"log/slog"
	"net/http"

	"github.com/guildhall/mmoawards/internal/logging"
	"github.com/guildhall/mmoawards/internal/ratelimiting"
	"github.com/guildhall/mmoawards/internal/reporting"
)

type endpointLimits struct {
	refillPerSecond ratelimiting.RefillPerSecond
	burstSize       ratelimiting.BurstSize
}

var readEndpointLimits = endpointLimits{
	refillPerSecond: ratelimiting.RefillPerSecond(4),
	burstSize:       ratelimiting.BurstSize(240),
}

func buildEndpointMiddleware(
	port string,
	limits endpointLimits,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) func(http.HandlerFunc) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(limits.refillPerSecond, limits.burstSize)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(ipLimiter, ratelimiting.IPKeyFunc)

	return ComposeMiddlewares(
		buildMetricsMiddleware(port),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware(port),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, writeRateLimitExceeded),
	)
}
