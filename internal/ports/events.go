package ports

import (
	"log/slog"
	"net/http"

	"github.com/guildhall/mmoawards/internal/app"
	"github.com/guildhall/mmoawards/internal/logging"
	"github.com/guildhall/mmoawards/internal/reporting"
)

func MakeListEventsHandler(
	listEvents app.ListEvents,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("list_events", readEndpointLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := parseEventFilter(r.URL.Query())
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}

		events, err := listEvents(ctx, filter)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeSuccessResponse(ctx, w, eventsToResponse(events))
	}

	return middleware(handler)
}

func MakeGetEventHandler(
	getEvent app.GetEvent,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildEndpointMiddleware("get_event", readEndpointLimits, allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := r.PathValue("id")

		ctx = logging.AddMetaToContext(ctx, slog.String("eventID", eventID))
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{"eventID": eventID})

		event, err := getEvent(ctx, eventID)
		if err != nil {
			writeAppError(w, err)
			return
		}

		writeSuccessResponse(ctx, w, getEventResponse{Success: true, Event: eventToResponse(event)})
	}

	return middleware(handler)
}
