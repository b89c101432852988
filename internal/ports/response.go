package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/reporting"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause"`
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, cause string) {
	response, err := json.Marshal(errorResponse{Success: false, Cause: cause})
	if err != nil {
		response = []byte(`{"success":false,"cause":"internal server error"}`)
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(response)
}

func writeSuccessResponse(ctx context.Context, w http.ResponseWriter, data any) {
	response, err := json.Marshal(data)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to marshal response: %w", err))
		writeErrorResponse(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

// writeAppError maps errors from the app layer to a status code.
// NOTE: The app layer and repositories report their own errors
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidEventType),
		errors.Is(err, domain.ErrInvalidAwardType):
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrPlayerNotFound):
		writeErrorResponse(w, http.StatusNotFound, "not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorResponse(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}
