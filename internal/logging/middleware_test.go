package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/guildhall/mmoawards/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type StringAttr struct {
	Key   string
	Value string
}

func TestRequestLoggerMiddleware(t *testing.T) {
	run := func(request *http.Request) []StringAttr {
		t.Helper()

		buf := &bytes.Buffer{}
		middleware := logging.NewRequestLoggerMiddleware(slog.New(slog.NewJSONHandler(buf, nil)))

		handler := middleware(func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Info("test")
		})

		handler(httptest.NewRecorder(), request)

		var logEntry map[string]any
		err := json.Unmarshal(buf.Bytes(), &logEntry)
		require.NoError(t, err)

		attrs := make([]StringAttr, 0)
		foundBase := 0
		for key, value := range logEntry {
			switch key {
			case "msg":
				assert.Equal(t, "test", value)
				foundBase++
			case "level":
				assert.Equal(t, "INFO", value)
				foundBase++
			case "time":
				foundBase++
			default:
				attrs = append(attrs, StringAttr{Key: key, Value: value.(string)})
			}
		}
		assert.Equal(t, 3, foundBase)

		return attrs
	}

	t.Run("all props", func(t *testing.T) {
		requestURL, err := url.Parse("http://example.com/v1/awards?player_id=abc")
		require.NoError(t, err)

		attrs := run(&http.Request{
			URL:    requestURL,
			Method: "GET",
			Header: http.Header{
				"X-Request-Id": []string{"request-id"},
				"User-Agent":   []string{"user-agent/1.0"},
			},
		})

		assert.ElementsMatch(t, []StringAttr{
			{Key: "requestID", Value: "request-id"},
			{Key: "userAgent", Value: "user-agent/1.0"},
			{Key: "methodPath", Value: "GET /v1/awards"},
		}, attrs)
	})

	t.Run("missing headers", func(t *testing.T) {
		requestURL, err := url.Parse("http://example.com/v1/events")
		require.NoError(t, err)

		attrs := run(&http.Request{
			URL:    requestURL,
			Method: "POST",
		})

		assert.ElementsMatch(t, []StringAttr{
			{Key: "requestID", Value: "<missing>"},
			{Key: "userAgent", Value: "<missing>"},
			{Key: "methodPath", Value: "POST /v1/events"},
		}, attrs)
	})

	t.Run("without middleware", func(t *testing.T) {
		logging.FromContext(context.Background()).Info("don't crash when no logger in context")
	})
}
