package ports_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guildhall/mmoawards/internal/ports"
)

const PROD_DOMAIN_SUFFIX = "guildhall.gg"
const STAGING_DOMAIN_SUFFIX = "guildhall-dashboard.pages.dev"

type originRule struct {
	origin  string
	allowed bool
}

func TestNewDomainSuffixes(t *testing.T) {
	t.Parallel()

	_, err := ports.NewDomainSuffixes(".guildhall.gg")
	require.Error(t, err)

	_, err = ports.NewDomainSuffixes("https://guildhall.gg")
	require.Error(t, err)
}

func TestCORS(t *testing.T) {
	t.Parallel()
	allowedOrigins, err := ports.NewDomainSuffixes(
		PROD_DOMAIN_SUFFIX,
		STAGING_DOMAIN_SUFFIX,
	)
	require.NoError(t, err)

	cases := []originRule{
		// Prod
		{origin: "https://guildhall.gg", allowed: true},
		{origin: "https://www.guildhall.gg", allowed: true},
		// Staging
		{origin: "https://53bcd591.guildhall-dashboard.pages.dev", allowed: true},
		{origin: "https://guildhall-dashboard.pages.dev", allowed: true},
		// Other pages
		{origin: "https://example.com", allowed: false},
		{origin: "https://www.example.com", allowed: false},
		// Similar-looking domains
		{origin: "https://guild-hall.gg", allowed: false},
		{origin: "https://myguildhall.gg", allowed: false},
		{origin: "https://www.myguildhall.gg", allowed: false},
		{origin: "https://superguildhall-dashboard.pages.dev", allowed: false},
		// Weird cases
		{origin: "", allowed: false},
		{origin: "guildhall.gg", allowed: false},
		{origin: "http://guildhall.gg", allowed: false},
		{origin: "https://guildhall.gg.evil.com", allowed: false},
		{origin: "pages.dev", allowed: false},
	}

	runCORSTest := func(t *testing.T, handler http.HandlerFunc, method string, c originRule, handlerStatusCode int, handlerBody []byte) {
		req := httptest.NewRequest(method, "https://api.guildhall.gg", nil)
		req.Header.Set("Origin", c.origin)
		w := httptest.NewRecorder()

		handler(w, req)

		resp := w.Result()

		// The handler is allowed to run when the method is not OPTIONS
		if method != http.MethodOptions || !c.allowed {
			require.Equal(t, handlerStatusCode, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equal(t, handlerBody, body)
		}

		if !c.allowed {
			require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
			require.Empty(t, resp.Header.Get("Access-Control-Allow-Methods"))
			require.Empty(t, resp.Header.Get("Access-Control-Allow-Headers"))
			return
		}

		require.Equal(t, c.origin, resp.Header.Get("Access-Control-Allow-Origin"))
		if method == http.MethodOptions {
			require.Equal(t, http.StatusNoContent, resp.StatusCode)
			require.Equal(t, "GET", resp.Header.Get("Access-Control-Allow-Methods"))
			require.Equal(t, "Content-Type, X-Request-Id", resp.Header.Get("Access-Control-Allow-Headers"))
		} else {
			require.Empty(t, resp.Header.Get("Access-Control-Allow-Methods"))
			require.Empty(t, resp.Header.Get("Access-Control-Allow-Headers"))
		}
	}

	t.Run("BuildCORSMiddleware", func(t *testing.T) {
		t.Parallel()
		middleware := ports.BuildCORSMiddleware(allowedOrigins)

		handler := middleware(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
				w.Write([]byte("Hello, world!"))
			},
		)

		for _, c := range cases {
			t.Run(fmt.Sprintf("Origin:'%s'", c.origin), func(t *testing.T) {
				t.Parallel()
				for _, method := range []string{"GET", "POST", "OPTIONS"} {
					t.Run(method, func(t *testing.T) {
						t.Parallel()

						runCORSTest(t, handler, method, c, http.StatusTeapot, []byte("Hello, world!"))
					})
				}
			})
		}
	})

	t.Run("BuildCORSHandler", func(t *testing.T) {
		t.Parallel()
		handler := ports.BuildCORSHandler(allowedOrigins)

		for _, c := range cases {
			t.Run(fmt.Sprintf("Origin:'%s'", c.origin), func(t *testing.T) {
				t.Parallel()
				for _, method := range []string{"GET", "OPTIONS"} {
					t.Run(method, func(t *testing.T) {
						t.Parallel()

						runCORSTest(t, handler, method, c, http.StatusNoContent, []byte{})
					})
				}
			})
		}
	})
}
