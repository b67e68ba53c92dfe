package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"miniblog/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebugConfig(debug bool) *config.Config {
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return cfg
}

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		handler   echo.HandlerFunc
		wantLog   bool
		wantLevel string
	}{
		{
			name:      "logs success at info",
			debug:     true,
			handler:   func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			wantLog:   true,
			wantLevel: "level=INFO",
		},
		{
			name:      "logs client error at warn",
			debug:     true,
			handler:   func(c echo.Context) error { return echo.ErrNotFound },
			wantLog:   true,
			wantLevel: "level=WARN",
		},
		{
			name:      "logs server error at error",
			debug:     true,
			handler:   func(c echo.Context) error { return echo.ErrInternalServerError },
			wantLog:   true,
			wantLevel: "level=ERROR",
		},
		{
			name:    "silent outside debug",
			handler: func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), rec)

			err := NewLoggerMiddleware(logger, newDebugConfig(tt.debug)).Handle(tt.handler)(c)

			if !tt.wantLog {
				require.NoError(t, err)
				assert.Empty(t, buf.String())
				return
			}

			require.NoError(t, err)
			assert.Contains(t, buf.String(), "HTTP Request")
			assert.Contains(t, buf.String(), tt.wantLevel)
			assert.Contains(t, buf.String(), "uri=/login")
		})
	}
}
