package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"miniblog/config"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestConfig(reveal bool) *config.Config {
	return &config.Config{Auth: &config.AuthConfig{RevealLoginFailureReason: reveal}}
}

func TestHandleHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		reveal     bool
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "validation error lists fields",
			err: domainerrors.NewValidationError(
				domainerrors.FieldError{Field: "username", Message: "Username is required."},
				domainerrors.FieldError{Field: "password", Message: "Password is required."},
			),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"errors":[{"field":"username","message":"Username is required."},{"field":"password","message":"Password is required."}]}`,
		},
		{
			name:       "duplicate user",
			err:        domainerrors.ErrUserAlreadyExists.WrapMessage("register alice"),
			wantStatus: http.StatusConflict,
			wantBody:   `{"success":false,"error":"User already registered."}`,
		},
		{
			name:       "unknown user merged",
			err:        domainerrors.ErrUserNotFound.WrapMessage("authenticate"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"success":false,"error":"Invalid username or password."}`,
		},
		{
			name:       "wrong password merged",
			err:        errors.WithStack(domainerrors.ErrInvalidPassword),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"success":false,"error":"Invalid username or password."}`,
		},
		{
			name:       "unknown user revealed",
			reveal:     true,
			err:        domainerrors.ErrUserNotFound.WrapMessage("authenticate"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"success":false,"error":"User not found."}`,
		},
		{
			name:       "wrong password revealed",
			reveal:     true,
			err:        domainerrors.ErrInvalidPassword.WrapMessage("authenticate"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"success":false,"error":"Incorrect password."}`,
		},
		{
			name:       "storage failure hidden",
			err:        domainerrors.NewStorageError(errors.New("disk full"), "save users"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"Internal server error"}`,
		},
		{
			name:       "lock timeout keeps its message",
			err:        domainerrors.ErrLockTimeout.WithDetails("deadline"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"success":false,"error":"Credential store is busy, please retry"}`,
		},
		{
			name:       "echo http error",
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"error":"Not Found"}`,
		},
		{
			name:       "echo http error without string message",
			err:        echo.NewHTTPError(http.StatusRequestEntityTooLarge, 42),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   `{"success":false,"error":"Request Entity Too Large"}`,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"error":"Internal server error"}`,
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), rec)

			NewErrorMiddleware(logger, newTestConfig(tt.reveal)).HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandleHTTPError_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/missing", nil), rec)

	NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)), nil).HandleHTTPError(echo.ErrNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleHTTPError_Committed(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	assert.NoError(t, c.String(http.StatusOK, "done"))

	NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)), nil).HandleHTTPError(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
