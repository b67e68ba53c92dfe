package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"miniblog/config"
	"miniblog/internal/delivery/http/middleware"
	"miniblog/internal/delivery/http/validator"
	domainerrors "miniblog/internal/domain/errors"
	mockusecase "miniblog/internal/mocks/usecase"
	"miniblog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type handlerFixture struct {
	echo           *echo.Echo
	registration   *mockusecase.MockRegistrationUsecase
	authentication *mockusecase.MockAuthenticationUsecase
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registration := mockusecase.NewMockRegistrationUsecase(t)
	authentication := mockusecase.NewMockAuthenticationUsecase(t)
	h := NewAuthHandler(registration, authentication, logger)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger, &config.Config{Auth: &config.AuthConfig{}}).HandleHTTPError
	e.POST("/register", h.Register)
	e.POST("/login", h.Login)

	return &handlerFixture{echo: e, registration: registration, authentication: authentication}
}

func (f *handlerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)

	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	f := newHandlerFixture(t)
	f.registration.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{Username: "alice", Password: "secret"}).
		Return(&usecase.RegisterOutput{Username: "alice"}, nil).
		Once()

	rec := f.do(http.MethodPost, "/register", `{"username":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Registration successful."}`, rec.Body.String())
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	f := newHandlerFixture(t)
	f.registration.EXPECT().
		Register(mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrUserAlreadyExists.WrapMessage("register alice")).
		Once()

	rec := f.do(http.MethodPost, "/register", `{"username":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"User already registered."}`, rec.Body.String())
}

func TestAuthHandler_RegisterStorageFailure(t *testing.T) {
	f := newHandlerFixture(t)
	f.registration.EXPECT().
		Register(mock.Anything, mock.Anything).
		Return(nil, domainerrors.NewStorageError(io.ErrUnexpectedEOF, "load users")).
		Once()

	rec := f.do(http.MethodPost, "/register", `{"username":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, rec.Body.String())
}

func TestAuthHandler_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantBody string
	}{
		{
			name:     "missing fields",
			path:     "/register",
			body:     `{}`,
			wantBody: `{"success":false,"errors":[{"field":"username","message":"Username is required."},{"field":"password","message":"Password is required."}]}`,
		},
		{
			name:     "blank username",
			path:     "/login",
			body:     `{"username":"   ","password":"secret"}`,
			wantBody: `{"success":false,"errors":[{"field":"username","message":"Username is required."}]}`,
		},
		{
			name:     "password too long",
			path:     "/register",
			body:     `{"username":"alice","password":"` + strings.Repeat("a", 73) + `"}`,
			wantBody: `{"success":false,"errors":[{"field":"password","message":"Password must be at most 72 bytes."}]}`,
		},
		{
			name:     "malformed json",
			path:     "/register",
			body:     `{"username":`,
			wantBody: `{"success":false,"errors":[{"field":"body","message":"Request body must be a valid JSON object."}]}`,
		},
		{
			name:     "wrong type",
			path:     "/login",
			body:     `{"username":42,"password":"secret"}`,
			wantBody: `{"success":false,"errors":[{"field":"username","message":"Username must be a string."}]}`,
		},
		{
			name:     "array body",
			path:     "/login",
			body:     `[]`,
			wantBody: `{"success":false,"errors":[{"field":"body","message":"Request body must be a valid JSON object."}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: the usecases must not be reached.
			f := newHandlerFixture(t)

			rec := f.do(http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	f := newHandlerFixture(t)
	f.authentication.EXPECT().
		Authenticate(mock.Anything, &usecase.LoginInput{Username: "alice", Password: "secret"}).
		Return(&usecase.LoginOutput{Username: "alice"}, nil).
		Once()

	rec := f.do(http.MethodPost, "/login", `{"username":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Login successful."}`, rec.Body.String())
}

func TestAuthHandler_LoginFailuresAreMerged(t *testing.T) {
	for _, failure := range []error{
		domainerrors.ErrUserNotFound.WrapMessage("authenticate"),
		domainerrors.ErrInvalidPassword.WrapMessage("authenticate"),
	} {
		f := newHandlerFixture(t)
		f.authentication.EXPECT().
			Authenticate(mock.Anything, mock.Anything).
			Return(nil, failure).
			Once()

		rec := f.do(http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Invalid username or password."}`, rec.Body.String())
	}
}
