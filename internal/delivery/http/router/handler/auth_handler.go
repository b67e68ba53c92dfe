package handler

import (
	"log/slog"
	"net/http"

	"miniblog/internal/delivery/http/response"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

// AuthHandler serves registration and login.
type AuthHandler struct {
	registration   usecase.RegistrationUsecase
	authentication usecase.AuthenticationUsecase
	logger         *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(
	registration usecase.RegistrationUsecase,
	authentication usecase.AuthenticationUsecase,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		registration:   registration,
		authentication: authentication,
		logger:         logger,
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	if _, err := h.registration.Register(c.Request().Context(), &usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, "Registration successful.")
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	if _, err := h.authentication.Authenticate(c.Request().Context(), &usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, "Login successful.")
}
