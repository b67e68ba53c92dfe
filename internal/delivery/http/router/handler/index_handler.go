package handler

import (
	"net/http"

	"miniblog/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// Routes lists the public API in the order GET / reports it.
var Routes = []response.Route{
	{Method: http.MethodPost, Path: "/register", Description: "Register a new user"},
	{Method: http.MethodPost, Path: "/login", Description: "Log in an existing user"},
}

// Index reports that the API is up and lists its routes.
func Index(c echo.Context) error {
	return response.Index(c, "Mini-Blog API is running!", Routes)
}

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, "Service is healthy")
}
