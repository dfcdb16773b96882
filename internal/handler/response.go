package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body returned when there is nothing but a message to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// Success sends data as the JSON body.
func Success(c echo.Context, status int, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, data)
}

// Message sends a {"message": ...} body.
func Message(c echo.Context, status int, message string) error {
	return Success(c, status, MessageResponse{Message: message})
}

// Error sends an {"error": ...} body.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorResponse{Error: message})
}
