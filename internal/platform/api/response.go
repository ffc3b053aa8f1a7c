// Package api holds the JSON envelope every endpoint answers with and the
// echo error handler that turns errs values into status codes.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alzcare/alzcare/internal/errs"
)

// Envelope is the uniform response body: {success, data?, count?, message?}.
type Envelope struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Count     *int              `json:"count,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
	Errors    []errs.FieldError `json:"errors,omitempty"`
	Error     interface{}       `json:"error,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
}

// OK answers 200 with data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// List answers 200 with items and their count.
func List[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(http.StatusOK, Envelope{Success: true, Count: &n, Data: items})
}

// Created answers 201.
func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Updated answers 200 with a message and the new state.
func Updated(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Deleted answers 200 with a message and an empty data object.
func Deleted(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: struct{}{}})
}

// Fail answers with success=false.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}
