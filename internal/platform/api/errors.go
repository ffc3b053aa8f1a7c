package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/alzcare/alzcare/internal/errs"
)

// ErrorHandler maps errors returned by handlers onto the response envelope.
// Outside development, unexpected errors are logged and answered with a
// generic message.
func ErrorHandler(logger zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := Classify(err, development)
		if status >= http.StatusInternalServerError {
			reqID, _ := c.Get("request_id").(string)
			event := logger.Error()
			if status == http.StatusServiceUnavailable {
				event = logger.Warn()
			}
			event.Err(err).
				Str("request_id", reqID).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to write error response")
		}
	}
}

// Classify returns the status code and envelope for err.
func Classify(err error, development bool) (int, Envelope) {
	var (
		validation *errs.ValidationError
		notFound   *errs.NotFoundError
		badRequest *errs.RequestError
		upstream   *errs.UpstreamError
		httpErr    *echo.HTTPError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, Envelope{Message: "Validation failed", Errors: validation.Fields}
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, Envelope{Message: badRequest.Message}
	case errors.As(err, &notFound):
		return http.StatusNotFound, Envelope{Message: notFound.Kind + " not found"}
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, Envelope{Message: "Resource not found"}
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized, Envelope{Message: "Authentication required"}
	case errors.As(err, &upstream):
		return upstream.Status, Envelope{Message: "Prediction failed", Error: upstreamBody(upstream.Body)}
	case errors.Is(err, errs.ErrUpstreamTimeout):
		return http.StatusServiceUnavailable, Envelope{Message: "Prediction service timed out"}
	case errors.Is(err, errs.ErrUpstreamUnreachable):
		return http.StatusServiceUnavailable, Envelope{Message: "Prediction service is not responding"}
	case errors.Is(err, errs.ErrUnavailable):
		env := Envelope{Message: "Service unavailable"}
		if development {
			env.Error = err.Error()
		}
		return http.StatusServiceUnavailable, env
	case errors.As(err, &httpErr):
		return httpErr.Code, Envelope{Message: httpMessage(httpErr)}
	}
	env := Envelope{Message: "Internal server error"}
	if development {
		env.Error = err.Error()
	}
	return http.StatusInternalServerError, env
}

func httpMessage(he *echo.HTTPError) string {
	if he.Code == http.StatusNotFound {
		return "Route not found"
	}
	if m, ok := he.Message.(string); ok {
		return m
	}
	if he.Message != nil {
		return fmt.Sprint(he.Message)
	}
	return http.StatusText(he.Code)
}

func upstreamBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}
