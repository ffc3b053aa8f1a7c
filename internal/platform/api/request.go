package api

import (
	"encoding/json"
	"errors"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/auth"
)

// Owner returns the caller identity attached by the auth middleware.
func Owner(c echo.Context) string {
	return auth.UserIDFromContext(c.Request().Context())
}

// ParamID parses a UUID path parameter. A malformed id cannot name a record,
// so it is reported as not found for kind.
func ParamID(c echo.Context, name, kind string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errs.NotFound(kind)
	}
	return id, nil
}

// PathText returns a free-text path parameter. The router leaves a value
// escaped when the request carried an escaped path, so decode it here.
func PathText(c echo.Context, name string) string {
	raw := c.Param(name)
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

// Bind decodes the request body into v, reporting decode failures as
// validation errors on the offending field where one is known.
func Bind(c echo.Context, v interface{}) error {
	err := c.Bind(v)
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		err = he.Internal
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return errs.Invalid(typeErr.Field, "must be of type %s", typeErr.Type.String())
	}
	return errs.Invalid("body", "malformed request body")
}
