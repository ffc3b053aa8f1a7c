package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths bypass caller identity resolution: health checks, metrics, the
// endpoint index and the prediction proxy. Saving a prediction stays private.
var publicPaths = map[string]bool{
	"/":             true,
	"/api/health":   true,
	"/health/store": true,
	"/metrics":      true,

	"/api/predictions/health":           true,
	"/api/predictions/model-info":       true,
	"/api/predictions/dataset-info":     true,
	"/api/predictions/predict":          true,
	"/api/predictions/predict-enhanced": true,
}

// AuthSkipper reports whether the matched route is public. Requests that
// matched no route are skipped too so they answer 404 instead of 401.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()] || unmatched(c.Path())
}

func unmatched(path string) bool {
	return path == "" || path == "/api" || strings.HasSuffix(path, "/*")
}

func IsPublicPath(path string) bool {
	return publicPaths[path]
}
