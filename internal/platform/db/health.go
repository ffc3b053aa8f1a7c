package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"totalConns"`
	IdleConns       int32  `json:"idleConns"`
	AcquiredConns   int32  `json:"acquiredConns"`
	MaxConns        int32  `json:"maxConns"`
	AcquireCount    int64  `json:"acquireCount"`
	AcquireDuration string `json:"acquireDuration"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// Probe checks one store backend.
type Probe struct {
	Driver string
	Ping   func(ctx context.Context) error
	// Details is optional extra state reported alongside the status.
	Details func() interface{}
}

// PostgresProbe pings pool and reports its statistics.
func PostgresProbe(pool *pgxpool.Pool) Probe {
	return Probe{
		Driver:  "postgres",
		Ping:    pool.Ping,
		Details: func() interface{} { return GetPoolStats(pool) },
	}
}

// MongoProbe pings the primary.
func MongoProbe(client *mongo.Client) Probe {
	return Probe{
		Driver: "mongo",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}
}

// OfflineProbe always reports the store unavailable with reason.
func OfflineProbe(driver string, reason error) Probe {
	return Probe{
		Driver: driver,
		Ping:   func(context.Context) error { return reason },
	}
}

type healthBody struct {
	Success bool        `json:"success"`
	Driver  string      `json:"driver"`
	Status  string      `json:"status"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// HealthHandler answers 200 when the store responds within five seconds and
// 503 otherwise.
func HealthHandler(p Probe) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		body := healthBody{Driver: p.Driver, Status: "healthy", Success: true}
		if p.Details != nil {
			body.Details = p.Details()
		}
		if p.Ping != nil {
			if err := p.Ping(ctx); err != nil {
				body.Success = false
				body.Status = "unhealthy"
				body.Error = err.Error()
				return c.JSON(http.StatusServiceUnavailable, body)
			}
		}
		return c.JSON(http.StatusOK, body)
	}
}
