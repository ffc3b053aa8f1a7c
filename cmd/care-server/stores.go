package main

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/alzcare/alzcare/internal/config"
	"github.com/alzcare/alzcare/internal/domain/activity"
	"github.com/alzcare/alzcare/internal/domain/appointment"
	"github.com/alzcare/alzcare/internal/domain/assessment"
	"github.com/alzcare/alzcare/internal/domain/medication"
	"github.com/alzcare/alzcare/internal/domain/patient"
	"github.com/alzcare/alzcare/internal/domain/prediction"
	"github.com/alzcare/alzcare/internal/platform/db"
	"github.com/alzcare/alzcare/internal/platform/docstore"
)

// storeSet is the backend every collection is opened on. Exactly one of
// mongo, pool or offline is set, or none for the memory driver.
type storeSet struct {
	driver  string
	client  *mongo.Client
	mongo   *mongo.Database
	pool    *pgxpool.Pool
	offline error
}

// openStores connects the configured driver. A missing or unreachable
// backend does not stop the server: every store operation then answers 503.
func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *storeSet {
	s := &storeSet{driver: cfg.StoreDriver}
	switch cfg.StoreDriver {
	case config.DriverMongo:
		if cfg.MongoURI == "" {
			s.offline = errors.New("MONGO_URI is not set")
			break
		}
		client, database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			s.offline = err
			break
		}
		s.client, s.mongo = client, database
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			s.offline = errors.New("DATABASE_URL is not set")
			break
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			s.offline = err
			break
		}
		s.pool = pool
	}

	if s.offline != nil {
		logger.Warn().Err(s.offline).Str("driver", s.driver).
			Msg("store unavailable, starting without database; resource endpoints will answer 503")
	} else {
		logger.Info().Str("driver", s.driver).Msg("store connected")
	}
	return s
}

func (s *storeSet) probe() db.Probe {
	switch {
	case s.offline != nil:
		return db.OfflineProbe(s.driver, s.offline)
	case s.client != nil:
		return db.MongoProbe(s.client)
	case s.pool != nil:
		return db.PostgresProbe(s.pool)
	}
	return db.Probe{Driver: s.driver}
}

func (s *storeSet) Close() {
	if s.client != nil {
		_ = s.client.Disconnect(context.Background())
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

func collection[T docstore.Document](s *storeSet, opts docstore.Options) docstore.Collection[T] {
	switch {
	case s.offline != nil:
		return docstore.Offline[T]{Reason: s.offline}
	case s.mongo != nil:
		return docstore.NewMongo[T](s.mongo, opts)
	case s.pool != nil:
		return docstore.NewPostgres[T](s.pool, opts)
	}
	return docstore.NewMemory[T](opts)
}

// ensureIndexes creates the mongo indexes the list and search queries rely on.
func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	byPatientDate := bson.D{{Key: "patientId", Value: 1}, {Key: "date", Value: -1}}
	steps := []struct {
		name string
		run  func() error
	}{
		{"patients", func() error {
			return docstore.NewMongo[*patient.Patient](database, patient.StoreOptions).
				EnsureIndexes(ctx, bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}})
		}},
		{"assessments", func() error {
			return docstore.NewMongo[*assessment.Assessment](database, assessment.StoreOptions).
				EnsureIndexes(ctx, byPatientDate)
		}},
		{"medications", func() error {
			return docstore.NewMongo[*medication.Medication](database, medication.StoreOptions).
				EnsureIndexes(ctx, bson.D{{Key: "patientId", Value: 1}, {Key: "isActive", Value: 1}})
		}},
		{"activities", func() error {
			return docstore.NewMongo[*activity.Activity](database, activity.StoreOptions).
				EnsureIndexes(ctx, byPatientDate, bson.D{{Key: "type", Value: 1}})
		}},
		{"appointments", func() error {
			return docstore.NewMongo[*appointment.Appointment](database, appointment.StoreOptions).
				EnsureIndexes(ctx,
					bson.D{{Key: "patientId", Value: 1}, {Key: "date", Value: 1}},
					bson.D{{Key: "status", Value: 1}, {Key: "date", Value: 1}})
		}},
		{"predictions", func() error {
			return docstore.NewMongo[*prediction.Saved](database, prediction.StoreOptions).
				EnsureIndexes(ctx, bson.D{{Key: "savedAt", Value: -1}})
		}},
	}
	for _, st := range steps {
		if err := st.run(); err != nil {
			return err
		}
	}
	return nil
}
