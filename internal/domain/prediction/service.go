package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
)

// Gateway is the remote inference service. *predictor.Client implements it.
type Gateway interface {
	Health(ctx context.Context) (json.RawMessage, error)
	ModelInfo(ctx context.Context) (json.RawMessage, error)
	DatasetInfo(ctx context.Context) (json.RawMessage, error)
	Predict(ctx context.Context, features json.RawMessage) (json.RawMessage, error)
	PredictEnhanced(ctx context.Context, features json.RawMessage) (json.RawMessage, error)
}

type Service struct {
	gateway  Gateway
	saved    Repository
	patients ownership.Parents
	now      func() time.Time
}

func NewService(gateway Gateway, repo Repository, patients ownership.Parents) *Service {
	return &Service{gateway: gateway, saved: repo, patients: patients, now: time.Now}
}

func (s *Service) Health(ctx context.Context) (json.RawMessage, error) {
	return s.gateway.Health(ctx)
}

func (s *Service) ModelInfo(ctx context.Context) (json.RawMessage, error) {
	return s.gateway.ModelInfo(ctx)
}

func (s *Service) DatasetInfo(ctx context.Context) (json.RawMessage, error) {
	return s.gateway.DatasetInfo(ctx)
}

// Predict forwards features unchanged; enhanced selects the model with dataset analysis.
func (s *Service) Predict(ctx context.Context, features json.RawMessage, enhanced bool) (*Result, error) {
	if !HasFeatures(features) {
		return nil, errs.BadRequest(NoFeaturesMessage)
	}
	call := s.gateway.Predict
	if enhanced {
		call = s.gateway.PredictEnhanced
	}
	data, err := call(ctx, features)
	if err != nil {
		return nil, err
	}
	return &Result{Data: data, Timestamp: s.now().UTC()}, nil
}

func (s *Service) Save(ctx context.Context, owner string, in *SaveInput) (*Saved, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	pid, err := in.Validate()
	if err != nil {
		return nil, err
	}
	rec := &Saved{
		ID:               uuid.New(),
		UserID:           owner,
		InputData:        in.InputData,
		PredictionResult: in.PredictionResult,
		SavedAt:          s.now().UTC(),
	}
	if pid != uuid.Nil {
		if err := ownership.RequireParent(ctx, s.patients, owner, pid); err != nil {
			return nil, err
		}
		rec.PatientID = &pid
	}
	if err := s.saved.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("save prediction: %w", err)
	}
	return rec, nil
}

// List returns the caller's saved predictions with patient summaries attached
// to those tied to a patient.
func (s *Service) List(ctx context.Context, owner string) ([]*Saved, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	items, err := s.saved.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	linked := make([]*Saved, 0, len(items))
	for _, it := range items {
		if it.PatientID != nil {
			linked = append(linked, it)
		}
	}
	err = ownership.Populate(ctx, s.patients, owner, linked,
		func(it *Saved) uuid.UUID { return *it.PatientID },
		func(it *Saved, ref *ownership.PatientRef) { it.Patient = ref })
	return items, err
}
