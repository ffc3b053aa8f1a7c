package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
)

const kind = "Patient"

type Service struct {
	patients    Repository
	phoneRegion string
	now         func() time.Time
}

func NewService(repo Repository, phoneRegion string) *Service {
	if phoneRegion == "" {
		phoneRegion = "US"
	}
	return &Service{patients: repo, phoneRegion: phoneRegion, now: time.Now}
}

// List returns the owner's active patients, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]*Patient, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	return s.patients.ListActive(ctx, owner)
}

// Search runs a text search over active patient names.
func (s *Service) Search(ctx context.Context, owner, query string) ([]*Patient, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Invalid("query", "is required")
	}
	return s.patients.SearchActive(ctx, owner, query)
}

// Get returns a patient by id. Inactive patients remain visible to their owner.
func (s *Service) Get(ctx context.Context, owner string, id uuid.UUID) (*Patient, error) {
	return ownership.Resolve(ctx, kind, owner, id, s.patients.Get)
}

func (s *Service) Create(ctx context.Context, owner string, in *Input) (*Patient, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	dob, err := in.Validate(false, s.phoneRegion)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &Patient{
		ID:        uuid.New(),
		UserID:    owner,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(p, dob)
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, in *Input) (*Patient, error) {
	p, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	dob, err := in.Validate(true, s.phoneRegion)
	if err != nil {
		return nil, err
	}
	in.Apply(p, dob)
	p.UpdatedAt = s.now().UTC()
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, s.writeErr("update", err)
	}
	return p, nil
}

// Remove deactivates a patient. Removing an inactive patient succeeds again.
func (s *Service) Remove(ctx context.Context, owner string, id uuid.UUID) error {
	p, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}
	p.IsActive = false
	p.UpdatedAt = s.now().UTC()
	if err := s.patients.Update(ctx, p); err != nil {
		return s.writeErr("remove", err)
	}
	return nil
}

// Exists implements ownership.Parents.
func (s *Service) Exists(ctx context.Context, owner string, id uuid.UUID) error {
	_, err := s.Get(ctx, owner, id)
	return err
}

// Refs implements ownership.Parents.
func (s *Service) Refs(ctx context.Context, owner string, ids []uuid.UUID) (map[uuid.UUID]ownership.PatientRef, error) {
	refs := make(map[uuid.UUID]ownership.PatientRef, len(ids))
	for _, id := range ids {
		if _, seen := refs[id]; seen {
			continue
		}
		p, err := s.Get(ctx, owner, id)
		if errs.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		refs[id] = ownership.PatientRef{ID: p.ID, Name: p.Name, Age: p.Age}
	}
	return refs, nil
}

func (s *Service) writeErr(op string, err error) error {
	if errs.IsNotFound(err) {
		return errs.NotFound(kind)
	}
	return fmt.Errorf("%s patient: %w", op, err)
}
