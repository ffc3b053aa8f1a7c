package medication

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
	"github.com/alzcare/alzcare/pkg/dates"
)

const kind = "Medication"

type Service struct {
	medications Repository
	patients    ownership.Parents
	now         func() time.Time
}

func NewService(repo Repository, patients ownership.Parents) *Service {
	return &Service{medications: repo, patients: patients, now: time.Now}
}

// List returns the owner's active medications, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]*Medication, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	items, err := s.medications.ListActive(ctx, owner)
	if err != nil {
		return nil, err
	}
	return items, s.populate(ctx, owner, items)
}

func (s *Service) ListByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Medication, error) {
	if err := ownership.RequireParent(ctx, s.patients, owner, patientID); err != nil {
		return nil, err
	}
	return s.medications.ListActiveByPatient(ctx, owner, patientID)
}

// Get returns a medication by id, including inactive ones.
func (s *Service) Get(ctx context.Context, owner string, id uuid.UUID) (*Medication, error) {
	m, err := ownership.Resolve(ctx, kind, owner, id, s.medications.Get)
	if err != nil {
		return nil, err
	}
	return m, s.populate(ctx, owner, []*Medication{m})
}

func (s *Service) Create(ctx context.Context, owner string, in *Input) (*Medication, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	f, err := in.Validate(false)
	if err != nil {
		return nil, err
	}
	if err := ownership.RequireParent(ctx, s.patients, owner, f.patientID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	m := &Medication{
		ID:        uuid.New(),
		UserID:    owner,
		StartDate: now,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(m, f)
	if err := m.checkPeriod(); err != nil {
		return nil, err
	}
	if err := s.medications.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, in *Input) (*Medication, error) {
	m, err := ownership.Resolve(ctx, kind, owner, id, s.medications.Get)
	if err != nil {
		return nil, err
	}
	f, err := in.Validate(true)
	if err != nil {
		return nil, err
	}
	if in.PatientID != nil && f.patientID != m.PatientID {
		if err := ownership.RequireParent(ctx, s.patients, owner, f.patientID); err != nil {
			return nil, err
		}
	}
	in.Apply(m, f)
	if err := m.checkPeriod(); err != nil {
		return nil, err
	}
	return m, s.save(ctx, "update", m)
}

// Remove deactivates a medication. Removing an inactive medication succeeds again.
func (s *Service) Remove(ctx context.Context, owner string, id uuid.UUID) error {
	m, err := ownership.Resolve(ctx, kind, owner, id, s.medications.Get)
	if err != nil {
		return err
	}
	if !m.IsActive {
		return nil
	}
	m.IsActive = false
	return s.save(ctx, "remove", m)
}

// MarkTaken records a dose at the given time, or now when in carries none.
func (s *Service) MarkTaken(ctx context.Context, owner string, id uuid.UUID, in *TakenInput) (*Medication, error) {
	m, err := ownership.Resolve(ctx, kind, owner, id, s.medications.Get)
	if err != nil {
		return nil, err
	}
	at := s.now().UTC()
	if in != nil && in.LastTaken != nil && *in.LastTaken != "" {
		t, err := dates.Parse(*in.LastTaken)
		if err != nil {
			return nil, errs.Invalid("lastTaken", "malformed date %q", *in.LastTaken)
		}
		at = t
	}
	m.LastTaken = &at
	return m, s.save(ctx, "mark taken", m)
}

func (s *Service) save(ctx context.Context, op string, m *Medication) error {
	m.UpdatedAt = s.now().UTC()
	err := s.medications.Update(ctx, m)
	switch {
	case err == nil:
		return nil
	case errs.IsNotFound(err):
		return errs.NotFound(kind)
	default:
		return fmt.Errorf("%s medication: %w", op, err)
	}
}

func (s *Service) populate(ctx context.Context, owner string, items []*Medication) error {
	return ownership.Populate(ctx, s.patients, owner, items,
		func(m *Medication) uuid.UUID { return m.PatientID },
		func(m *Medication, ref *ownership.PatientRef) { m.Patient = ref })
}
