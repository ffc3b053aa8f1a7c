package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
)

const kind = "Assessment"

type Service struct {
	assessments Repository
	patients    ownership.Parents
	now         func() time.Time
}

func NewService(repo Repository, patients ownership.Parents) *Service {
	return &Service{assessments: repo, patients: patients, now: time.Now}
}

// List returns all of the owner's assessments, newest first, with their patient attached.
func (s *Service) List(ctx context.Context, owner string) ([]*Assessment, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	items, err := s.assessments.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return items, s.populate(ctx, owner, items)
}

func (s *Service) ListByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Assessment, error) {
	if err := ownership.RequireParent(ctx, s.patients, owner, patientID); err != nil {
		return nil, err
	}
	return s.assessments.ListByPatient(ctx, owner, patientID)
}

// Stats summarizes an owned patient's assessment history.
func (s *Service) Stats(ctx context.Context, owner string, patientID uuid.UUID) (Stats, error) {
	if err := ownership.RequireParent(ctx, s.patients, owner, patientID); err != nil {
		return Stats{}, err
	}
	history, err := s.assessments.History(ctx, owner, patientID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(history), nil
}

func (s *Service) Get(ctx context.Context, owner string, id uuid.UUID) (*Assessment, error) {
	a, err := ownership.Resolve(ctx, kind, owner, id, s.assessments.Get)
	if err != nil {
		return nil, err
	}
	return a, s.populate(ctx, owner, []*Assessment{a})
}

func (s *Service) Create(ctx context.Context, owner string, in *Input) (*Assessment, error) {
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
	a := &Assessment{
		ID:             uuid.New(),
		UserID:         owner,
		Date:           now,
		AssessmentType: DefaultType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	in.Apply(a, f)
	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	return a, nil
}

// Update applies a partial change. Moving an assessment to another patient
// requires that patient to be owned as well.
func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, in *Input) (*Assessment, error) {
	a, err := ownership.Resolve(ctx, kind, owner, id, s.assessments.Get)
	if err != nil {
		return nil, err
	}
	f, err := in.Validate(true)
	if err != nil {
		return nil, err
	}
	if in.PatientID != nil && f.patientID != a.PatientID {
		if err := ownership.RequireParent(ctx, s.patients, owner, f.patientID); err != nil {
			return nil, err
		}
	}
	in.Apply(a, f)
	a.UpdatedAt = s.now().UTC()
	if err := s.assessments.Update(ctx, a); err != nil {
		return nil, writeErr("update", err)
	}
	return a, nil
}

func (s *Service) Remove(ctx context.Context, owner string, id uuid.UUID) error {
	if _, err := ownership.Resolve(ctx, kind, owner, id, s.assessments.Get); err != nil {
		return err
	}
	if err := s.assessments.Delete(ctx, owner, id); err != nil {
		return writeErr("delete", err)
	}
	return nil
}

func (s *Service) populate(ctx context.Context, owner string, items []*Assessment) error {
	return ownership.Populate(ctx, s.patients, owner, items,
		func(a *Assessment) uuid.UUID { return a.PatientID },
		func(a *Assessment, ref *ownership.PatientRef) { a.Patient = ref })
}

func writeErr(op string, err error) error {
	if errs.IsNotFound(err) {
		return errs.NotFound(kind)
	}
	return fmt.Errorf("%s assessment: %w", op, err)
}
