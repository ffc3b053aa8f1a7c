package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
	"github.com/alzcare/alzcare/internal/platform/validate"
	"github.com/alzcare/alzcare/pkg/dates"
)

const kind = "Activity"

type Service struct {
	activities Repository
	patients   ownership.Parents
	now        func() time.Time
}

func NewService(repo Repository, patients ownership.Parents) *Service {
	return &Service{activities: repo, patients: patients, now: time.Now}
}

func (s *Service) List(ctx context.Context, owner string) ([]*Activity, error) {
	return s.list(ctx, owner, Filter{}, true)
}

func (s *Service) ListByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Activity, error) {
	if err := ownership.RequireParent(ctx, s.patients, owner, patientID); err != nil {
		return nil, err
	}
	return s.list(ctx, owner, Filter{PatientID: patientID}, false)
}

// ListByType returns the owner's activities of one category.
func (s *Service) ListByType(ctx context.Context, owner, typ string) ([]*Activity, error) {
	v := &errs.ValidationError{}
	validate.OneOf(v, "type", &typ, Types)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return s.list(ctx, owner, Filter{Type: typ}, true)
}

// ListByRange returns activities dated within [start, end]. A bare calendar
// date as end covers that whole day.
func (s *Service) ListByRange(ctx context.Context, owner, start, end string) ([]*Activity, error) {
	v := &errs.ValidationError{}
	from, err := dates.Parse(start)
	if err != nil {
		v.Add("startDate", "malformed date %q", start)
	}
	to, err := dates.ParseUpper(end)
	if err != nil {
		v.Add("endDate", "malformed date %q", end)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, errs.Invalid("endDate", "must not be before startDate")
	}
	return s.list(ctx, owner, Filter{From: &from, To: &to}, true)
}

func (s *Service) list(ctx context.Context, owner string, f Filter, populate bool) ([]*Activity, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	items, err := s.activities.List(ctx, owner, f)
	if err != nil {
		return nil, err
	}
	if populate {
		return items, s.populate(ctx, owner, items)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, owner string, id uuid.UUID) (*Activity, error) {
	a, err := ownership.Resolve(ctx, kind, owner, id, s.activities.Get)
	if err != nil {
		return nil, err
	}
	return a, s.populate(ctx, owner, []*Activity{a})
}

func (s *Service) Create(ctx context.Context, owner string, in *Input) (*Activity, error) {
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
	a := &Activity{
		ID:        uuid.New(),
		UserID:    owner,
		Date:      now,
		Mood:      DefaultMood,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(a, f)
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, in *Input) (*Activity, error) {
	a, err := ownership.Resolve(ctx, kind, owner, id, s.activities.Get)
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
	if err := s.activities.Update(ctx, a); err != nil {
		return nil, writeErr("update", err)
	}
	return a, nil
}

func (s *Service) Remove(ctx context.Context, owner string, id uuid.UUID) error {
	if _, err := ownership.Resolve(ctx, kind, owner, id, s.activities.Get); err != nil {
		return err
	}
	if err := s.activities.Delete(ctx, owner, id); err != nil {
		return writeErr("delete", err)
	}
	return nil
}

func (s *Service) populate(ctx context.Context, owner string, items []*Activity) error {
	return ownership.Populate(ctx, s.patients, owner, items,
		func(a *Activity) uuid.UUID { return a.PatientID },
		func(a *Activity, ref *ownership.PatientRef) { a.Patient = ref })
}

func writeErr(op string, err error) error {
	if errs.IsNotFound(err) {
		return errs.NotFound(kind)
	}
	return fmt.Errorf("%s activity: %w", op, err)
}
