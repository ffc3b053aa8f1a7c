package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
)

const kind = "Appointment"

type Service struct {
	appointments Repository
	patients     ownership.Parents
	now          func() time.Time
}

func NewService(repo Repository, patients ownership.Parents) *Service {
	return &Service{appointments: repo, patients: patients, now: time.Now}
}

func (s *Service) List(ctx context.Context, owner string) ([]*Appointment, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	items, err := s.appointments.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, owner, items, true)
}

func (s *Service) ListByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Appointment, error) {
	if err := ownership.RequireParent(ctx, s.patients, owner, patientID); err != nil {
		return nil, err
	}
	items, err := s.appointments.ListByPatient(ctx, owner, patientID)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, owner, items, false)
}

// Upcoming returns at most UpcomingLimit scheduled appointments from now on,
// soonest first.
func (s *Service) Upcoming(ctx context.Context, owner string) ([]*Appointment, error) {
	if err := ownership.Require(owner); err != nil {
		return nil, err
	}
	items, err := s.appointments.Upcoming(ctx, owner, s.now().UTC(), UpcomingLimit)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, owner, items, true)
}

func (s *Service) Get(ctx context.Context, owner string, id uuid.UUID) (*Appointment, error) {
	a, err := ownership.Resolve(ctx, kind, owner, id, s.appointments.Get)
	if err != nil {
		return nil, err
	}
	if _, err := s.finish(ctx, owner, []*Appointment{a}, true); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Create(ctx context.Context, owner string, in *Input) (*Appointment, error) {
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
	a := &Appointment{
		ID:        uuid.New(),
		UserID:    owner,
		Status:    StatusScheduled,
		Reminder:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.Apply(a, f)
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	a.derive(now)
	return a, nil
}

func (s *Service) Update(ctx context.Context, owner string, id uuid.UUID, in *Input) (*Appointment, error) {
	a, err := ownership.Resolve(ctx, kind, owner, id, s.appointments.Get)
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
	return a, s.save(ctx, "update", a)
}

// SetStatus is the status-only transition.
func (s *Service) SetStatus(ctx context.Context, owner string, id uuid.UUID, in *StatusInput) (*Appointment, error) {
	a, err := ownership.Resolve(ctx, kind, owner, id, s.appointments.Get)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a.Status = *in.Status
	return a, s.save(ctx, "set status", a)
}

func (s *Service) Remove(ctx context.Context, owner string, id uuid.UUID) error {
	if _, err := ownership.Resolve(ctx, kind, owner, id, s.appointments.Get); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, owner, id); err != nil {
		if errs.IsNotFound(err) {
			return errs.NotFound(kind)
		}
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, op string, a *Appointment) error {
	now := s.now().UTC()
	a.UpdatedAt = now
	if err := s.appointments.Update(ctx, a); err != nil {
		if errs.IsNotFound(err) {
			return errs.NotFound(kind)
		}
		return fmt.Errorf("%s appointment: %w", op, err)
	}
	a.derive(now)
	return nil
}

// finish sets derived fields and, when asked, attaches patient summaries.
func (s *Service) finish(ctx context.Context, owner string, items []*Appointment, populate bool) ([]*Appointment, error) {
	now := s.now().UTC()
	for _, a := range items {
		a.derive(now)
	}
	if !populate {
		return items, nil
	}
	err := ownership.Populate(ctx, s.patients, owner, items,
		func(a *Appointment) uuid.UUID { return a.PatientID },
		func(a *Appointment, ref *ownership.PatientRef) { a.Patient = ref })
	return items, err
}
