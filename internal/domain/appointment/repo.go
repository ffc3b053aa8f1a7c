package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/platform/docstore"
)

var StoreOptions = docstore.Options{Name: "appointments"}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	Get(ctx context.Context, owner string, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, owner string, id uuid.UUID) error
	// List returns the owner's appointments, soonest first.
	List(ctx context.Context, owner string) ([]*Appointment, error)
	ListByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Appointment, error)
	// Upcoming returns scheduled appointments dated at or after from, soonest first.
	Upcoming(ctx context.Context, owner string, from time.Time, limit int) ([]*Appointment, error)
}

type storeRepo struct {
	coll docstore.Collection[*Appointment]
}

func NewRepository(coll docstore.Collection[*Appointment]) Repository {
	return &storeRepo{coll: coll}
}

func stored(a *Appointment) *Appointment {
	cp := *a
	cp.Patient = nil
	return &cp
}

func (r *storeRepo) Create(ctx context.Context, a *Appointment) error {
	return r.coll.Insert(ctx, stored(a))
}

func (r *storeRepo) Get(ctx context.Context, owner string, id uuid.UUID) (*Appointment, error) {
	return r.coll.Get(ctx, owner, id)
}

func (r *storeRepo) Update(ctx context.Context, a *Appointment) error {
	return r.coll.Replace(ctx, a.UserID, stored(a))
}

func (r *storeRepo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	return r.coll.Delete(ctx, owner, id)
}

var byDate = docstore.Sort{Field: "date"}

func (r *storeRepo) List(ctx context.Context, owner string) ([]*Appointment, error) {
	return r.coll.Find(ctx, owner, docstore.Query{Sort: byDate})
}

func (r *storeRepo) ListByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Appointment, error) {
	return r.coll.Find(ctx, owner, docstore.Query{
		Equals: map[string]interface{}{"patientId": patientID},
		Sort:   byDate,
	})
}

func (r *storeRepo) Upcoming(ctx context.Context, owner string, from time.Time, limit int) ([]*Appointment, error) {
	return r.coll.Find(ctx, owner, docstore.Query{
		Equals: map[string]interface{}{"status": StatusScheduled},
		Ranges: []docstore.Range{{Field: "date", From: &from}},
		Sort:   byDate,
		Limit:  limit,
	})
}
