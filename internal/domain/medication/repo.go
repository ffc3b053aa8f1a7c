package medication

import (
	"context"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/platform/docstore"
)

var StoreOptions = docstore.Options{Name: "medications"}

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	Get(ctx context.Context, owner string, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	ListActive(ctx context.Context, owner string) ([]*Medication, error)
	ListActiveByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Medication, error)
}

type storeRepo struct {
	coll docstore.Collection[*Medication]
}

func NewRepository(coll docstore.Collection[*Medication]) Repository {
	return &storeRepo{coll: coll}
}

func stored(m *Medication) *Medication {
	cp := *m
	cp.Patient = nil
	return &cp
}

func (r *storeRepo) Create(ctx context.Context, m *Medication) error {
	return r.coll.Insert(ctx, stored(m))
}

func (r *storeRepo) Get(ctx context.Context, owner string, id uuid.UUID) (*Medication, error) {
	return r.coll.Get(ctx, owner, id)
}

func (r *storeRepo) Update(ctx context.Context, m *Medication) error {
	return r.coll.Replace(ctx, m.UserID, stored(m))
}

func (r *storeRepo) ListActive(ctx context.Context, owner string) ([]*Medication, error) {
	return r.coll.Find(ctx, owner, docstore.Query{
		Equals: map[string]interface{}{"isActive": true},
		Sort:   docstore.Sort{Field: "createdAt", Desc: true},
	})
}

func (r *storeRepo) ListActiveByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Medication, error) {
	return r.coll.Find(ctx, owner, docstore.Query{
		Equals: map[string]interface{}{"patientId": patientID, "isActive": true},
		Sort:   docstore.Sort{Field: "createdAt", Desc: true},
	})
}
