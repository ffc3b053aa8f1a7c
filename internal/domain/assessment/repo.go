package assessment

import (
	"context"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/platform/docstore"
)

var StoreOptions = docstore.Options{Name: "assessments"}

type Repository interface {
	Create(ctx context.Context, a *Assessment) error
	Get(ctx context.Context, owner string, id uuid.UUID) (*Assessment, error)
	Update(ctx context.Context, a *Assessment) error
	Delete(ctx context.Context, owner string, id uuid.UUID) error
	// List returns every assessment of owner, newest first.
	List(ctx context.Context, owner string) ([]*Assessment, error)
	// ListByPatient returns one patient's assessments, newest first.
	ListByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Assessment, error)
	// History returns one patient's assessments in chronological order.
	History(ctx context.Context, owner string, patientID uuid.UUID) ([]*Assessment, error)
}

type storeRepo struct {
	coll docstore.Collection[*Assessment]
}

func NewRepository(coll docstore.Collection[*Assessment]) Repository {
	return &storeRepo{coll: coll}
}

// stored strips the fields that are computed on read.
func stored(a *Assessment) *Assessment {
	cp := *a
	cp.Patient = nil
	return &cp
}

func (r *storeRepo) Create(ctx context.Context, a *Assessment) error {
	return r.coll.Insert(ctx, stored(a))
}

func (r *storeRepo) Get(ctx context.Context, owner string, id uuid.UUID) (*Assessment, error) {
	a, err := r.coll.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	a.derive()
	return a, nil
}

func (r *storeRepo) Update(ctx context.Context, a *Assessment) error {
	return r.coll.Replace(ctx, a.UserID, stored(a))
}

func (r *storeRepo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	return r.coll.Delete(ctx, owner, id)
}

func (r *storeRepo) List(ctx context.Context, owner string) ([]*Assessment, error) {
	return r.find(ctx, owner, docstore.Query{Sort: docstore.Sort{Field: "date", Desc: true}})
}

func (r *storeRepo) ListByPatient(ctx context.Context, owner string, patientID uuid.UUID) ([]*Assessment, error) {
	return r.find(ctx, owner, docstore.Query{
		Equals: map[string]interface{}{"patientId": patientID},
		Sort:   docstore.Sort{Field: "date", Desc: true},
	})
}

func (r *storeRepo) History(ctx context.Context, owner string, patientID uuid.UUID) ([]*Assessment, error) {
	return r.find(ctx, owner, docstore.Query{
		Equals: map[string]interface{}{"patientId": patientID},
		Sort:   docstore.Sort{Field: "date"},
	})
}

func (r *storeRepo) find(ctx context.Context, owner string, q docstore.Query) ([]*Assessment, error) {
	items, err := r.coll.Find(ctx, owner, q)
	if err != nil {
		return nil, err
	}
	for _, a := range items {
		a.derive()
	}
	return items, nil
}
