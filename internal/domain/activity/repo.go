package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/platform/docstore"
)

var StoreOptions = docstore.Options{Name: "activities"}

// Filter narrows a listing. Zero values mean "any".
type Filter struct {
	PatientID uuid.UUID
	Type      string
	From, To  *time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	Get(ctx context.Context, owner string, id uuid.UUID) (*Activity, error)
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, owner string, id uuid.UUID) error
	// List returns matching activities, newest first.
	List(ctx context.Context, owner string, f Filter) ([]*Activity, error)
}

type storeRepo struct {
	coll docstore.Collection[*Activity]
}

func NewRepository(coll docstore.Collection[*Activity]) Repository {
	return &storeRepo{coll: coll}
}

func stored(a *Activity) *Activity {
	cp := *a
	cp.Patient = nil
	return &cp
}

func (r *storeRepo) Create(ctx context.Context, a *Activity) error {
	return r.coll.Insert(ctx, stored(a))
}

func (r *storeRepo) Get(ctx context.Context, owner string, id uuid.UUID) (*Activity, error) {
	return r.coll.Get(ctx, owner, id)
}

func (r *storeRepo) Update(ctx context.Context, a *Activity) error {
	return r.coll.Replace(ctx, a.UserID, stored(a))
}

func (r *storeRepo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	return r.coll.Delete(ctx, owner, id)
}

func (r *storeRepo) List(ctx context.Context, owner string, f Filter) ([]*Activity, error) {
	q := docstore.Query{Sort: docstore.Sort{Field: "date", Desc: true}}
	eq := map[string]interface{}{}
	if f.PatientID != uuid.Nil {
		eq["patientId"] = f.PatientID
	}
	if f.Type != "" {
		eq["type"] = f.Type
	}
	if len(eq) > 0 {
		q.Equals = eq
	}
	if f.From != nil || f.To != nil {
		q.Ranges = []docstore.Range{{Field: "date", From: f.From, To: f.To}}
	}
	return r.coll.Find(ctx, owner, q)
}
