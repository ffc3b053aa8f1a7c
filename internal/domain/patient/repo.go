package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/platform/docstore"
)

// StoreOptions names the backing collection; name carries the text index.
var StoreOptions = docstore.Options{Name: "patients", TextField: "name"}

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	Get(ctx context.Context, owner string, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	ListActive(ctx context.Context, owner string) ([]*Patient, error)
	SearchActive(ctx context.Context, owner, text string) ([]*Patient, error)
}

type storeRepo struct {
	coll docstore.Collection[*Patient]
}

// NewRepository adapts a document collection to the patient repository.
func NewRepository(coll docstore.Collection[*Patient]) Repository {
	return &storeRepo{coll: coll}
}

func (r *storeRepo) Create(ctx context.Context, p *Patient) error {
	return r.coll.Insert(ctx, p)
}

func (r *storeRepo) Get(ctx context.Context, owner string, id uuid.UUID) (*Patient, error) {
	return r.coll.Get(ctx, owner, id)
}

func (r *storeRepo) Update(ctx context.Context, p *Patient) error {
	return r.coll.Replace(ctx, p.UserID, p)
}

func (r *storeRepo) ListActive(ctx context.Context, owner string) ([]*Patient, error) {
	return r.coll.Find(ctx, owner, docstore.Query{
		Equals: map[string]interface{}{"isActive": true},
		Sort:   docstore.Sort{Field: "createdAt", Desc: true},
	})
}

func (r *storeRepo) SearchActive(ctx context.Context, owner, text string) ([]*Patient, error) {
	return r.coll.Find(ctx, owner, docstore.Query{
		Equals: map[string]interface{}{"isActive": true},
		Text:   text,
		Sort:   docstore.Sort{Field: "createdAt", Desc: true},
	})
}
