package prediction

import (
	"context"

	"github.com/alzcare/alzcare/internal/platform/docstore"
)

var StoreOptions = docstore.Options{Name: "predictions"}

type Repository interface {
	Create(ctx context.Context, s *Saved) error
	// List returns the owner's saved predictions, newest first.
	List(ctx context.Context, owner string) ([]*Saved, error)
}

type storeRepo struct {
	coll docstore.Collection[*Saved]
}

func NewRepository(coll docstore.Collection[*Saved]) Repository {
	return &storeRepo{coll: coll}
}

func (r *storeRepo) Create(ctx context.Context, s *Saved) error {
	cp := *s
	cp.Patient = nil
	return r.coll.Insert(ctx, &cp)
}

func (r *storeRepo) List(ctx context.Context, owner string) ([]*Saved, error) {
	return r.coll.Find(ctx, owner, docstore.Query{Sort: docstore.Sort{Field: "savedAt", Desc: true}})
}
