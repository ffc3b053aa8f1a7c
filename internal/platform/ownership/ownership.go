// Package ownership is the single precondition every resource operation goes
// through: a record is either owned by the caller or it does not exist.
package ownership

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/docstore"
)

// Require rejects a blank caller identity.
func Require(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return errs.ErrUnauthenticated
	}
	return nil
}

// Lookup fetches one record inside an owner's scope.
type Lookup[T docstore.Document] func(ctx context.Context, owner string, id uuid.UUID) (T, error)

// Resolve runs lookup for owner and collapses "absent" and "owned by someone
// else" into the same labelled not-found error. Other failures pass through.
func Resolve[T docstore.Document](ctx context.Context, kind, owner string, id uuid.UUID, lookup Lookup[T]) (T, error) {
	var zero T
	if err := Require(owner); err != nil {
		return zero, err
	}
	if id == uuid.Nil {
		return zero, errs.NotFound(kind)
	}
	doc, err := lookup(ctx, owner, id)
	if errors.Is(err, errs.ErrNotFound) {
		return zero, errs.NotFound(kind)
	}
	if err != nil {
		return zero, err
	}
	if doc.DocumentOwner() != owner {
		return zero, errs.NotFound(kind)
	}
	return doc, nil
}

// PatientRef is the patient summary embedded in child records.
type PatientRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Age  int       `json:"age"`
}

// Parents resolves the patient a child record belongs to.
type Parents interface {
	// Exists confirms a patient exists in the owner's scope.
	Exists(ctx context.Context, owner string, patientID uuid.UUID) error
	// Refs returns summaries for the owned patients among ids; others are omitted.
	Refs(ctx context.Context, owner string, ids []uuid.UUID) (map[uuid.UUID]PatientRef, error)
}

// RequireParent fails with errs.ErrParentNotFound unless patientID names a
// patient owned by owner.
func RequireParent(ctx context.Context, parents Parents, owner string, patientID uuid.UUID) error {
	if err := Require(owner); err != nil {
		return err
	}
	if patientID == uuid.Nil {
		return errs.ErrParentNotFound
	}
	err := parents.Exists(ctx, owner, patientID)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.ErrParentNotFound
	}
	return err
}

// Populate attaches patient summaries to child records, mirroring a join on
// patientId. Records whose patient is no longer resolvable keep a nil ref.
func Populate[T any](ctx context.Context, parents Parents, owner string, items []T, patientID func(T) uuid.UUID, attach func(T, *PatientRef)) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, patientID(it))
	}
	refs, err := parents.Refs(ctx, owner, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		if ref, ok := refs[patientID(it)]; ok {
			r := ref
			attach(it, &r)
		}
	}
	return nil
}
