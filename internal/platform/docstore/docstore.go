// Package docstore is the owner-scoped Resource Store. Every driver injects
// the caller's identity into each lookup, so a record owned by someone else is
// indistinguishable from one that does not exist.
//
// Three drivers implement Collection: MongoDB (the primary document store),
// PostgreSQL JSONB documents, and an in-memory store used by tests and
// offline development. Offline is wired when no backend is configured.
package docstore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
)

// Document is implemented by every persisted entity.
type Document interface {
	DocumentID() uuid.UUID
	DocumentOwner() string
}

// Range bounds a timestamp field. Both bounds are inclusive; nil means open.
type Range struct {
	Field string
	From  *time.Time
	To    *time.Time
}

// Sort orders results by a timestamp field.
type Sort struct {
	Field string
	Desc  bool
}

// Query filters documents inside one owner's scope. Field names are the
// document's serialized names (identical for JSON and BSON).
type Query struct {
	Equals map[string]interface{}
	Ranges []Range
	// Text runs the collection's text search (see Options.TextField).
	Text  string
	Sort  Sort
	Limit int
}

// Options describe one collection.
type Options struct {
	// Name is the collection (mongo) or table (postgres) name.
	Name string
	// TextField is the field covered by Query.Text.
	TextField string
}

// Collection is typed CRUD over one entity kind. T is normally a pointer type.
type Collection[T Document] interface {
	Insert(ctx context.Context, doc T) error
	Get(ctx context.Context, owner string, id uuid.UUID) (T, error)
	// Replace overwrites the stored document; it never moves a document to another owner.
	Replace(ctx context.Context, owner string, doc T) error
	Delete(ctx context.Context, owner string, id uuid.UUID) error
	Find(ctx context.Context, owner string, q Query) ([]T, error)
}

var fieldName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Validate rejects queries whose field names could not be safely used by every driver.
func (q Query) Validate() error {
	for f := range q.Equals {
		if !fieldName.MatchString(f) {
			return fmt.Errorf("invalid filter field %q", f)
		}
	}
	for _, r := range q.Ranges {
		if !fieldName.MatchString(r.Field) {
			return fmt.Errorf("invalid range field %q", r.Field)
		}
	}
	if q.Sort.Field != "" && !fieldName.MatchString(q.Sort.Field) {
		return fmt.Errorf("invalid sort field %q", q.Sort.Field)
	}
	if q.Limit < 0 {
		return fmt.Errorf("negative limit %d", q.Limit)
	}
	return nil
}

// checkOwner guards Replace: a document can only be written back by its owner.
func checkOwner[T Document](owner string, doc T) error {
	if owner == "" || doc.DocumentOwner() != owner {
		return errs.ErrNotFound
	}
	return nil
}

// Offline is wired when the configured store cannot be used at all; every
// operation reports errs.ErrUnavailable.
type Offline[T Document] struct {
	Reason error
}

func (o Offline[T]) err() error {
	if o.Reason != nil {
		return fmt.Errorf("%w: %v", errs.ErrUnavailable, o.Reason)
	}
	return errs.ErrUnavailable
}

func (o Offline[T]) Insert(context.Context, T) error { return o.err() }

func (o Offline[T]) Get(context.Context, string, uuid.UUID) (T, error) {
	var zero T
	return zero, o.err()
}

func (o Offline[T]) Replace(context.Context, string, T) error { return o.err() }

func (o Offline[T]) Delete(context.Context, string, uuid.UUID) error { return o.err() }

func (o Offline[T]) Find(context.Context, string, Query) ([]T, error) { return nil, o.err() }
