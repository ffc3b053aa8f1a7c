package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/alzcare/alzcare/internal/errs"
)

const ownerField = "userId"

// Mongo stores each entity kind in its own collection. Documents carry their
// id in _id and their owner in userId.
type Mongo[T Document] struct {
	coll *mongo.Collection
	opts Options
}

// NewMongo binds a collection of db.
func NewMongo[T Document](db *mongo.Database, opts Options) *Mongo[T] {
	return &Mongo[T]{coll: db.Collection(opts.Name), opts: opts}
}

func (m *Mongo[T]) Insert(ctx context.Context, doc T) error {
	if doc.DocumentOwner() == "" {
		return errs.ErrUnauthenticated
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return m.wrap("insert", err)
	}
	return nil
}

func (m *Mongo[T]) Get(ctx context.Context, owner string, id uuid.UUID) (T, error) {
	var doc T
	if err := m.coll.FindOne(ctx, scopedID(owner, id)).Decode(&doc); err != nil {
		return doc, m.wrap("get", err)
	}
	return doc, nil
}

func (m *Mongo[T]) Replace(ctx context.Context, owner string, doc T) error {
	if err := checkOwner(owner, doc); err != nil {
		return err
	}
	res, err := m.coll.ReplaceOne(ctx, scopedID(owner, doc.DocumentID()), doc)
	if err != nil {
		return m.wrap("replace", err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (m *Mongo[T]) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	res, err := m.coll.DeleteOne(ctx, scopedID(owner, id))
	if err != nil {
		return m.wrap("delete", err)
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (m *Mongo[T]) Find(ctx context.Context, owner string, q Query) ([]T, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	opts := options.Find()
	if s := sortDoc(q.Sort); s != nil {
		opts.SetSort(s)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	cursor, err := m.coll.Find(ctx, findFilter(owner, q), opts)
	if err != nil {
		return nil, m.wrap("find", err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, m.wrap("find", err)
	}
	return out, nil
}

// EnsureIndexes creates the owner index, the text index when a text field is
// configured, and any extra compound indexes.
func (m *Mongo[T]) EnsureIndexes(ctx context.Context, extra ...bson.D) error {
	models := []mongo.IndexModel{{Keys: bson.D{{Key: ownerField, Value: 1}}}}
	if m.opts.TextField != "" {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: m.opts.TextField, Value: "text"}}})
	}
	for _, keys := range extra {
		models = append(models, mongo.IndexModel{Keys: keys})
	}
	if _, err := m.coll.Indexes().CreateMany(ctx, models); err != nil {
		return m.wrap("create indexes", err)
	}
	return nil
}

func (m *Mongo[T]) wrap(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return errs.ErrNotFound
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%s %s: %w: %v", op, m.opts.Name, errs.ErrUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", op, m.opts.Name, err)
}

func scopedID(owner string, id uuid.UUID) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: ownerField, Value: owner}}
}

// findFilter translates a Query into a mongo filter. The owner clause is
// always first and can never be overridden by q.Equals.
func findFilter(owner string, q Query) bson.D {
	filter := bson.D{{Key: ownerField, Value: owner}}
	for _, k := range sortedKeys(q.Equals) {
		if k == ownerField {
			continue
		}
		filter = append(filter, bson.E{Key: k, Value: q.Equals[k]})
	}
	for _, r := range q.Ranges {
		bound := bson.D{}
		if r.From != nil {
			bound = append(bound, bson.E{Key: "$gte", Value: *r.From})
		}
		if r.To != nil {
			bound = append(bound, bson.E{Key: "$lte", Value: *r.To})
		}
		if len(bound) > 0 {
			filter = append(filter, bson.E{Key: r.Field, Value: bound})
		}
	}
	if q.Text != "" {
		filter = append(filter, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: q.Text}}})
	}
	return filter
}

func sortDoc(s Sort) bson.D {
	if s.Field == "" {
		return nil
	}
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: s.Field, Value: dir}, {Key: "_id", Value: dir}}
}
