package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alzcare/alzcare/internal/errs"
)

// Querier is the subset of *pgxpool.Pool the postgres driver needs.
// pgxmock pools satisfy it too.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres keeps documents as JSONB rows:
//
//	id UUID PRIMARY KEY, owner_id TEXT, doc JSONB, created_at, updated_at
//
// The table is created by the migrations package.
type Postgres[T Document] struct {
	db   Querier
	opts Options
}

// NewPostgres binds opts.Name as the backing table.
func NewPostgres[T Document](db Querier, opts Options) *Postgres[T] {
	return &Postgres[T]{db: db, opts: opts}
}

func (p *Postgres[T]) Insert(ctx context.Context, doc T) error {
	if doc.DocumentOwner() == "" {
		return errs.ErrUnauthenticated
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.opts.Name, err)
	}
	q := fmt.Sprintf(`INSERT INTO %s (id, owner_id, doc) VALUES ($1, $2, $3)`, p.opts.Name)
	if _, err := p.db.Exec(ctx, q, doc.DocumentID(), doc.DocumentOwner(), raw); err != nil {
		return p.wrap("insert", err)
	}
	return nil
}

func (p *Postgres[T]) Get(ctx context.Context, owner string, id uuid.UUID) (T, error) {
	var doc T
	q := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1 AND owner_id = $2`, p.opts.Name)
	var raw []byte
	if err := p.db.QueryRow(ctx, q, id, owner).Scan(&raw); err != nil {
		return doc, p.wrap("get", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", p.opts.Name, err)
	}
	return doc, nil
}

func (p *Postgres[T]) Replace(ctx context.Context, owner string, doc T) error {
	if err := checkOwner(owner, doc); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.opts.Name, err)
	}
	q := fmt.Sprintf(`UPDATE %s SET doc = $3, updated_at = NOW() WHERE id = $1 AND owner_id = $2`, p.opts.Name)
	tag, err := p.db.Exec(ctx, q, doc.DocumentID(), owner, raw)
	if err != nil {
		return p.wrap("replace", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (p *Postgres[T]) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, p.opts.Name)
	tag, err := p.db.Exec(ctx, q, id, owner)
	if err != nil {
		return p.wrap("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (p *Postgres[T]) Find(ctx context.Context, owner string, q Query) ([]T, error) {
	sql, args, err := p.buildFind(owner, q)
	if err != nil {
		return nil, err
	}
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, p.wrap("find", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, p.wrap("find", err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.opts.Name, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, p.wrap("find", err)
	}
	return out, nil
}

// buildFind renders the SELECT for q. Field names are validated before being
// spliced into JSON path expressions; values always travel as arguments.
func (p *Postgres[T]) buildFind(owner string, q Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, `SELECT doc FROM %s WHERE owner_id = $1`, p.opts.Name)
	args := []any{owner}

	if len(q.Equals) > 0 {
		match := make(map[string]interface{}, len(q.Equals))
		for k, v := range q.Equals {
			if k == ownerField {
				continue
			}
			match[k] = v
		}
		if len(match) > 0 {
			raw, err := json.Marshal(match)
			if err != nil {
				return "", nil, fmt.Errorf("encode filter: %w", err)
			}
			args = append(args, string(raw))
			fmt.Fprintf(&b, ` AND doc @> $%d::jsonb`, len(args))
		}
	}
	for _, r := range q.Ranges {
		if r.From != nil {
			args = append(args, *r.From)
			fmt.Fprintf(&b, ` AND (doc->>'%s')::timestamptz >= $%d`, r.Field, len(args))
		}
		if r.To != nil {
			args = append(args, *r.To)
			fmt.Fprintf(&b, ` AND (doc->>'%s')::timestamptz <= $%d`, r.Field, len(args))
		}
	}
	if q.Text != "" && p.opts.TextField != "" {
		args = append(args, q.Text)
		fmt.Fprintf(&b, ` AND to_tsvector('simple', doc->>'%s') @@ plainto_tsquery('simple', $%d)`, p.opts.TextField, len(args))
	}
	if q.Sort.Field != "" {
		dir := "ASC"
		if q.Sort.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, ` ORDER BY (doc->>'%s')::timestamptz %s, created_at %s`, q.Sort.Field, dir, dir)
	} else {
		b.WriteString(` ORDER BY created_at ASC`)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, ` LIMIT %d`, q.Limit)
	}
	return b.String(), args, nil
}

func (p *Postgres[T]) wrap(op string, err error) error {
	var connErr *pgconn.ConnectError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errs.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err), errors.As(err, &connErr):
		return fmt.Errorf("%s %s: %w: %v", op, p.opts.Name, errs.ErrUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", op, p.opts.Name, err)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
