package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
)

type memoryEntry struct {
	owner string
	raw   []byte
	seq   int64
}

// Memory keeps documents as serialized JSON so callers never share pointers
// with the store. Query semantics follow the mongo driver.
type Memory[T Document] struct {
	opts Options

	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	seq     int64
}

// NewMemory creates an empty in-memory collection.
func NewMemory[T Document](opts Options) *Memory[T] {
	return &Memory[T]{opts: opts, entries: make(map[uuid.UUID]memoryEntry)}
}

func (m *Memory[T]) Insert(_ context.Context, doc T) error {
	if doc.DocumentOwner() == "" {
		return errs.ErrUnauthenticated
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.opts.Name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[doc.DocumentID()]; ok {
		return fmt.Errorf("insert %s: duplicate id %s", m.opts.Name, doc.DocumentID())
	}
	m.seq++
	m.entries[doc.DocumentID()] = memoryEntry{owner: doc.DocumentOwner(), raw: raw, seq: m.seq}
	return nil
}

func (m *Memory[T]) Get(_ context.Context, owner string, id uuid.UUID) (T, error) {
	var doc T
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok || e.owner != owner {
		return doc, errs.ErrNotFound
	}
	if err := json.Unmarshal(e.raw, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", m.opts.Name, err)
	}
	return doc, nil
}

func (m *Memory[T]) Replace(_ context.Context, owner string, doc T) error {
	if err := checkOwner(owner, doc); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.opts.Name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[doc.DocumentID()]
	if !ok || e.owner != owner {
		return errs.ErrNotFound
	}
	e.raw = raw
	m.entries[doc.DocumentID()] = e
	return nil
}

func (m *Memory[T]) Delete(_ context.Context, owner string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.owner != owner {
		return errs.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

type memoryHit struct {
	fields map[string]interface{}
	raw    []byte
	seq    int64
}

func (m *Memory[T]) Find(_ context.Context, owner string, q Query) ([]T, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	want, err := normalize(q.Equals)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.opts.Name, err)
	}

	m.mu.RLock()
	var hits []memoryHit
	for _, e := range m.entries {
		if e.owner != owner {
			continue
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(e.raw, &fields); err != nil {
			m.mu.RUnlock()
			return nil, fmt.Errorf("decode %s: %w", m.opts.Name, err)
		}
		if m.matches(fields, want, q) {
			hits = append(hits, memoryHit{fields: fields, raw: e.raw, seq: e.seq})
		}
	}
	m.mu.RUnlock()

	if q.Sort.Field != "" {
		sort.SliceStable(hits, func(i, j int) bool {
			a := timeField(hits[i].fields, q.Sort.Field)
			b := timeField(hits[j].fields, q.Sort.Field)
			if a.Equal(b) {
				return hits[i].seq < hits[j].seq
			}
			if q.Sort.Desc {
				return a.After(b)
			}
			return a.Before(b)
		})
	} else {
		sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })
	}
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]T, 0, len(hits))
	for _, h := range hits {
		var doc T
		if err := json.Unmarshal(h.raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", m.opts.Name, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *Memory[T]) matches(fields, want map[string]interface{}, q Query) bool {
	for k, v := range want {
		if !reflect.DeepEqual(fields[k], v) {
			return false
		}
	}
	for _, r := range q.Ranges {
		s, ok := fields[r.Field].(string)
		if !ok {
			return false
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return false
		}
		if r.From != nil && t.Before(*r.From) {
			return false
		}
		if r.To != nil && t.After(*r.To) {
			return false
		}
	}
	if q.Text != "" {
		s, _ := fields[m.opts.TextField].(string)
		if !textMatch(s, q.Text) {
			return false
		}
	}
	return true
}

// normalize round-trips filter values through JSON so they compare equal to
// decoded document fields (uuid.UUID becomes a string, ints become float64).
// The owner clause is dropped; scope comes from the owner argument alone.
func normalize(equals map[string]interface{}) (map[string]interface{}, error) {
	if len(equals) == 0 {
		return nil, nil
	}
	filtered := make(map[string]interface{}, len(equals))
	for k, v := range equals {
		if k != ownerField {
			filtered[k] = v
		}
	}
	raw, err := json.Marshal(filtered)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func timeField(fields map[string]interface{}, name string) time.Time {
	s, _ := fields[name].(string)
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// textMatch mirrors a mongo $text query: any search term matching a whole
// word of the field, case-insensitively.
func textMatch(value, search string) bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(value)) {
		words[w] = true
	}
	for _, term := range strings.Fields(strings.ToLower(search)) {
		if words[term] {
			return true
		}
	}
	return false
}
