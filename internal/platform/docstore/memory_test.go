package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
)

type note struct {
	ID      uuid.UUID `json:"id" bson:"_id"`
	OwnerID string    `json:"userId" bson:"userId"`
	Title   string    `json:"title" bson:"title"`
	Kind    string    `json:"kind" bson:"kind"`
	Active  bool      `json:"active" bson:"active"`
	Date    time.Time `json:"date" bson:"date"`
}

func (n *note) DocumentID() uuid.UUID { return n.ID }
func (n *note) DocumentOwner() string { return n.OwnerID }

func newNote(owner, title string, date time.Time) *note {
	return &note{ID: uuid.New(), OwnerID: owner, Title: title, Kind: "memo", Active: true, Date: date}
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC)
}

func TestMemory_InsertGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[*note](Options{Name: "notes", TextField: "title"})
	n := newNote("u1", "first", day(1))
	if err := m.Insert(ctx, n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := m.Get(ctx, "u1", n.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "first" || !got.Date.Equal(day(1)) {
		t.Errorf("unexpected document %+v", got)
	}

	got.Title = "mutated"
	again, _ := m.Get(ctx, "u1", n.ID)
	if again.Title != "first" {
		t.Error("store leaked a shared pointer")
	}
}

func TestMemory_ForeignOwnerIsNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[*note](Options{Name: "notes"})
	n := newNote("u1", "private", day(1))
	_ = m.Insert(ctx, n)

	if _, err := m.Get(ctx, "u2", n.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := m.Delete(ctx, "u2", n.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
	stolen := *n
	stolen.OwnerID = "u2"
	if err := m.Replace(ctx, "u2", &stolen); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on replace, got %v", err)
	}
	if err := m.Replace(ctx, "u2", n); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound moving owner, got %v", err)
	}
	if _, err := m.Get(ctx, "u1", n.ID); err != nil {
		t.Errorf("owner lost access: %v", err)
	}
}

func TestMemory_InsertRequiresOwner(t *testing.T) {
	m := NewMemory[*note](Options{Name: "notes"})
	if err := m.Insert(context.Background(), newNote("", "x", day(1))); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestMemory_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[*note](Options{Name: "notes"})
	n := newNote("u1", "draft", day(1))
	_ = m.Insert(ctx, n)

	n.Title = "final"
	if err := m.Replace(ctx, "u1", n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := m.Get(ctx, "u1", n.ID)
	if got.Title != "final" {
		t.Errorf("expected final, got %s", got.Title)
	}

	if err := m.Delete(ctx, "u1", n.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Delete(ctx, "u1", n.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemory_Find(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[*note](Options{Name: "notes", TextField: "title"})
	a := newNote("u1", "Morning walk", day(3))
	b := newNote("u1", "Evening walk", day(1))
	c := newNote("u1", "Puzzle", day(2))
	c.Active = false
	other := newNote("u2", "Morning walk", day(2))
	for _, n := range []*note{a, b, c, other} {
		if err := m.Insert(ctx, n); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	t.Run("owner scope and sort desc", func(t *testing.T) {
		got, err := m.Find(ctx, "u1", Query{Sort: Sort{Field: "date", Desc: true}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3, got %d", len(got))
		}
		if got[0].ID != a.ID || got[1].ID != c.ID || got[2].ID != b.ID {
			t.Errorf("unexpected order: %s, %s, %s", got[0].Title, got[1].Title, got[2].Title)
		}
	})

	t.Run("equality", func(t *testing.T) {
		got, _ := m.Find(ctx, "u1", Query{Equals: map[string]interface{}{"active": true}})
		if len(got) != 2 {
			t.Errorf("expected 2 active, got %d", len(got))
		}
		got, _ = m.Find(ctx, "u1", Query{Equals: map[string]interface{}{"id": a.ID}})
		if len(got) != 1 || got[0].ID != a.ID {
			t.Errorf("uuid equality failed: %+v", got)
		}
	})

	t.Run("inclusive range", func(t *testing.T) {
		from, to := day(1), day(2)
		got, _ := m.Find(ctx, "u1", Query{
			Ranges: []Range{{Field: "date", From: &from, To: &to}},
			Sort:   Sort{Field: "date"},
		})
		if len(got) != 2 || got[0].ID != b.ID || got[1].ID != c.ID {
			t.Errorf("unexpected range result %+v", got)
		}
	})

	t.Run("text", func(t *testing.T) {
		got, _ := m.Find(ctx, "u1", Query{Text: "walk"})
		if len(got) != 2 {
			t.Errorf("expected 2 walk matches, got %d", len(got))
		}
		got, _ = m.Find(ctx, "u1", Query{Text: "wal"})
		if len(got) != 0 {
			t.Errorf("partial words should not match, got %d", len(got))
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, _ := m.Find(ctx, "u1", Query{Sort: Sort{Field: "date"}, Limit: 1})
		if len(got) != 1 || got[0].ID != b.ID {
			t.Errorf("unexpected limited result %+v", got)
		}
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		got, err := m.Find(ctx, "nobody", Query{})
		if err != nil || got == nil || len(got) != 0 {
			t.Errorf("expected empty slice, got %v, %v", got, err)
		}
	})

	t.Run("bad field", func(t *testing.T) {
		if _, err := m.Find(ctx, "u1", Query{Sort: Sort{Field: "date; DROP"}}); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestOffline(t *testing.T) {
	var c Collection[*note] = Offline[*note]{Reason: errors.New("no uri")}
	ctx := context.Background()
	if err := c.Insert(ctx, newNote("u1", "x", day(1))); !errors.Is(err, errs.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := c.Find(ctx, "u1", Query{}); !errors.Is(err, errs.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
