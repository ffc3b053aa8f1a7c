package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/docstore"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }

func newTestService() *Service {
	svc := NewService(NewRepository(docstore.NewMemory[*Patient](StoreOptions)), "US")
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func validInput(name string) *Input {
	return &Input{
		Name:        strPtr(name),
		Age:         intPtr(74),
		Diagnosis:   strPtr("Alzheimer's disease"),
		Stage:       strPtr("Mild"),
		CaregiverID: strPtr("cg-1"),
	}
}

func TestCreatePatient(t *testing.T) {
	svc := newTestService()
	p, err := svc.Create(context.Background(), "u1", validInput("  Mary Smith "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if p.Name != "Mary Smith" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
	if !p.IsActive {
		t.Error("new patients are active")
	}
	if p.UserID != "u1" {
		t.Errorf("expected owner u1, got %s", p.UserID)
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := newTestService()
	in := &Input{
		Age:           intPtr(-1),
		Stage:         strPtr("Terminal"),
		Gender:        strPtr("Unknown"),
		DateOfBirth:   strPtr("sometime"),
		ContactNumber: strPtr("12"),
	}
	_, err := svc.Create(context.Background(), "u1", in)
	var v *errs.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, f := range []string{"name", "age", "diagnosis", "stage", "caregiverId", "gender", "dateOfBirth", "contactNumber"} {
		if !v.Has(f) {
			t.Errorf("expected %s to fail", f)
		}
	}
}

func TestCreatePatient_RequiresOwner(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Create(context.Background(), "", validInput("Mary")); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGetPatient_OwnerScoped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", validInput("Mary"))

	if _, err := svc.Get(ctx, "u1", p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, foreign := svc.Get(ctx, "u2", p.ID)
	_, absent := svc.Get(ctx, "u2", uuid.New())
	if !errors.Is(foreign, errs.ErrNotFound) || !errors.Is(absent, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v / %v", foreign, absent)
	}
	if foreign.Error() != absent.Error() {
		t.Errorf("foreign and absent must be indistinguishable: %q vs %q", foreign, absent)
	}
}

func TestUpdatePatient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", validInput("Mary"))

	updated, err := svc.Update(ctx, "u1", p.ID, &Input{
		Stage:            strPtr("Moderate"),
		EmergencyContact: &EmergencyContactInput{Name: strPtr("John"), Phone: strPtr("+1 202 555 0147")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Stage != "Moderate" || updated.Name != "Mary" {
		t.Errorf("unexpected patient %+v", updated)
	}
	if updated.EmergencyContact == nil || updated.EmergencyContact.Name != "John" {
		t.Errorf("unexpected emergency contact %+v", updated.EmergencyContact)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Error("expected updatedAt to advance")
	}

	got, _ := svc.Get(ctx, "u1", p.ID)
	if got.Stage != "Moderate" {
		t.Errorf("update not persisted: %s", got.Stage)
	}
}

func TestUpdatePatient_RejectsBlankRequired(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", validInput("Mary"))

	_, err := svc.Update(ctx, "u1", p.ID, &Input{Name: strPtr("  ")})
	if !errs.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdatePatient_ForeignOwner(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", validInput("Mary"))

	if _, err := svc.Update(ctx, "u2", p.ID, &Input{Stage: strPtr("Severe")}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	got, _ := svc.Get(ctx, "u1", p.ID)
	if got.Stage != "Mild" {
		t.Error("foreign update must not change the record")
	}
}

func TestRemovePatient_SoftAndIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", validInput("Mary"))

	if err := svc.Remove(ctx, "u1", p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Remove(ctx, "u1", p.ID); err != nil {
		t.Fatalf("repeated remove should succeed, got %v", err)
	}

	got, err := svc.Get(ctx, "u1", p.ID)
	if err != nil {
		t.Fatalf("soft-deleted patient should stay lookupable: %v", err)
	}
	if got.IsActive {
		t.Error("expected isActive=false")
	}

	list, _ := svc.List(ctx, "u1")
	if len(list) != 0 {
		t.Errorf("inactive patients are excluded from lists, got %d", len(list))
	}
	if err := svc.Remove(ctx, "u2", p.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found for foreign remove, got %v", err)
	}
}

func TestListPatients_NewestFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	first, _ := svc.Create(ctx, "u1", validInput("First"))
	second, _ := svc.Create(ctx, "u1", validInput("Second"))
	_, _ = svc.Create(ctx, "u2", validInput("Other"))

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("expected newest first")
	}
}

func TestSearchPatients(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	mary, _ := svc.Create(ctx, "u1", validInput("Mary Smith"))
	gone, _ := svc.Create(ctx, "u1", validInput("Mary Jones"))
	_, _ = svc.Create(ctx, "u1", validInput("Robert Brown"))
	_, _ = svc.Create(ctx, "u2", validInput("Mary Other"))
	_ = svc.Remove(ctx, "u1", gone.ID)

	got, err := svc.Search(ctx, "u1", "mary")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != mary.ID {
		t.Errorf("expected only the active owned match, got %+v", got)
	}

	if _, err := svc.Search(ctx, "u1", "  "); !errs.IsValidation(err) {
		t.Errorf("expected validation error for blank query, got %v", err)
	}
}

func TestExistsAndRefs(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", validInput("Mary"))

	if err := svc.Exists(ctx, "u1", p.ID); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := svc.Exists(ctx, "u2", p.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	refs, err := svc.Refs(ctx, "u1", []uuid.UUID{p.ID, p.ID, uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 || refs[p.ID].Name != "Mary" || refs[p.ID].Age != 74 {
		t.Errorf("unexpected refs %+v", refs)
	}
}
