package validate

import (
	"testing"

	"github.com/alzcare/alzcare/internal/errs"
)

func str(s string) *string { return &s }

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   *string
		partial bool
		fails   bool
	}{
		{"missing on create", nil, false, true},
		{"blank on create", str("   "), false, true},
		{"present", str(" Mary "), false, false},
		{"missing on update", nil, true, false},
		{"blank on update", str(""), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &errs.ValidationError{}
			Required(v, "name", tt.value, tt.partial)
			if v.Has("name") != tt.fails {
				t.Errorf("expected failure=%v, got %+v", tt.fails, v.Fields)
			}
		})
	}

	s := str("  Mary ")
	Required(&errs.ValidationError{}, "name", s, false)
	if *s != "Mary" {
		t.Errorf("expected trimmed value, got %q", *s)
	}
}

func TestOneOf(t *testing.T) {
	v := &errs.ValidationError{}
	OneOf(v, "stage", str("Mild"), []string{"Mild", "Moderate"})
	OneOf(v, "gender", nil, []string{"Male"})
	if v.OrNil() != nil {
		t.Fatalf("unexpected failures %+v", v.Fields)
	}
	OneOf(v, "stage", str("mild"), []string{"Mild", "Moderate"})
	if !v.Has("stage") {
		t.Error("enum is case sensitive")
	}
}

func TestBetween(t *testing.T) {
	v := &errs.ValidationError{}
	for _, n := range []float64{0, 50, 100} {
		n := n
		Between(v, "score", &n, 0, 100)
	}
	if v.OrNil() != nil {
		t.Fatalf("bounds are inclusive: %+v", v.Fields)
	}
	over := 100.5
	Between(v, "score", &over, 0, 100)
	if !v.Has("score") {
		t.Error("expected out of range failure")
	}
}

func TestAtLeast(t *testing.T) {
	v := &errs.ValidationError{}
	zero, neg := 0, -1
	AtLeast(v, "age", &zero, 0)
	if v.Has("age") {
		t.Fatal("zero is allowed")
	}
	AtLeast(v, "age", &neg, 0)
	if !v.Has("age") {
		t.Error("expected negative age to fail")
	}
}

func TestDate(t *testing.T) {
	v := &errs.ValidationError{}
	if d := Date(v, "date", str("2024-03-18")); d == nil || d.Day() != 18 {
		t.Errorf("unexpected date %v", d)
	}
	if d := Date(v, "endDate", str("")); d != nil {
		t.Errorf("blank date should be absent, got %v", d)
	}
	if v.OrNil() != nil {
		t.Fatalf("unexpected failures %+v", v.Fields)
	}
	Date(v, "date", str("next tuesday"))
	if !v.Has("date") {
		t.Error("expected malformed date failure")
	}
}

func TestPhone(t *testing.T) {
	v := &errs.ValidationError{}
	Phone(v, "contactNumber", str("(202) 555-0147"), "US")
	Phone(v, "contactNumber", str("+44 20 7946 0958"), "US")
	Phone(v, "contactNumber", nil, "US")
	Phone(v, "contactNumber", str(""), "US")
	if v.OrNil() != nil {
		t.Fatalf("unexpected failures %+v", v.Fields)
	}
	Phone(v, "emergencyContact.phone", str("12"), "US")
	if !v.Has("emergencyContact.phone") {
		t.Error("expected short number to fail")
	}
	Phone(v, "contactNumber", str("call me"), "US")
	if len(v.Fields) != 2 {
		t.Errorf("expected two failures, got %+v", v.Fields)
	}
}

func TestID(t *testing.T) {
	v := &errs.ValidationError{}
	if id := ID(v, "patientId", str("5f0c3f1e-6a0b-4a57-9d39-0a7c5d2a1b11"), false); id.String() != "5f0c3f1e-6a0b-4a57-9d39-0a7c5d2a1b11" {
		t.Errorf("unexpected id %s", id)
	}
	if v.OrNil() != nil {
		t.Fatalf("unexpected error: %v", v)
	}

	ID(v, "missing", nil, false)
	ID(v, "skipped", nil, true)
	ID(v, "bad", str("abc"), false)
	if !v.Has("missing") || !v.Has("bad") || v.Has("skipped") {
		t.Errorf("unexpected fields %+v", v.Fields)
	}
}
