// Package validate has the field checks shared by every entity validator.
// Each helper records failures on a *errs.ValidationError; a nil pointer input
// means "field not supplied" and is only an error for required fields on create.
package validate

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/pkg/dates"
)

// Trim trims s in place and returns it.
func Trim(s *string) *string {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
	return s
}

// Required checks a required text field. On partial updates the field may be
// absent but not blank.
func Required(v *errs.ValidationError, field string, s *string, partial bool) {
	Trim(s)
	switch {
	case s == nil && !partial:
		v.Required(field)
	case s != nil && *s == "":
		if partial {
			v.Add(field, "must not be empty")
		} else {
			v.Required(field)
		}
	}
}

// OneOf checks enum membership of a supplied value.
func OneOf(v *errs.ValidationError, field string, s *string, allowed []string) {
	if s == nil || v.Has(field) {
		return
	}
	for _, a := range allowed {
		if *s == a {
			return
		}
	}
	v.Add(field, "must be one of: %s", strings.Join(allowed, ", "))
}

// Between checks an inclusive numeric bound.
func Between(v *errs.ValidationError, field string, n *float64, min, max float64) {
	if n == nil {
		return
	}
	if *n < min || *n > max {
		v.Add(field, "must be between %g and %g", min, max)
	}
}

// AtLeast checks a lower bound.
func AtLeast(v *errs.ValidationError, field string, n *int, min int) {
	if n == nil {
		return
	}
	if *n < min {
		v.Add(field, "must be >= %d", min)
	}
}

// Date parses a supplied date. Blank optional dates are treated as absent.
func Date(v *errs.ValidationError, field string, s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := dates.Parse(*s)
	if err != nil {
		v.Add(field, "malformed date %q", *s)
		return nil
	}
	return &t
}

// Phone checks that a supplied number is plausible for region (or carries its
// own country code).
func Phone(v *errs.ValidationError, field string, s *string, region string) {
	if Trim(s) == nil || *s == "" {
		return
	}
	num, err := phonenumbers.Parse(*s, region)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		v.Add(field, "invalid phone number %q", *s)
	}
}

// ID parses a reference to another record, e.g. a patientId in a request body.
func ID(v *errs.ValidationError, field string, s *string, partial bool) uuid.UUID {
	Required(v, field, s, partial)
	if s == nil || v.Has(field) {
		return uuid.Nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		v.Add(field, "malformed id %q", *s)
		return uuid.Nil
	}
	return id
}
