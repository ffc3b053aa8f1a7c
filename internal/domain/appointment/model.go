package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
	"github.com/alzcare/alzcare/internal/platform/validate"
)

var (
	Types    = []string{"Neurologist", "Psychiatrist", "General Practitioner", "Therapist", "Specialist", "Other"}
	Statuses = []string{StatusScheduled, "Completed", "Cancelled", "Rescheduled"}
)

const StatusScheduled = "Scheduled"

// UpcomingLimit caps the upcoming listing.
const UpcomingLimit = 10

type Appointment struct {
	ID           uuid.UUID             `json:"id" bson:"_id"`
	UserID       string                `json:"userId" bson:"userId"`
	PatientID    uuid.UUID             `json:"patientId" bson:"patientId"`
	Patient      *ownership.PatientRef `json:"patient,omitempty" bson:"-"`
	Date         time.Time             `json:"date" bson:"date"`
	Time         string                `json:"time" bson:"time"`
	Doctor       string                `json:"doctor" bson:"doctor"`
	Type         string                `json:"type" bson:"type"`
	Notes        string                `json:"notes,omitempty" bson:"notes,omitempty"`
	Location     string                `json:"location,omitempty" bson:"location,omitempty"`
	Status       string                `json:"status" bson:"status"`
	Reminder     bool                  `json:"reminder" bson:"reminder"`
	ReminderSent bool                  `json:"reminderSent" bson:"reminderSent"`
	IsUpcoming   bool                  `json:"isUpcoming" bson:"-"`
	CreatedAt    time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt" bson:"updatedAt"`
}

func (a *Appointment) DocumentID() uuid.UUID { return a.ID }
func (a *Appointment) DocumentOwner() string { return a.UserID }

// derive sets IsUpcoming: still scheduled and strictly in the future.
func (a *Appointment) derive(now time.Time) {
	a.IsUpcoming = a.Status == StatusScheduled && a.Date.After(now)
}

type Input struct {
	PatientID    *string `json:"patientId"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Doctor       *string `json:"doctor"`
	Type         *string `json:"type"`
	Notes        *string `json:"notes"`
	Location     *string `json:"location"`
	Status       *string `json:"status"`
	Reminder     *bool   `json:"reminder"`
	ReminderSent *bool   `json:"reminderSent"`
}

type fields struct {
	patientID uuid.UUID
	date      *time.Time
}

func (in *Input) Validate(partial bool) (fields, error) {
	v := &errs.ValidationError{}
	var f fields
	f.patientID = validate.ID(v, "patientId", in.PatientID, partial)
	validate.Required(v, "date", in.Date, partial)
	if !v.Has("date") {
		f.date = validate.Date(v, "date", in.Date)
	}
	validate.Required(v, "time", in.Time, partial)
	validate.Required(v, "doctor", in.Doctor, partial)
	validate.Required(v, "type", in.Type, partial)
	validate.OneOf(v, "type", in.Type, Types)
	validate.OneOf(v, "status", in.Status, Statuses)
	validate.Trim(in.Notes)
	validate.Trim(in.Location)
	return f, v.OrNil()
}

func (in *Input) Apply(a *Appointment, f fields) {
	if in.PatientID != nil {
		a.PatientID = f.patientID
	}
	if f.date != nil {
		a.Date = *f.date
	}
	if in.Time != nil {
		a.Time = *in.Time
	}
	if in.Doctor != nil {
		a.Doctor = *in.Doctor
	}
	if in.Type != nil {
		a.Type = *in.Type
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.Location != nil {
		a.Location = *in.Location
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.Reminder != nil {
		a.Reminder = *in.Reminder
	}
	if in.ReminderSent != nil {
		a.ReminderSent = *in.ReminderSent
	}
}

// StatusInput is the body of a status-only transition.
type StatusInput struct {
	Status *string `json:"status"`
}

func (in *StatusInput) Validate() error {
	v := &errs.ValidationError{}
	validate.Required(v, "status", in.Status, false)
	validate.OneOf(v, "status", in.Status, Statuses)
	return v.OrNil()
}
