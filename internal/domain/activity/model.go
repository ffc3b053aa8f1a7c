package activity

import (
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
	"github.com/alzcare/alzcare/internal/platform/validate"
)

var (
	Types = []string{"Physical Exercise", "Cognitive Activity", "Social Interaction", "Therapy", "Recreation", "Other"}
	Moods = []string{"Excellent", "Good", "Fair", "Poor"}
)

const DefaultMood = "Good"

// Activity is a logged care activity. Duration is free text ("30 minutes").
type Activity struct {
	ID           uuid.UUID             `json:"id" bson:"_id"`
	UserID       string                `json:"userId" bson:"userId"`
	PatientID    uuid.UUID             `json:"patientId" bson:"patientId"`
	Patient      *ownership.PatientRef `json:"patient,omitempty" bson:"-"`
	Date         time.Time             `json:"date" bson:"date"`
	Type         string                `json:"type" bson:"type"`
	Description  string                `json:"description" bson:"description"`
	Duration     string                `json:"duration" bson:"duration"`
	Mood         string                `json:"mood" bson:"mood"`
	Notes        string                `json:"notes,omitempty" bson:"notes,omitempty"`
	CompletedBy  string                `json:"completedBy,omitempty" bson:"completedBy,omitempty"`
	Location     string                `json:"location,omitempty" bson:"location,omitempty"`
	Participants string                `json:"participants,omitempty" bson:"participants,omitempty"`
	CreatedAt    time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt" bson:"updatedAt"`
}

func (a *Activity) DocumentID() uuid.UUID { return a.ID }
func (a *Activity) DocumentOwner() string { return a.UserID }

type Input struct {
	PatientID    *string `json:"patientId"`
	Date         *string `json:"date"`
	Type         *string `json:"type"`
	Description  *string `json:"description"`
	Duration     *string `json:"duration"`
	Mood         *string `json:"mood"`
	Notes        *string `json:"notes"`
	CompletedBy  *string `json:"completedBy"`
	Location     *string `json:"location"`
	Participants *string `json:"participants"`
}

type fields struct {
	patientID uuid.UUID
	date      *time.Time
}

func (in *Input) Validate(partial bool) (fields, error) {
	v := &errs.ValidationError{}
	var f fields
	f.patientID = validate.ID(v, "patientId", in.PatientID, partial)
	f.date = validate.Date(v, "date", in.Date)
	validate.Required(v, "type", in.Type, partial)
	validate.OneOf(v, "type", in.Type, Types)
	validate.Required(v, "description", in.Description, partial)
	validate.Required(v, "duration", in.Duration, partial)
	validate.OneOf(v, "mood", in.Mood, Moods)
	for _, s := range []*string{in.Notes, in.CompletedBy, in.Location, in.Participants} {
		validate.Trim(s)
	}
	return f, v.OrNil()
}

func (in *Input) Apply(a *Activity, f fields) {
	if in.PatientID != nil {
		a.PatientID = f.patientID
	}
	if f.date != nil {
		a.Date = *f.date
	}
	if in.Type != nil {
		a.Type = *in.Type
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.Duration != nil {
		a.Duration = *in.Duration
	}
	if in.Mood != nil {
		a.Mood = *in.Mood
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.CompletedBy != nil {
		a.CompletedBy = *in.CompletedBy
	}
	if in.Location != nil {
		a.Location = *in.Location
	}
	if in.Participants != nil {
		a.Participants = *in.Participants
	}
}
