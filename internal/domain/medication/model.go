package medication

import (
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
	"github.com/alzcare/alzcare/internal/platform/validate"
)

// Medication is a prescribed drug on a patient's schedule. Removing a
// medication clears IsActive; the record itself is kept.
type Medication struct {
	ID           uuid.UUID             `json:"id" bson:"_id"`
	UserID       string                `json:"userId" bson:"userId"`
	PatientID    uuid.UUID             `json:"patientId" bson:"patientId"`
	Patient      *ownership.PatientRef `json:"patient,omitempty" bson:"-"`
	Name         string                `json:"name" bson:"name"`
	Dosage       string                `json:"dosage" bson:"dosage"`
	Frequency    string                `json:"frequency" bson:"frequency"`
	Time         string                `json:"time" bson:"time"`
	LastTaken    *time.Time            `json:"lastTaken,omitempty" bson:"lastTaken,omitempty"`
	StartDate    time.Time             `json:"startDate" bson:"startDate"`
	EndDate      *time.Time            `json:"endDate,omitempty" bson:"endDate,omitempty"`
	PrescribedBy string                `json:"prescribedBy,omitempty" bson:"prescribedBy,omitempty"`
	Purpose      string                `json:"purpose,omitempty" bson:"purpose,omitempty"`
	SideEffects  string                `json:"sideEffects,omitempty" bson:"sideEffects,omitempty"`
	Instructions string                `json:"instructions,omitempty" bson:"instructions,omitempty"`
	IsActive     bool                  `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt" bson:"updatedAt"`
}

func (m *Medication) DocumentID() uuid.UUID { return m.ID }
func (m *Medication) DocumentOwner() string { return m.UserID }

func (m *Medication) checkPeriod() error {
	if m.EndDate != nil && m.EndDate.Before(m.StartDate) {
		return errs.Invalid("endDate", "must not be before startDate")
	}
	return nil
}

type Input struct {
	PatientID    *string `json:"patientId"`
	Name         *string `json:"name"`
	Dosage       *string `json:"dosage"`
	Frequency    *string `json:"frequency"`
	Time         *string `json:"time"`
	LastTaken    *string `json:"lastTaken"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	PrescribedBy *string `json:"prescribedBy"`
	Purpose      *string `json:"purpose"`
	SideEffects  *string `json:"sideEffects"`
	Instructions *string `json:"instructions"`
	IsActive     *bool   `json:"isActive"`
}

type fields struct {
	patientID uuid.UUID
	lastTaken *time.Time
	startDate *time.Time
	endDate   *time.Time
}

func (in *Input) Validate(partial bool) (fields, error) {
	v := &errs.ValidationError{}
	var f fields
	f.patientID = validate.ID(v, "patientId", in.PatientID, partial)
	validate.Required(v, "name", in.Name, partial)
	validate.Required(v, "dosage", in.Dosage, partial)
	validate.Required(v, "frequency", in.Frequency, partial)
	validate.Required(v, "time", in.Time, partial)
	f.lastTaken = validate.Date(v, "lastTaken", in.LastTaken)
	f.startDate = validate.Date(v, "startDate", in.StartDate)
	f.endDate = validate.Date(v, "endDate", in.EndDate)
	for _, s := range []*string{in.PrescribedBy, in.Purpose, in.SideEffects, in.Instructions} {
		validate.Trim(s)
	}
	return f, v.OrNil()
}

func (in *Input) Apply(m *Medication, f fields) {
	if in.PatientID != nil {
		m.PatientID = f.patientID
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Dosage != nil {
		m.Dosage = *in.Dosage
	}
	if in.Frequency != nil {
		m.Frequency = *in.Frequency
	}
	if in.Time != nil {
		m.Time = *in.Time
	}
	if in.LastTaken != nil {
		m.LastTaken = f.lastTaken
	}
	if f.startDate != nil {
		m.StartDate = *f.startDate
	}
	if in.EndDate != nil {
		m.EndDate = f.endDate
	}
	if in.PrescribedBy != nil {
		m.PrescribedBy = *in.PrescribedBy
	}
	if in.Purpose != nil {
		m.Purpose = *in.Purpose
	}
	if in.SideEffects != nil {
		m.SideEffects = *in.SideEffects
	}
	if in.Instructions != nil {
		m.Instructions = *in.Instructions
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
}

// TakenInput records a dose. A missing LastTaken means "now".
type TakenInput struct {
	LastTaken *string `json:"lastTaken"`
}
