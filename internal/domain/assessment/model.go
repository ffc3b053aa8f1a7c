package assessment

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
	"github.com/alzcare/alzcare/internal/platform/validate"
)

var Types = []string{"Initial", "Follow-up", "Quarterly", "Annual"}

const DefaultType = "Follow-up"

// Assessment is one scored cognitive evaluation of a patient. Scores are on a
// 0-100 scale.
type Assessment struct {
	ID             uuid.UUID             `json:"id" bson:"_id"`
	UserID         string                `json:"userId" bson:"userId"`
	PatientID      uuid.UUID             `json:"patientId" bson:"patientId"`
	Patient        *ownership.PatientRef `json:"patient,omitempty" bson:"-"`
	Date           time.Time             `json:"date" bson:"date"`
	MemoryScore    float64               `json:"memoryScore" bson:"memoryScore"`
	CognitiveScore float64               `json:"cognitiveScore" bson:"cognitiveScore"`
	BehaviorScore  float64               `json:"behaviorScore" bson:"behaviorScore"`
	OverallScore   int                   `json:"overallScore" bson:"-"`
	Notes          string                `json:"notes,omitempty" bson:"notes,omitempty"`
	AssessedBy     string                `json:"assessedBy,omitempty" bson:"assessedBy,omitempty"`
	AssessmentType string                `json:"assessmentType" bson:"assessmentType"`
	CreatedAt      time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt" bson:"updatedAt"`
}

func (a *Assessment) DocumentID() uuid.UUID { return a.ID }
func (a *Assessment) DocumentOwner() string { return a.UserID }

// derive fills the computed fields after a load or a change.
func (a *Assessment) derive() {
	a.OverallScore = roundHalfUp((a.MemoryScore + a.CognitiveScore + a.BehaviorScore) / 3)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Input is the create/update payload. Nil fields were not supplied.
type Input struct {
	PatientID      *string  `json:"patientId"`
	Date           *string  `json:"date"`
	MemoryScore    *float64 `json:"memoryScore"`
	CognitiveScore *float64 `json:"cognitiveScore"`
	BehaviorScore  *float64 `json:"behaviorScore"`
	Notes          *string  `json:"notes"`
	AssessedBy     *string  `json:"assessedBy"`
	AssessmentType *string  `json:"assessmentType"`
}

// fields carries the parsed values Validate produced.
type fields struct {
	patientID uuid.UUID
	date      *time.Time
}

func (in *Input) Validate(partial bool) (fields, error) {
	v := &errs.ValidationError{}
	var f fields
	f.patientID = validate.ID(v, "patientId", in.PatientID, partial)
	f.date = validate.Date(v, "date", in.Date)
	for _, s := range []struct {
		name  string
		value *float64
	}{
		{"memoryScore", in.MemoryScore},
		{"cognitiveScore", in.CognitiveScore},
		{"behaviorScore", in.BehaviorScore},
	} {
		if s.value == nil && !partial {
			v.Required(s.name)
		}
		validate.Between(v, s.name, s.value, 0, 100)
	}
	validate.OneOf(v, "assessmentType", in.AssessmentType, Types)
	validate.Trim(in.Notes)
	validate.Trim(in.AssessedBy)
	return f, v.OrNil()
}

func (in *Input) Apply(a *Assessment, f fields) {
	if in.PatientID != nil {
		a.PatientID = f.patientID
	}
	if f.date != nil {
		a.Date = *f.date
	}
	if in.MemoryScore != nil {
		a.MemoryScore = *in.MemoryScore
	}
	if in.CognitiveScore != nil {
		a.CognitiveScore = *in.CognitiveScore
	}
	if in.BehaviorScore != nil {
		a.BehaviorScore = *in.BehaviorScore
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if in.AssessedBy != nil {
		a.AssessedBy = *in.AssessedBy
	}
	if in.AssessmentType != nil {
		a.AssessmentType = *in.AssessmentType
	}
	a.derive()
}
