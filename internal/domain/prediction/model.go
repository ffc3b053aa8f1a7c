package prediction

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/ownership"
	"github.com/alzcare/alzcare/internal/platform/validate"
)

// NoFeaturesMessage answers a prediction request without input features.
const NoFeaturesMessage = "Please provide input features for prediction"

// Result is a relayed prediction service answer.
type Result struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Saved is a prediction the caller chose to keep, optionally tied to a patient.
type Saved struct {
	ID               uuid.UUID             `json:"id" bson:"_id"`
	UserID           string                `json:"userId" bson:"userId"`
	PatientID        *uuid.UUID            `json:"patientId,omitempty" bson:"patientId,omitempty"`
	Patient          *ownership.PatientRef `json:"patient,omitempty" bson:"-"`
	InputData        json.RawMessage       `json:"inputData" bson:"inputData"`
	PredictionResult json.RawMessage       `json:"predictionResult" bson:"predictionResult"`
	SavedAt          time.Time             `json:"savedAt" bson:"savedAt"`
}

func (s *Saved) DocumentID() uuid.UUID { return s.ID }
func (s *Saved) DocumentOwner() string { return s.UserID }

type SaveInput struct {
	PatientID        *string         `json:"patientId"`
	InputData        json.RawMessage `json:"inputData"`
	PredictionResult json.RawMessage `json:"predictionResult"`
}

// Validate returns the referenced patient, or uuid.Nil when none was given.
func (in *SaveInput) Validate() (uuid.UUID, error) {
	v := &errs.ValidationError{}
	var pid uuid.UUID
	if validate.Trim(in.PatientID) != nil && *in.PatientID != "" {
		pid = validate.ID(v, "patientId", in.PatientID, true)
	}
	if !HasFeatures(in.InputData) {
		v.Required("inputData")
	}
	if isEmpty(in.PredictionResult) {
		v.Required("predictionResult")
	}
	return pid, v.OrNil()
}

// HasFeatures reports whether raw is a JSON object with at least one key.
func HasFeatures(raw json.RawMessage) bool {
	if isEmpty(raw) {
		return false
	}
	var features map[string]json.RawMessage
	if err := json.Unmarshal(raw, &features); err != nil {
		return false
	}
	return len(features) > 0
}

func isEmpty(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
