package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/validate"
)

var (
	Stages  = []string{"Mild", "Moderate", "Severe"}
	Genders = []string{"Male", "Female", "Other"}
)

type EmergencyContact struct {
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Patient is a person under care. Removing a patient clears IsActive; the
// record itself is kept.
type Patient struct {
	ID               uuid.UUID         `json:"id" bson:"_id"`
	UserID           string            `json:"userId" bson:"userId"`
	Name             string            `json:"name" bson:"name"`
	Age              int               `json:"age" bson:"age"`
	Diagnosis        string            `json:"diagnosis" bson:"diagnosis"`
	Stage            string            `json:"stage" bson:"stage"`
	CaregiverID      string            `json:"caregiverId" bson:"caregiverId"`
	DateOfBirth      *time.Time        `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Gender           string            `json:"gender,omitempty" bson:"gender,omitempty"`
	ContactNumber    string            `json:"contactNumber,omitempty" bson:"contactNumber,omitempty"`
	Address          string            `json:"address,omitempty" bson:"address,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	MedicalHistory   string            `json:"medicalHistory,omitempty" bson:"medicalHistory,omitempty"`
	IsActive         bool              `json:"isActive" bson:"isActive"`
	CreatedAt        time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt" bson:"updatedAt"`
}

func (p *Patient) DocumentID() uuid.UUID { return p.ID }
func (p *Patient) DocumentOwner() string { return p.UserID }

type EmergencyContactInput struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	Phone        *string `json:"phone"`
}

// Input is the create/update payload. Nil fields were not supplied.
type Input struct {
	Name             *string                `json:"name"`
	Age              *int                   `json:"age"`
	Diagnosis        *string                `json:"diagnosis"`
	Stage            *string                `json:"stage"`
	CaregiverID      *string                `json:"caregiverId"`
	DateOfBirth      *string                `json:"dateOfBirth"`
	Gender           *string                `json:"gender"`
	ContactNumber    *string                `json:"contactNumber"`
	Address          *string                `json:"address"`
	EmergencyContact *EmergencyContactInput `json:"emergencyContact"`
	MedicalHistory   *string                `json:"medicalHistory"`
	IsActive         *bool                  `json:"isActive"`
}

// Validate checks in. partial is set for updates, where required fields may
// be omitted. phoneRegion is the default region for numbers without a
// country code.
func (in *Input) Validate(partial bool, phoneRegion string) (*time.Time, error) {
	v := &errs.ValidationError{}
	validate.Required(v, "name", in.Name, partial)
	if in.Age == nil && !partial {
		v.Required("age")
	}
	validate.AtLeast(v, "age", in.Age, 0)
	validate.Required(v, "diagnosis", in.Diagnosis, partial)
	if in.Stage == nil && !partial {
		v.Required("stage")
	}
	validate.OneOf(v, "stage", in.Stage, Stages)
	validate.Required(v, "caregiverId", in.CaregiverID, partial)

	dob := validate.Date(v, "dateOfBirth", in.DateOfBirth)
	if in.Gender != nil && *in.Gender != "" {
		validate.OneOf(v, "gender", in.Gender, Genders)
	}
	validate.Trim(in.Address)
	validate.Trim(in.MedicalHistory)
	validate.Phone(v, "contactNumber", in.ContactNumber, phoneRegion)
	if ec := in.EmergencyContact; ec != nil {
		validate.Trim(ec.Name)
		validate.Trim(ec.Relationship)
		validate.Phone(v, "emergencyContact.phone", ec.Phone, phoneRegion)
	}
	return dob, v.OrNil()
}

// Apply copies supplied fields onto p. Input must already be validated.
func (in *Input) Apply(p *Patient, dob *time.Time) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Age != nil {
		p.Age = *in.Age
	}
	if in.Diagnosis != nil {
		p.Diagnosis = *in.Diagnosis
	}
	if in.Stage != nil {
		p.Stage = *in.Stage
	}
	if in.CaregiverID != nil {
		p.CaregiverID = *in.CaregiverID
	}
	if in.DateOfBirth != nil {
		p.DateOfBirth = dob
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.ContactNumber != nil {
		p.ContactNumber = *in.ContactNumber
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if ec := in.EmergencyContact; ec != nil {
		if p.EmergencyContact == nil {
			p.EmergencyContact = &EmergencyContact{}
		}
		if ec.Name != nil {
			p.EmergencyContact.Name = *ec.Name
		}
		if ec.Relationship != nil {
			p.EmergencyContact.Relationship = *ec.Relationship
		}
		if ec.Phone != nil {
			p.EmergencyContact.Phone = *ec.Phone
		}
	}
	if in.MedicalHistory != nil {
		p.MedicalHistory = *in.MedicalHistory
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}
