package record

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MedicalRecord maps to the medical_record table. Files holds attachment
// descriptors (name, URL, content type) as opaque JSON.
type MedicalRecord struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	DoctorID      uuid.UUID       `db:"doctor_id" json:"doctor_id"`
	AppointmentID *uuid.UUID      `db:"appointment_id" json:"appointment_id,omitempty"`
	Diagnosis     *string         `db:"diagnosis" json:"diagnosis,omitempty"`
	Prescription  *string         `db:"prescription" json:"prescription,omitempty"`
	Notes         *string         `db:"notes" json:"notes,omitempty"`
	Files         json.RawMessage `db:"files" json:"files,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}
