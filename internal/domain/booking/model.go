package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/abdultalha08475/doc-appt-booking-flow/internal/domain/catalog"
)

// Appointment statuses.
const (
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Appointment maps to the appointment table. AppointmentDate carries a
// calendar date only; TimeSlot is the HH:MM catalog slot identifier.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       string    `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientName     string    `db:"patient_name" json:"patient_name"`
	PatientPhone    string    `db:"patient_phone" json:"patient_phone"`
	PatientAge      *int      `db:"patient_age" json:"patient_age,omitempty"`
	AppointmentDate time.Time `db:"appointment_date" json:"appointment_date"`
	TimeSlot        string    `db:"time_slot" json:"time_slot"`
	QueueNumber     int       `db:"queue_number" json:"queue_number"`
	Status          string    `db:"status" json:"status"`
	IsEmergency     bool      `db:"is_emergency" json:"is_emergency"`
	Reason          *string   `db:"reason" json:"reason,omitempty"`
	IdempotencyKey  *string   `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// DateKey returns the appointment date normalized to YYYY-MM-DD.
func (a *Appointment) DateKey() string {
	return a.AppointmentDate.Format("2006-01-02")
}

// SlotAvailability is one catalog slot annotated with its booking state
// for a specific doctor and date.
type SlotAvailability struct {
	catalog.TimeSlot
	Available bool `json:"available"`
}

// Availability is the full resolver result for a doctor and date. Closed
// distinguishes "clinic shut that day" from "open but every slot taken":
// both produce zero available slots but callers need to tell them apart.
type Availability struct {
	DoctorID uuid.UUID          `json:"doctor_id"`
	Date     string             `json:"date"`
	Closed   bool               `json:"closed"`
	Slots    []SlotAvailability `json:"slots"`
}
