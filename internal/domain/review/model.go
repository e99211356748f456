package review

import (
	"time"

	"github.com/google/uuid"
)

// Review maps to the review table. A review is verified when it is tied to
// a completed appointment the reviewer actually attended.
type Review struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"user_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Rating        int        `db:"rating" json:"rating"`
	Comment       *string    `db:"comment" json:"comment,omitempty"`
	IsVerified    bool       `db:"is_verified" json:"is_verified"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
