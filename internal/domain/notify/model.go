package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification types mirror where in the appointment lifecycle the message
// came from.
const (
	TypeAppointmentCreated = "appointment_created"
	TypeAppointmentUpdated = "appointment_updated"
	TypeSystem             = "system"
)

// Notification maps to the notification table.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	Title     string          `db:"title" json:"title"`
	Message   string          `db:"message" json:"message"`
	Type      string          `db:"type" json:"type"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	Data      json.RawMessage `db:"data" json:"data,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
