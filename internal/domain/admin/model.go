package admin

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Department groups doctors by specialty area.
type Department struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Setting is a clinic-wide configuration entry keyed by name. Value is
// opaque JSON so callers decide its shape.
type Setting struct {
	Key         string          `db:"key" json:"key"`
	Value       json.RawMessage `db:"value" json:"value"`
	Description *string         `db:"description" json:"description,omitempty"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// DayStats summarizes one clinic day for the admin dashboard.
type DayStats struct {
	Date        string         `json:"date"`
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	Emergencies int            `json:"emergencies"`
}
