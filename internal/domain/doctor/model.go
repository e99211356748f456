package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctor table.
type Doctor struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Specialty       string     `db:"specialty" json:"specialty"`
	Qualification   *string    `db:"qualification" json:"qualification,omitempty"`
	Bio             *string    `db:"bio" json:"bio,omitempty"`
	Email           *string    `db:"email" json:"email,omitempty"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	AvatarURL       *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	ExperienceYears *int       `db:"experience_years" json:"experience_years,omitempty"`
	ConsultationFee *float64   `db:"consultation_fee" json:"consultation_fee,omitempty"`
	Rating          *float64   `db:"rating" json:"rating,omitempty"`
	DepartmentID    *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
