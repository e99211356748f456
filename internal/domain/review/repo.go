package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/abdultalha08475/doc-appt-booking-flow/pkg/pagination"
)

// Repository persists reviews.
type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, params pagination.Params) ([]*Review, int, error)
	// AverageForDoctor returns the mean rating and review count for a doctor.
	AverageForDoctor(ctx context.Context, doctorID uuid.UUID) (float64, int, error)
	// ExistsForAppointment reports whether a review already references the appointment.
	ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}
