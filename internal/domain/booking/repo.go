package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Allocation scopes. The scope decides whether queue numbers count up per
// clinic day or per doctor per day.
const (
	ScopeClinic = "clinic"
	ScopeDoctor = "doctor"
)

// Repository persists appointments. Create must allocate the queue number
// atomically with the insert: two concurrent creates in the same allocation
// scope may never observe the same number, and numbers are never reused
// even after cancellation.
type Repository interface {
	Create(ctx context.Context, a *Appointment, scope string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error)
	ListActiveByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error)
	QueueForDate(ctx context.Context, date time.Time, limit, offset int) ([]*Appointment, int, error)
	QueueForDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time, limit, offset int) ([]*Appointment, int, error)
}
