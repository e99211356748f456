package record

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("medical record not found")
	ErrValidation = errors.New("validation failed")
)

// Repository persists medical records.
type Repository interface {
	Create(ctx context.Context, rec *MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)
	Update(ctx context.Context, rec *MedicalRecord) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*MedicalRecord, int, error)
}
