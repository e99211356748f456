package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	records Repository
}

func NewService(records Repository) *Service {
	return &Service{records: records}
}

// Create stores a record written by clinic staff for a patient.
func (s *Service) Create(ctx context.Context, rec *MedicalRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if rec.DoctorID == uuid.Nil {
		return fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if empty(rec.Diagnosis) && empty(rec.Prescription) && empty(rec.Notes) {
		return fmt.Errorf("%w: at least one of diagnosis, prescription or notes is required", ErrValidation)
	}
	return s.records.Create(ctx, rec)
}

func (s *Service) Update(ctx context.Context, rec *MedicalRecord) error {
	existing, err := s.records.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	// Ownership columns are immutable once written.
	rec.UserID = existing.UserID
	rec.DoctorID = existing.DoctorID
	rec.AppointmentID = existing.AppointmentID
	return s.records.Update(ctx, rec)
}

// Get returns a record when the requester owns it or is an administrator.
func (s *Service) Get(ctx context.Context, id uuid.UUID, actorID string, isAdmin bool) (*MedicalRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && rec.UserID != actorID {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.records.ListByUser(ctx, userID, limit, offset)
}

func empty(s *string) bool { return s == nil || *s == "" }
