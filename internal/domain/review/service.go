package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abdultalha08475/doc-appt-booking-flow/pkg/pagination"
)

var (
	ErrNotFound   = errors.New("review not found")
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("appointment already reviewed")
)

// VisitLog is the slice of the booking domain the review service needs:
// whether a patient actually completed an appointment with a doctor.
type VisitLog interface {
	CompletedVisit(ctx context.Context, appointmentID uuid.UUID, patientID string, doctorID uuid.UUID) (bool, error)
}

// RatingSink receives the recomputed aggregate rating for a doctor.
type RatingSink interface {
	SetRating(ctx context.Context, doctorID uuid.UUID, rating float64) error
}

type Service struct {
	reviews Repository
	visits  VisitLog
	ratings RatingSink
}

func NewService(reviews Repository, visits VisitLog, ratings RatingSink) *Service {
	return &Service{reviews: reviews, visits: visits, ratings: ratings}
}

// Submit validates and stores a review, then recomputes the doctor's
// aggregate rating. A review referencing a completed appointment the
// reviewer attended is marked verified; each appointment can carry at most
// one review.
func (s *Service) Submit(ctx context.Context, rv *Review) (*Review, error) {
	if rv.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if rv.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if rv.Rating < 1 || rv.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	rv.IsVerified = false
	if rv.AppointmentID != nil {
		taken, err := s.reviews.ExistsForAppointment(ctx, *rv.AppointmentID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicate
		}
		completed, err := s.visits.CompletedVisit(ctx, *rv.AppointmentID, rv.UserID, rv.DoctorID)
		if err != nil {
			return nil, err
		}
		if !completed {
			return nil, fmt.Errorf("%w: appointment_id must reference your completed appointment with this doctor", ErrValidation)
		}
		rv.IsVerified = true
	}

	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}

	avg, _, err := s.reviews.AverageForDoctor(ctx, rv.DoctorID)
	if err != nil {
		return nil, err
	}
	if err := s.ratings.SetRating(ctx, rv.DoctorID, avg); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, params pagination.Params) ([]*Review, int, error) {
	return s.reviews.ListByDoctor(ctx, doctorID, params)
}
