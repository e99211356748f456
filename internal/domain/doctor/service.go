package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound indicates the doctor does not exist.
var ErrNotFound = errors.New("doctor not found")

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}
	d.IsActive = true
	return s.doctors.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Specialty == "" {
		return fmt.Errorf("specialty is required")
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.doctors.SetActive(ctx, id, active)
}

func (s *Service) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, onlyActive, limit, offset)
}

func (s *Service) ListByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.ListByDepartment(ctx, departmentID, limit, offset)
}

// SetRating stores the aggregate review score. Called by the review domain
// after each accepted review.
func (s *Service) SetRating(ctx context.Context, id uuid.UUID, rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return s.doctors.SetRating(ctx, id, rating)
}

// IsBookable reports whether the doctor exists and currently accepts
// appointments. Unknown doctors are simply not bookable.
func (s *Service) IsBookable(ctx context.Context, id uuid.UUID) (bool, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return d.IsActive, nil
}
