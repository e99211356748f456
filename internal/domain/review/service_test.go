package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abdultalha08475/doc-appt-booking-flow/pkg/pagination"
)

type mockRepo struct {
	reviews map[uuid.UUID]*Review
}

func newMockRepo() *mockRepo {
	return &mockRepo{reviews: make(map[uuid.UUID]*Review)}
}

func (m *mockRepo) Create(_ context.Context, rv *Review) error {
	rv.ID = uuid.New()
	rv.CreatedAt = time.Now()
	stored := *rv
	m.reviews[rv.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Review, error) {
	rv, ok := m.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rv, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, _ pagination.Params) ([]*Review, int, error) {
	var items []*Review
	for _, rv := range m.reviews {
		if rv.DoctorID == doctorID {
			items = append(items, rv)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) AverageForDoctor(_ context.Context, doctorID uuid.UUID) (float64, int, error) {
	sum, count := 0, 0
	for _, rv := range m.reviews {
		if rv.DoctorID == doctorID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (m *mockRepo) ExistsForAppointment(_ context.Context, appointmentID uuid.UUID) (bool, error) {
	for _, rv := range m.reviews {
		if rv.AppointmentID != nil && *rv.AppointmentID == appointmentID {
			return true, nil
		}
	}
	return false, nil
}

type mockVisits struct {
	completed map[uuid.UUID]struct {
		patientID string
		doctorID  uuid.UUID
	}
}

func newMockVisits() *mockVisits {
	return &mockVisits{completed: make(map[uuid.UUID]struct {
		patientID string
		doctorID  uuid.UUID
	})}
}

func (m *mockVisits) markCompleted(apptID uuid.UUID, patientID string, doctorID uuid.UUID) {
	m.completed[apptID] = struct {
		patientID string
		doctorID  uuid.UUID
	}{patientID, doctorID}
}

func (m *mockVisits) CompletedVisit(_ context.Context, apptID uuid.UUID, patientID string, doctorID uuid.UUID) (bool, error) {
	v, ok := m.completed[apptID]
	return ok && v.patientID == patientID && v.doctorID == doctorID, nil
}

type mockRatings struct {
	ratings map[uuid.UUID]float64
}

func newMockRatings() *mockRatings {
	return &mockRatings{ratings: make(map[uuid.UUID]float64)}
}

func (m *mockRatings) SetRating(_ context.Context, doctorID uuid.UUID, rating float64) error {
	m.ratings[doctorID] = rating
	return nil
}

func TestSubmit_RatingBounds(t *testing.T) {
	svc := NewService(newMockRepo(), newMockVisits(), newMockRatings())
	doctorID := uuid.New()

	for _, rating := range []int{0, -1, 6, 10} {
		_, err := svc.Submit(context.Background(), &Review{UserID: "u1", DoctorID: doctorID, Rating: rating})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("rating %d: expected ErrValidation, got %v", rating, err)
		}
	}
	for _, rating := range []int{1, 3, 5} {
		if _, err := svc.Submit(context.Background(), &Review{UserID: "u1", DoctorID: doctorID, Rating: rating}); err != nil {
			t.Errorf("rating %d: unexpected error: %v", rating, err)
		}
	}
}

func TestSubmit_RecomputesDoctorRating(t *testing.T) {
	ratings := newMockRatings()
	svc := NewService(newMockRepo(), newMockVisits(), ratings)
	doctorID := uuid.New()

	for _, rating := range []int{5, 4, 3} {
		if _, err := svc.Submit(context.Background(), &Review{UserID: "u1", DoctorID: doctorID, Rating: rating}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	if got := ratings.ratings[doctorID]; got != 4 {
		t.Errorf("expected aggregate rating 4, got %v", got)
	}
}

func TestSubmit_VerifiedWhenVisitCompleted(t *testing.T) {
	visits := newMockVisits()
	svc := NewService(newMockRepo(), visits, newMockRatings())
	doctorID := uuid.New()
	apptID := uuid.New()
	visits.markCompleted(apptID, "u1", doctorID)

	rv, err := svc.Submit(context.Background(), &Review{
		UserID: "u1", DoctorID: doctorID, AppointmentID: &apptID, Rating: 5,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !rv.IsVerified {
		t.Error("expected review tied to a completed visit to be verified")
	}
}

func TestSubmit_RejectsForeignAppointment(t *testing.T) {
	visits := newMockVisits()
	svc := NewService(newMockRepo(), visits, newMockRatings())
	doctorID := uuid.New()
	apptID := uuid.New()
	visits.markCompleted(apptID, "someone-else", doctorID)

	_, err := svc.Submit(context.Background(), &Review{
		UserID: "u1", DoctorID: doctorID, AppointmentID: &apptID, Rating: 5,
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for another patient's appointment, got %v", err)
	}
}

func TestSubmit_UnverifiedWithoutAppointment(t *testing.T) {
	svc := NewService(newMockRepo(), newMockVisits(), newMockRatings())

	rv, err := svc.Submit(context.Background(), &Review{UserID: "u1", DoctorID: uuid.New(), Rating: 4})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rv.IsVerified {
		t.Error("review without an appointment must not be verified")
	}
}

func TestSubmit_OneReviewPerAppointment(t *testing.T) {
	visits := newMockVisits()
	svc := NewService(newMockRepo(), visits, newMockRatings())
	doctorID := uuid.New()
	apptID := uuid.New()
	visits.markCompleted(apptID, "u1", doctorID)

	first := &Review{UserID: "u1", DoctorID: doctorID, AppointmentID: &apptID, Rating: 5}
	if _, err := svc.Submit(context.Background(), first); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	second := &Review{UserID: "u1", DoctorID: doctorID, AppointmentID: &apptID, Rating: 1}
	if _, err := svc.Submit(context.Background(), second); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate on second review for the same appointment, got %v", err)
	}
}
