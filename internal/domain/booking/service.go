package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abdultalha08475/doc-appt-booking-flow/internal/domain/catalog"
)

// DoctorDirectory is the slice of the doctor domain the booking service
// needs: whether a doctor exists and accepts bookings.
type DoctorDirectory interface {
	IsBookable(ctx context.Context, id uuid.UUID) (bool, error)
}

// Announcer receives appointment lifecycle events. Implementations fan out
// to notifications and the realtime feed; failures there must never fail
// the booking itself.
type Announcer interface {
	AppointmentCreated(ctx context.Context, a *Appointment)
	AppointmentUpdated(ctx context.Context, a *Appointment)
}

type Service struct {
	appts     Repository
	doctors   DoctorDirectory
	announcer Announcer
	scope     string
}

// NewService builds the booking service. scope is ScopeClinic or
// ScopeDoctor; announcer may be nil.
func NewService(appts Repository, doctors DoctorDirectory, announcer Announcer, scope string) *Service {
	if scope != ScopeClinic && scope != ScopeDoctor {
		scope = ScopeClinic
	}
	return &Service{appts: appts, doctors: doctors, announcer: announcer, scope: scope}
}

// Book validates and creates an appointment. Whatever queue number the
// caller put on the request is discarded; the allocator assigns the real
// one. When an idempotency key is supplied a replay returns the appointment
// from the first attempt instead of booking twice.
func (s *Service) Book(ctx context.Context, a *Appointment) (*Appointment, error) {
	if a.PatientID == "" {
		return nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if a.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	if a.PatientName == "" {
		return nil, fmt.Errorf("%w: patient_name is required", ErrValidation)
	}
	if err := validatePhone(a.PatientPhone); err != nil {
		return nil, err
	}
	if a.AppointmentDate.IsZero() {
		return nil, fmt.Errorf("%w: appointment_date is required", ErrValidation)
	}

	if a.IdempotencyKey != nil && *a.IdempotencyKey != "" {
		existing, err := s.appts.GetByIdempotencyKey(ctx, *a.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	if catalog.IsClosed(a.AppointmentDate) {
		return nil, ErrClinicClosed
	}
	slot, ok := catalog.Find(a.AppointmentDate, a.TimeSlot)
	if !ok {
		return nil, ErrInvalidSlot
	}
	// The emergency flag belongs to the slot definition, not the request.
	a.IsEmergency = slot.IsEmergency

	bookable, err := s.doctors.IsBookable(ctx, a.DoctorID)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return nil, ErrDoctorUnavailable
	}

	taken, err := s.slotTaken(ctx, a.DoctorID, a.AppointmentDate, a.TimeSlot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	a.QueueNumber = 0
	a.Status = StatusConfirmed
	if err := s.appts.Create(ctx, a, s.scope); err != nil {
		return nil, err
	}

	if s.announcer != nil {
		s.announcer.AppointmentCreated(ctx, a)
	}
	return a, nil
}

// Availability resolves which catalog slots remain bookable for a doctor
// on a date. On the closure day the result is marked Closed with an empty
// slot list.
func (s *Service) Availability(ctx context.Context, doctorID uuid.UUID, date time.Time) (*Availability, error) {
	result := &Availability{
		DoctorID: doctorID,
		Date:     date.Format("2006-01-02"),
	}
	if catalog.IsClosed(date) {
		result.Closed = true
		return result, nil
	}

	existing, err := s.appts.ListActiveByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]bool, len(existing))
	for _, a := range existing {
		occupied[a.TimeSlot] = true
	}

	for _, slot := range catalog.SlotsFor(date) {
		result.Slots = append(result.Slots, SlotAvailability{
			TimeSlot:  slot,
			Available: !occupied[slot.Time],
		})
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

// Cancel moves an appointment to cancelled. Only the owning patient or an
// administrator may cancel, and only from a non-terminal status.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actorID string, isAdmin bool) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && a.PatientID != actorID {
		return nil, ErrForbidden
	}
	return s.transition(ctx, a, StatusCancelled)
}

// UpdateStatus applies an admin-driven status change through the state
// machine.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid appointment status %s", ErrValidation, status)
	}
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, a, status)
}

func (s *Service) transition(ctx context.Context, a *Appointment, to string) (*Appointment, error) {
	if !CanTransition(a.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	if err := s.appts.UpdateStatus(ctx, a.ID, to); err != nil {
		return nil, err
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	if s.announcer != nil {
		s.announcer.AppointmentUpdated(ctx, a)
	}
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, limit, offset)
}

// Queue returns the operational queue for a date, optionally narrowed to
// one doctor. Emergencies come first, then queue number order.
func (s *Service) Queue(ctx context.Context, date time.Time, doctorID *uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	if doctorID != nil {
		return s.appts.QueueForDoctorAndDate(ctx, *doctorID, date, limit, offset)
	}
	return s.appts.QueueForDate(ctx, date, limit, offset)
}

// CompletedVisit reports whether the appointment exists, belongs to the
// patient, was with the doctor, and has been completed. The review domain
// uses it to mark verified reviews.
func (s *Service) CompletedVisit(ctx context.Context, appointmentID uuid.UUID, patientID string, doctorID uuid.UUID) (bool, error) {
	a, err := s.appts.GetByID(ctx, appointmentID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return a.PatientID == patientID && a.DoctorID == doctorID && a.Status == StatusCompleted, nil
}

func (s *Service) slotTaken(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (bool, error) {
	existing, err := s.appts.ListActiveByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return false, err
	}
	for _, a := range existing {
		if a.TimeSlot == slot {
			return true, nil
		}
	}
	return false, nil
}

func validatePhone(phone string) error {
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return fmt.Errorf("%w: invalid patient_phone character %q", ErrValidation, r)
		}
	}
	if digits < 7 || digits > 15 {
		return fmt.Errorf("%w: patient_phone must contain 7-15 digits", ErrValidation)
	}
	return nil
}
