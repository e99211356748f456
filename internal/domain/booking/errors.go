package booking

import "errors"

var (
	// ErrValidation indicates malformed or missing booking fields. Surfaced
	// inline to the caller, never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrClinicClosed indicates a booking attempt on the weekly closure day.
	ErrClinicClosed = errors.New("clinic is closed on the requested date")
	// ErrInvalidSlot indicates the requested time is not in the catalog for
	// that date.
	ErrInvalidSlot = errors.New("requested time is not a bookable slot")
	// ErrSlotTaken indicates the doctor+date+slot combination is already held
	// by a non-cancelled appointment. Callers must re-select, never retry
	// blindly.
	ErrSlotTaken = errors.New("slot is no longer available")
	// ErrInvalidTransition indicates a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden indicates the caller does not own the appointment and is
	// not an administrator.
	ErrForbidden = errors.New("not allowed to modify this appointment")
	// ErrDoctorUnavailable indicates the doctor is unknown or not accepting
	// bookings.
	ErrDoctorUnavailable = errors.New("doctor is not accepting appointments")
)
