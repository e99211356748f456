package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abdultalha08475/doc-appt-booking-flow/internal/domain/booking"
	ws "github.com/abdultalha08475/doc-appt-booking-flow/internal/platform/websocket"
)

// Announcer turns appointment lifecycle events into stored notifications
// and realtime broadcasts. It satisfies the booking service's announcer
// contract; every failure is logged and swallowed so the booking itself
// never fails on notification trouble.
type Announcer struct {
	svc *Service
}

func NewAnnouncer(svc *Service) *Announcer {
	return &Announcer{svc: svc}
}

func (an *Announcer) AppointmentCreated(ctx context.Context, a *booking.Appointment) {
	title := "Appointment confirmed"
	msg := fmt.Sprintf("Your appointment on %s at %s is confirmed. Queue number %d.",
		a.DateKey(), a.TimeSlot, a.QueueNumber)
	if a.IsEmergency {
		title = "Emergency appointment confirmed"
	}
	an.record(ctx, a, title, msg, TypeAppointmentCreated)
	an.broadcast(ctx, ws.EventInsert, a)
}

func (an *Announcer) AppointmentUpdated(ctx context.Context, a *booking.Appointment) {
	var title, msg string
	switch a.Status {
	case booking.StatusInProgress:
		title = "You're up"
		msg = fmt.Sprintf("Your appointment at %s is starting now.", a.TimeSlot)
	case booking.StatusCompleted:
		title = "Appointment completed"
		msg = fmt.Sprintf("Your appointment on %s has been completed.", a.DateKey())
	case booking.StatusCancelled:
		title = "Appointment cancelled"
		msg = fmt.Sprintf("Your appointment on %s at %s was cancelled.", a.DateKey(), a.TimeSlot)
	default:
		title = "Appointment updated"
		msg = fmt.Sprintf("Your appointment on %s was updated.", a.DateKey())
	}
	an.record(ctx, a, title, msg, TypeAppointmentUpdated)
	an.broadcast(ctx, ws.EventUpdate, a)
}

func (an *Announcer) record(ctx context.Context, a *booking.Appointment, title, msg, typ string) {
	data, _ := json.Marshal(map[string]string{
		"appointment_id": a.ID.String(),
		"status":         a.Status,
	})
	n := &Notification{
		UserID:  a.PatientID,
		Title:   title,
		Message: msg,
		Type:    typ,
		Data:    data,
	}
	if err := an.svc.Notify(ctx, n); err != nil {
		an.svc.log.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("failed to record notification")
	}
}

// broadcast pushes the appointment change on the shared appointments topic
// and the doctor's own feed. The patient's feed already got the stored
// notification through Notify.
func (an *Announcer) broadcast(ctx context.Context, eventType string, a *booking.Appointment) {
	for _, topic := range []string{ws.TopicAppointments, ws.DoctorTopic(a.DoctorID.String())} {
		an.svc.publish(ctx, ws.Event{
			Type:     eventType,
			Topic:    topic,
			Entity:   "appointment",
			EntityID: a.ID.String(),
		}, a)
	}
}
