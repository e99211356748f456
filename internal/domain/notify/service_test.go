package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abdultalha08475/doc-appt-booking-flow/internal/domain/booking"
	ws "github.com/abdultalha08475/doc-appt-booking-flow/internal/platform/websocket"
)

type mockRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Notification
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Notification)}
}

func (m *mockRepo) Create(_ context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	stored := *n
	m.items[n.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]*Notification, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Notification
	for _, n := range m.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, len(out), nil
}

func (m *mockRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (m *mockRepo) MarkAllRead(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event ws.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Topic
	}
	return out
}

func testAppointment() *booking.Appointment {
	return &booking.Appointment{
		ID:              uuid.New(),
		PatientID:       "user-1",
		DoctorID:        uuid.New(),
		PatientName:     "Asha Rao",
		AppointmentDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "09:00",
		QueueNumber:     1,
		Status:          booking.StatusConfirmed,
	}
}

func TestAnnouncer_CreatedStoresNotificationAndBroadcasts(t *testing.T) {
	repo := newMockRepo()
	pub := &recordingPublisher{}
	an := NewAnnouncer(NewService(repo, pub, zerolog.Nop()))
	a := testAppointment()

	an.AppointmentCreated(context.Background(), a)

	stored, _, err := repo.ListByUser(context.Background(), "user-1", false, 50, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(stored))
	}
	if stored[0].Type != TypeAppointmentCreated {
		t.Errorf("expected type %s, got %s", TypeAppointmentCreated, stored[0].Type)
	}

	want := map[string]bool{
		ws.UserTopic("user-1"):              false,
		ws.TopicAppointments:                false,
		ws.DoctorTopic(a.DoctorID.String()): false,
	}
	for _, topic := range pub.topics() {
		if _, ok := want[topic]; ok {
			want[topic] = true
		}
	}
	for topic, seen := range want {
		if !seen {
			t.Errorf("expected a broadcast on topic %s", topic)
		}
	}
}

func TestAnnouncer_UpdatedMessageFollowsStatus(t *testing.T) {
	repo := newMockRepo()
	an := NewAnnouncer(NewService(repo, &recordingPublisher{}, zerolog.Nop()))
	a := testAppointment()
	a.Status = booking.StatusCancelled

	an.AppointmentUpdated(context.Background(), a)

	stored, _, _ := repo.ListByUser(context.Background(), "user-1", false, 50, 0)
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(stored))
	}
	if stored[0].Title != "Appointment cancelled" {
		t.Errorf("unexpected title %q", stored[0].Title)
	}
}

func TestService_MarkRead_OwnerOnly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, zerolog.Nop())

	n := &Notification{UserID: "user-1", Title: "t", Message: "m", Type: TypeSystem}
	if err := svc.Notify(context.Background(), n); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if err := svc.MarkRead(context.Background(), n.ID, "someone-else"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign notification, got %v", err)
	}
	if err := svc.MarkRead(context.Background(), n.ID, "user-1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	unread, _, _ := repo.ListByUser(context.Background(), "user-1", true, 50, 0)
	if len(unread) != 0 {
		t.Errorf("expected no unread notifications, got %d", len(unread))
	}
}

func TestService_NotifyPublishesToUserFeed(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(newMockRepo(), pub, zerolog.Nop())

	n := &Notification{UserID: "user-9", Title: "t", Message: "m", Type: TypeSystem}
	if err := svc.Notify(context.Background(), n); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	topics := pub.topics()
	if len(topics) != 1 || topics[0] != ws.UserTopic("user-9") {
		t.Errorf("expected one publish on the user feed, got %v", topics)
	}
}
