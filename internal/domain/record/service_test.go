package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	records map[uuid.UUID]*MedicalRecord
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*MedicalRecord)}
}

func (m *mockRepo) Create(_ context.Context, rec *MedicalRecord) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	stored := *rec
	m.records[rec.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*MedicalRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (m *mockRepo) Update(_ context.Context, rec *MedicalRecord) error {
	if _, ok := m.records[rec.ID]; !ok {
		return ErrNotFound
	}
	rec.UpdatedAt = time.Now()
	stored := *rec
	m.records[rec.ID] = &stored
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]*MedicalRecord, int, error) {
	var out []*MedicalRecord
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

func strPtr(s string) *string { return &s }

func TestCreate_RequiresContent(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Create(context.Background(), &MedicalRecord{UserID: "u1", DoctorID: uuid.New()})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty record, got %v", err)
	}

	rec := &MedicalRecord{UserID: "u1", DoctorID: uuid.New(), Diagnosis: strPtr("seasonal flu")}
	if err := svc.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestGet_OwnerOrAdminOnly(t *testing.T) {
	svc := NewService(newMockRepo())
	rec := &MedicalRecord{UserID: "u1", DoctorID: uuid.New(), Notes: strPtr("follow up in two weeks")}
	if err := svc.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), rec.ID, "u1", false); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), rec.ID, "staff", true); err != nil {
		t.Errorf("admin read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), rec.ID, "u2", false); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign reader, got %v", err)
	}
}

func TestUpdate_OwnershipImmutable(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	doctorID := uuid.New()
	rec := &MedicalRecord{UserID: "u1", DoctorID: doctorID, Diagnosis: strPtr("sprain")}
	if err := svc.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}

	patch := &MedicalRecord{ID: rec.ID, UserID: "hijacked", DoctorID: uuid.New(), Diagnosis: strPtr("sprain, healing well")}
	if err := svc.Update(context.Background(), patch); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := repo.GetByID(context.Background(), rec.ID)
	if got.UserID != "u1" || got.DoctorID != doctorID {
		t.Error("update must not change record ownership")
	}
	if got.Diagnosis == nil || *got.Diagnosis != "sprain, healing well" {
		t.Errorf("diagnosis not updated: %v", got.Diagnosis)
	}
}
