package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	d.IsActive = true
	return s.repo.CreateDepartment(ctx, d)
}

func (s *Service) UpdateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return s.repo.UpdateDepartment(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.repo.GetDepartment(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, onlyActive bool) ([]*Department, error) {
	return s.repo.ListDepartments(ctx, onlyActive)
}

func (s *Service) GetSetting(ctx context.Context, key string) (*Setting, error) {
	return s.repo.GetSetting(ctx, key)
}

// SaveSetting validates the value is well formed JSON before storing it.
func (s *Service) SaveSetting(ctx context.Context, setting *Setting) error {
	if setting.Key == "" {
		return fmt.Errorf("%w: key is required", ErrValidation)
	}
	if !json.Valid(setting.Value) {
		return fmt.Errorf("%w: value must be valid JSON", ErrValidation)
	}
	return s.repo.UpsertSetting(ctx, setting)
}

func (s *Service) ListSettings(ctx context.Context) ([]*Setting, error) {
	return s.repo.ListSettings(ctx)
}

func (s *Service) StatsForDate(ctx context.Context, date time.Time) (*DayStats, error) {
	return s.repo.StatsForDate(ctx, date)
}
