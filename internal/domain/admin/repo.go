package admin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// Repository persists departments, settings and serves dashboard queries.
type Repository interface {
	CreateDepartment(ctx context.Context, d *Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error)
	UpdateDepartment(ctx context.Context, d *Department) error
	ListDepartments(ctx context.Context, onlyActive bool) ([]*Department, error)

	GetSetting(ctx context.Context, key string) (*Setting, error)
	UpsertSetting(ctx context.Context, s *Setting) error
	ListSettings(ctx context.Context) ([]*Setting, error)

	StatsForDate(ctx context.Context, date time.Time) (*DayStats, error)
}
