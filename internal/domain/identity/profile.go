// Package identity stores the lightweight per-account profile that the
// external identity provider does not carry: display name and phone.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates no profile row exists for the account.
var ErrNotFound = errors.New("profile not found")

// Profile maps to the profile table. ID is the auth subject, not a
// locally generated id.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Name      *string   `db:"name" json:"name,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Repository interface {
	Upsert(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
}

type Service struct {
	profiles Repository
}

func NewService(profiles Repository) *Service {
	return &Service{profiles: profiles}
}

func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

// Save creates or updates the caller's profile row.
func (s *Service) Save(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	return s.profiles.Upsert(ctx, p)
}
