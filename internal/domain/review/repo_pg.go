package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdultalha08475/doc-appt-booking-flow/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const reviewCols = `id, user_id, doctor_id, appointment_id, rating, comment, is_verified, created_at`

func scanReview(row pgx.Row) (*Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.DoctorID, &rv.AppointmentID, &rv.Rating,
		&rv.Comment, &rv.IsVerified, &rv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &rv, err
}

func (r *repoPG) Create(ctx context.Context, rv *Review) error {
	rv.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO review (id, user_id, doctor_id, appointment_id, rating, comment, is_verified)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		rv.ID, rv.UserID, rv.DoctorID, rv.AppointmentID, rv.Rating, rv.Comment, rv.IsVerified,
	).Scan(&rv.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	return scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewCols+` FROM review WHERE id = $1`, id))
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, params pagination.Params) ([]*Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM review WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+reviewCols+` FROM review
		WHERE doctor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, doctorID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rv)
	}
	return items, total, rows.Err()
}

func (r *repoPG) AverageForDoctor(ctx context.Context, doctorID uuid.UUID) (float64, int, error) {
	var avg float64
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM review WHERE doctor_id = $1`,
		doctorID).Scan(&avg, &count)
	return avg, count, err
}

func (r *repoPG) ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM review WHERE appointment_id = $1)`,
		appointmentID).Scan(&exists)
	return exists, err
}
