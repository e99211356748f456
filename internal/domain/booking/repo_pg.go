package booking

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, doctor_id, patient_name, patient_phone, patient_age,
	appointment_date, time_slot, queue_number, status, is_emergency, reason,
	idempotency_key, created_at, updated_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.PatientName, &a.PatientPhone, &a.PatientAge,
		&a.AppointmentDate, &a.TimeSlot, &a.QueueNumber, &a.Status, &a.IsEmergency, &a.Reason,
		&a.IdempotencyKey, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

// allocationLockKey derives the advisory lock key for an allocation scope.
// Same scope, same key: concurrent creates in one scope serialize on it.
func allocationLockKey(scope string, a *Appointment) int64 {
	h := fnv.New64a()
	h.Write([]byte("queue:"))
	h.Write([]byte(a.DateKey()))
	if scope == ScopeDoctor {
		h.Write([]byte(":"))
		h.Write([]byte(a.DoctorID.String()))
	}
	return int64(h.Sum64())
}

// Create inserts the appointment and assigns its queue number inside one
// transaction. An advisory transaction lock on the allocation scope makes
// concurrent allocations take numbers strictly one after another. The
// running maximum counts every row in the scope, cancelled included, so a
// freed number is never handed out again.
func (r *repoPG) Create(ctx context.Context, a *Appointment, scope string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, allocationLockKey(scope, a)); err != nil {
		return err
	}

	nextQuery := `SELECT COALESCE(MAX(queue_number), 0) + 1 FROM appointment WHERE appointment_date = $1`
	args := []interface{}{a.AppointmentDate}
	if scope == ScopeDoctor {
		nextQuery += ` AND doctor_id = $2`
		args = append(args, a.DoctorID)
	}
	if err := tx.QueryRow(ctx, nextQuery, args...).Scan(&a.QueueNumber); err != nil {
		return err
	}

	a.ID = uuid.New()
	row := tx.QueryRow(ctx, `
		INSERT INTO appointment (id, patient_id, doctor_id, patient_name, patient_phone, patient_age,
			appointment_date, time_slot, queue_number, status, is_emergency, reason, idempotency_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.PatientName, a.PatientPhone, a.PatientAge,
		a.AppointmentDate, a.TimeSlot, a.QueueNumber, a.Status, a.IsEmergency, a.Reason, a.IdempotencyKey)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "idempotency") && a.IdempotencyKey != nil {
				// Lost a replay race; hand back the row the first attempt made.
				existing, gerr := r.GetByIdempotencyKey(ctx, *a.IdempotencyKey)
				if gerr != nil {
					return gerr
				}
				*a = *existing
				return nil
			}
			return ErrSlotTaken
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) GetByIdempotencyKey(ctx context.Context, key string) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE idempotency_key = $1`, key))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appointment SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE patient_id = $1
		ORDER BY appointment_date DESC, queue_number DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) ListActiveByDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1 AND appointment_date = $2 AND status IN ($3, $4)
		ORDER BY time_slot ASC`, doctorID, date, StatusConfirmed, StatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := collect(rows, 0)
	return items, err
}

// QueueForDate returns the operational queue for a clinic day. Emergency
// bookings sort ahead of regular ones; within each band the queue number
// decides.
func (r *repoPG) QueueForDate(ctx context.Context, date time.Time, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE appointment_date = $1`, date).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE appointment_date = $1
		ORDER BY is_emergency DESC, queue_number ASC
		LIMIT $2 OFFSET $3`, date, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) QueueForDoctorAndDate(ctx context.Context, doctorID uuid.UUID, date time.Time, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE doctor_id = $1 AND appointment_date = $2`, doctorID, date).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1 AND appointment_date = $2
		ORDER BY is_emergency DESC, queue_number ASC
		LIMIT $3 OFFSET $4`, doctorID, date, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
