package admin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const deptCols = `id, name, description, is_active, created_at, updated_at`

func scanDepartment(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *repoPG) CreateDepartment(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO department (id, name, description, is_active)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Description, d.IsActive,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *repoPG) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return scanDepartment(r.pool.QueryRow(ctx, `SELECT `+deptCols+` FROM department WHERE id = $1`, id))
}

func (r *repoPG) UpdateDepartment(ctx context.Context, d *Department) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE department SET name = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		d.ID, d.Name, d.Description, d.IsActive)
	err := row.Scan(&d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) ListDepartments(ctx context.Context, onlyActive bool) ([]*Department, error) {
	query := `SELECT ` + deptCols + ` FROM department`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *repoPG) GetSetting(ctx context.Context, key string) (*Setting, error) {
	var s Setting
	err := r.pool.QueryRow(ctx, `SELECT key, value, description, updated_at FROM clinic_setting WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &s, err
}

func (r *repoPG) UpsertSetting(ctx context.Context, s *Setting) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO clinic_setting (key, value, description)
		VALUES ($1,$2,$3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    description = COALESCE(EXCLUDED.description, clinic_setting.description),
		    updated_at = NOW()
		RETURNING updated_at`,
		s.Key, s.Value, s.Description,
	).Scan(&s.UpdatedAt)
}

func (r *repoPG) ListSettings(ctx context.Context) ([]*Setting, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value, description, updated_at FROM clinic_setting ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *repoPG) StatsForDate(ctx context.Context, date time.Time) (*DayStats, error) {
	stats := &DayStats{
		Date:     date.Format("2006-01-02"),
		ByStatus: make(map[string]int),
	}
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*), COUNT(*) FILTER (WHERE is_emergency)
		FROM appointment
		WHERE appointment_date = $1
		GROUP BY status`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count, emergencies int
		if err := rows.Scan(&status, &count, &emergencies); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
		stats.Emergencies += emergencies
	}
	return stats, rows.Err()
}
