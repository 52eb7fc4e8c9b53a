package doctors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresRepository stores doctor profiles in the relational database.
// Declared slots live in a JSONB column; they are descriptive only, the
// booking conflict check runs against the appointments table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts a profile. The unique index on (lower(name),
// lower(specialization)) turns duplicates into ErrDuplicateDoctor.
func (r *PostgresRepository) Create(ctx context.Context, doctor *Doctor) error {
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	slots, err := json.Marshal(doctor.AvailableSlots)
	if err != nil {
		return fmt.Errorf("doctors: encode slots: %w", err)
	}
	query := `
		INSERT INTO doctors (id, user_id, name, specialization, experience, hospital_name,
			phone, email, fees, available_slots, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	err = r.pool.QueryRow(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.Name,
		doctor.Specialization,
		doctor.Experience,
		doctor.HospitalName,
		doctor.Phone,
		doctor.Email,
		doctor.Fees,
		slots,
		doctor.IsAvailable,
	).Scan(&doctor.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateDoctor
		}
		return fmt.Errorf("doctors: insert failed: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, user_id, name, specialization, experience, hospital_name,
		phone, email, fees, available_slots, is_available, created_at
	FROM doctors
`

// List returns all profiles, oldest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx, selectColumns+" ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("doctors: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("doctors: list rows: %w", err)
	}
	return out, nil
}

// GetByID fetches a single profile.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, selectColumns+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return d, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var (
		d     Doctor
		slots []byte
	)
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Specialization,
		&d.Experience,
		&d.HospitalName,
		&d.Phone,
		&d.Email,
		&d.Fees,
		&slots,
		&d.IsAvailable,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("doctors: scan failed: %w", err)
	}
	if len(slots) > 0 {
		if err := json.Unmarshal(slots, &d.AvailableSlots); err != nil {
			return nil, fmt.Errorf("doctors: decode slots: %w", err)
		}
	}
	return &d, nil
}
