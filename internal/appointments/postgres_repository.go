package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// querier is the slice of pgxpool we use; pgxmock satisfies it in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores the appointment ledger. The slot invariant is
// enforced by a partial unique index over (doctor_id, appointment_date,
// start_time) WHERE status <> 'cancelled', so the conflict check and the
// insert are one atomic statement even across server instances.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithQuerier injects a mock for tests.
func NewPostgresRepositoryWithQuerier(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the appointment. A competing non-cancelled row for the same
// slot trips the unique index and surfaces as ErrSlotTaken.
func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date,
			start_time, end_time, status, payment_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		appt.ID,
		appt.PatientID,
		appt.DoctorID,
		appt.Date,
		appt.StartTime,
		appt.EndTime,
		appt.Status,
		appt.PaymentStatus,
		appt.Notes,
	).Scan(&appt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, patient_id, doctor_id, to_char(appointment_date, 'YYYY-MM-DD'),
		start_time, end_time, status, payment_status,
		COALESCE(payment_id::text, ''), COALESCE(notes, ''), created_at
	FROM appointments
`

// GetByID returns one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	appt, err := scanAppointment(r.db.QueryRow(ctx, selectColumns+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return appt, nil
}

// ListByPatient returns the patient's appointments, newest first.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, selectColumns+" WHERE patient_id = $1 ORDER BY created_at DESC", patientID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", err)
	}
	return out, nil
}

// Cancel marks the appointment cancelled. Repeat cancels hit the same row
// and stay a no-op success; only a missing row is an error.
func (r *PostgresRepository) Cancel(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET status = $2 WHERE id = $1`, id, StatusCancelled)
	if err != nil {
		return fmt.Errorf("appointments: cancel failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// MarkPaid records the payment reference and flips payment_status to paid.
func (r *PostgresRepository) MarkPaid(ctx context.Context, id, paymentID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET payment_status = $2, payment_id = $3 WHERE id = $1`,
		id, PaymentPaid, paymentID)
	if err != nil {
		return fmt.Errorf("appointments: mark paid failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		appt      Appointment
		createdAt time.Time
	)
	err := row.Scan(
		&appt.ID,
		&appt.PatientID,
		&appt.DoctorID,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.PaymentStatus,
		&appt.PaymentID,
		&appt.Notes,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("appointments: scan failed: %w", err)
	}
	appt.CreatedAt = createdAt
	return &appt, nil
}
