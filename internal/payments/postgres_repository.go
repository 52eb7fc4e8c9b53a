package payments

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

// PostgresRepository stores the payment ledger. transaction_id carries a
// unique index, so a gateway charge can never be recorded twice.
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("payments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithQuerier injects a mock for tests.
func NewPostgresRepositoryWithQuerier(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the payment row.
func (r *PostgresRepository) Create(ctx context.Context, payment *Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	query := `
		INSERT INTO payments (id, patient_id, doctor_id, appointment_id, amount,
			currency, transaction_id, payment_method, status, is_refunded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		payment.ID,
		payment.PatientID,
		payment.DoctorID,
		payment.AppointmentID,
		payment.Amount,
		payment.Currency,
		payment.TransactionID,
		payment.Method,
		payment.Status,
		payment.Refunded,
	).Scan(&payment.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("payments: insert failed: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, patient_id, doctor_id, appointment_id, amount, currency,
		transaction_id, payment_method, status, is_refunded, created_at
	FROM payments
`

// GetByID returns one payment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx, selectColumns+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// ListByPatient returns the patient's payments, newest first.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string) ([]*Payment, error) {
	rows, err := r.db.Query(ctx, selectColumns+" WHERE patient_id = $1 ORDER BY created_at DESC", patientID)
	if err != nil {
		return nil, fmt.Errorf("payments: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payments: list rows: %w", err)
	}
	return out, nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var (
		payment   Payment
		createdAt time.Time
	)
	err := row.Scan(
		&payment.ID,
		&payment.PatientID,
		&payment.DoctorID,
		&payment.AppointmentID,
		&payment.Amount,
		&payment.Currency,
		&payment.TransactionID,
		&payment.Method,
		&payment.Status,
		&payment.Refunded,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("payments: scan failed: %w", err)
	}
	payment.CreatedAt = createdAt
	return &payment, nil
}
