package appointments

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresRepositoryWithQuerier(mock), mock
}

func TestCreate_Inserts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "patient-1", "doctor-1", "2024-06-01",
			"10:00 AM", "10:30 AM", StatusConfirmed, PaymentUnpaid, "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	appt := &Appointment{
		PatientID:     "patient-1",
		DoctorID:      "doctor-1",
		Date:          "2024-06-01",
		StartTime:     "10:00 AM",
		EndTime:       "10:30 AM",
		Status:        StatusConfirmed,
		PaymentStatus: PaymentUnpaid,
	}
	if err := repo.Create(t.Context(), appt); err != nil {
		t.Fatalf("create: %v", err)
	}
	if appt.ID == "" {
		t.Errorf("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreate_UniqueViolationIsSlotTaken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "appointments_active_slot_idx"})

	appt := &Appointment{
		PatientID: "patient-1", DoctorID: "doctor-1",
		Date: "2024-06-01", StartTime: "10:00 AM", EndTime: "10:30 AM",
		Status: StatusConfirmed, PaymentStatus: PaymentUnpaid,
	}
	if err := repo.Create(t.Context(), appt); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestCancel_NoRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs("missing-id", StatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Cancel(t.Context(), "missing-id"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestCancel_UpdatesRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs("appt-1", StatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.Cancel(t.Context(), "appt-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMarkPaid_UpdatesRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE appointments SET payment_status").
		WithArgs("appt-1", PaymentPaid, "pay-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.MarkPaid(t.Context(), "appt-1", "pay-1"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
}

func TestGetByID_ScansRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "patient_id", "doctor_id", "to_char", "start_time", "end_time",
		"status", "payment_status", "payment_id", "notes", "created_at",
	}).AddRow("appt-1", "patient-1", "doctor-1", "2024-06-01", "10:00 AM", "10:30 AM",
		StatusConfirmed, PaymentUnpaid, "", "", created)

	mock.ExpectQuery("SELECT .+ FROM appointments").
		WithArgs("appt-1").
		WillReturnRows(rows)

	appt, err := repo.GetByID(t.Context(), "appt-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if appt.Date != "2024-06-01" || appt.StartTime != "10:00 AM" {
		t.Errorf("unexpected slot fields: %+v", appt)
	}
}
