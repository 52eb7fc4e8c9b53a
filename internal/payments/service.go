package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/arogyacare/appointment-api/internal/appointments"
	"github.com/arogyacare/appointment-api/internal/doctors"
	"github.com/arogyacare/appointment-api/internal/notify"
	"github.com/arogyacare/appointment-api/internal/observability/metrics"
	"github.com/arogyacare/appointment-api/internal/users"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

var paymentTracer = otel.Tracer("arogya.internal.payments")

// DoctorDirectory is the slice of the doctor repository the workflow needs.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id string) (*doctors.Doctor, error)
}

// PatientDirectory resolves patient accounts for receipts and notifications.
type PatientDirectory interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// AppointmentLedger is the slice of the appointment repository the workflow
// needs. appointments.Repository satisfies it.
type AppointmentLedger interface {
	GetByID(ctx context.Context, id string) (*appointments.Appointment, error)
	MarkPaid(ctx context.Context, id, paymentID string) error
}

// ServiceConfig carries the tunables the payment workflow needs.
type ServiceConfig struct {
	DefaultFeeRupees int
	Currency         string
	IdempotencyTTL   time.Duration
	NotifyTimeout    time.Duration
}

// Service orchestrates the payment workflow: appointment and doctor
// resolution, per-appointment charge serialization, the gateway call, and
// reconciliation of the appointment's payment status.
type Service struct {
	repo     Repository
	doctors  DoctorDirectory
	patients PatientDirectory
	ledger   AppointmentLedger
	gateway  Gateway
	idem     IdempotencyStore
	sender   notify.Sender
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	cfg      ServiceConfig
}

// NewService constructs the payment service.
func NewService(repo Repository, doctorDir DoctorDirectory, patientDir PatientDirectory, ledger AppointmentLedger, gateway Gateway, idem IdempotencyStore, sender notify.Sender, m *metrics.BookingMetrics, logger *logging.Logger, cfg ServiceConfig) *Service {
	if repo == nil {
		panic("payments: repository required")
	}
	if gateway == nil {
		panic("payments: gateway required")
	}
	if idem == nil {
		idem = NewInMemoryIdempotencyStore()
	}
	if sender == nil {
		sender = notify.NoopSender{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultFeeRupees <= 0 {
		cfg.DefaultFeeRupees = 500
	}
	if cfg.Currency == "" {
		cfg.Currency = "inr"
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 2 * time.Minute
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 5 * time.Second
	}
	return &Service{
		repo:     repo,
		doctors:  doctorDir,
		patients: patientDir,
		ledger:   ledger,
		gateway:  gateway,
		idem:     idem,
		sender:   sender,
		metrics:  m,
		logger:   logger,
		cfg:      cfg,
	}
}

// Process charges the consultation fee for an appointment. The charge and
// its bookkeeping are ordered so money is never silently lost: once the
// gateway confirms, the caller always gets a success, and any local write
// that fails afterwards is surfaced as a reconciliation gap instead.
func (s *Service) Process(ctx context.Context, patientID string, req ProcessRequest) (*ProcessResult, error) {
	ctx, span := paymentTracer.Start(ctx, "payments.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("arogya.doctor_id", req.DoctorID),
		attribute.String("arogya.appointment_id", req.AppointmentID),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	appt, err := s.ledger.GetByID(ctx, req.AppointmentID)
	if err != nil {
		s.metrics.ObservePayment("error")
		return nil, err
	}
	if appt.PatientID != patientID {
		s.metrics.ObservePayment("error")
		return nil, appointments.ErrNotYourAppointment
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		s.metrics.ObservePayment("error")
		return nil, err
	}
	amount := doctor.Fees
	if amount <= 0 {
		amount = s.cfg.DefaultFeeRupees
	}

	// One in-flight charge per (patient, appointment). A reservation that
	// cannot be checked does not block the payment; double submission is the
	// rarer failure.
	idemKey := patientID + ":" + req.AppointmentID
	reserved, err := s.idem.Reserve(ctx, idemKey, s.cfg.IdempotencyTTL)
	if err != nil {
		s.logger.Warn("idempotency reservation unavailable, proceeding", "error", err)
		reserved = true
	} else if !reserved {
		s.metrics.ObservePayment("duplicate")
		return nil, ErrInFlight
	}

	chargeStart := time.Now()
	result, err := s.gateway.Charge(ctx, ChargeParams{
		AmountMinor:     int64(amount) * 100,
		Currency:        s.cfg.Currency,
		PaymentMethodID: req.PaymentMethodID,
		Description:     fmt.Sprintf("Consultation fee for Dr. %s", doctor.Name),
		IdempotencyKey:  idemKey,
	})
	s.metrics.ObserveGatewayLatency(time.Since(chargeStart).Seconds())
	if err != nil || !result.Succeeded {
		s.recordFailedAttempt(ctx, patientID, req, doctor.ID, amount, result)
		s.releaseReservation(ctx, idemKey)
		s.metrics.ObservePayment("declined")
		if err != nil {
			s.logger.Error("gateway charge failed", "error", err, "appointment_id", req.AppointmentID)
			span.RecordError(err)
		}
		return nil, ErrNotCompleted
	}

	payment := &Payment{
		PatientID:     patientID,
		DoctorID:      doctor.ID,
		AppointmentID: req.AppointmentID,
		Amount:        amount,
		Currency:      s.cfg.Currency,
		TransactionID: result.TransactionID,
		Method:        req.Method,
		Status:        StatusSuccess,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		// The charge went through; this is a bookkeeping failure, not a
		// payment failure. Keep the reservation so a blind retry cannot
		// charge again before an operator reconciles.
		s.metrics.ObserveReconciliationGap()
		s.logger.Error("charged but payment row not persisted",
			"error", err, "transaction_id", result.TransactionID, "appointment_id", req.AppointmentID)
	}

	reconciled := true
	if err := s.ledger.MarkPaid(ctx, req.AppointmentID, payment.ID); err != nil {
		reconciled = false
		s.metrics.ObserveReconciliationGap()
		s.logger.Error("charged but appointment not marked paid",
			"error", err, "transaction_id", result.TransactionID, "appointment_id", req.AppointmentID)
	}

	s.metrics.ObservePayment("success")
	s.logger.Info("payment captured",
		"payment_id", payment.ID,
		"transaction_id", result.TransactionID,
		"amount", amount,
		"currency", s.cfg.Currency,
	)

	s.sendReceipt(ctx, patientID, doctor.Name, appt)
	return &ProcessResult{Payment: payment, TransactionID: result.TransactionID, Reconciled: reconciled}, nil
}

// recordFailedAttempt keeps declined charges in the history for audit. The
// fallback transaction id keeps the unique index happy when the gateway
// never produced one.
func (s *Service) recordFailedAttempt(ctx context.Context, patientID string, req ProcessRequest, doctorID string, amount int, result *ChargeResult) {
	txnID := ""
	if result != nil {
		txnID = result.TransactionID
	}
	if txnID == "" {
		txnID = "failed-" + uuid.NewString()
	}
	failed := &Payment{
		PatientID:     patientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Amount:        amount,
		Currency:      s.cfg.Currency,
		TransactionID: txnID,
		Method:        req.Method,
		Status:        StatusFailed,
	}
	if err := s.repo.Create(ctx, failed); err != nil {
		s.logger.Warn("failed attempt not recorded", "error", err, "appointment_id", req.AppointmentID)
	}
}

func (s *Service) releaseReservation(ctx context.Context, key string) {
	if err := s.idem.Release(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("idempotency release failed", "error", err, "key", key)
	}
}

// sendReceipt re-confirms the appointment over WhatsApp after payment.
// Best-effort only.
func (s *Service) sendReceipt(ctx context.Context, patientID, doctorName string, appt *appointments.Appointment) {
	if s.patients == nil {
		return
	}
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil || patient.Phone == "" {
		s.metrics.ObserveNotification("skipped")
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.sender.SendAppointmentConfirmation(notifyCtx, patient.Phone, doctorName, appt.StartsAt()); err != nil {
		s.metrics.ObserveNotification("failed")
		s.logger.Warn("payment receipt message failed", "error", err, "appointment_id", appt.ID)
		return
	}
	s.metrics.ObserveNotification("sent")
}

// CreateCheckoutSession builds a hosted payment page for the appointment.
// The doctor lookup only decorates the line item; a missing profile falls
// back to a generic product name.
func (s *Service) CreateCheckoutSession(ctx context.Context, patientID string, req CheckoutRequest) (*CheckoutSession, error) {
	ctx, span := paymentTracer.Start(ctx, "payments.create_checkout_session")
	defer span.End()

	if req.Amount < 0 {
		return nil, ErrBadAmount
	}
	amount := req.Amount
	if amount == 0 {
		amount = s.cfg.DefaultFeeRupees
	}

	productName := "Doctor Appointment Fee"
	if req.DoctorID != "" && s.doctors != nil {
		if doctor, err := s.doctors.GetByID(ctx, req.DoctorID); err == nil {
			productName = "Appointment with Dr. " + doctor.Name
		}
	}

	var email string
	if s.patients != nil {
		if patient, err := s.patients.GetByID(ctx, patientID); err == nil {
			email = patient.Email
		}
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		AmountMinor:   int64(amount) * 100,
		Currency:      s.cfg.Currency,
		ProductName:   productName,
		CustomerEmail: email,
		Metadata: map[string]string{
			"user_id":        patientID,
			"doctor_id":      req.DoctorID,
			"appointment_id": req.AppointmentID,
		},
	})
	if err != nil {
		s.metrics.ObservePayment("error")
		span.RecordError(err)
		s.logger.Error("checkout session creation failed", "error", err)
		return nil, ErrNotCompleted
	}
	return session, nil
}

// History returns the caller's payments, newest first, failed attempts
// included.
func (s *Service) History(ctx context.Context, patientID string) ([]*Payment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
