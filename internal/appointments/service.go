package appointments

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/arogyacare/appointment-api/internal/auth"
	"github.com/arogyacare/appointment-api/internal/doctors"
	"github.com/arogyacare/appointment-api/internal/notify"
	"github.com/arogyacare/appointment-api/internal/observability/metrics"
	"github.com/arogyacare/appointment-api/internal/users"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

var bookingTracer = otel.Tracer("arogya.internal.appointments")

// DoctorDirectory is the slice of the doctor repository the workflow needs.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id string) (*doctors.Doctor, error)
}

// PatientDirectory resolves patient accounts for notification contact info.
type PatientDirectory interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

// BookingResult is what a booking call returns: the persisted appointment
// plus whether the best-effort confirmation actually went out.
type BookingResult struct {
	Appointment      *Appointment `json:"appointment"`
	NotificationSent bool         `json:"notificationSent"`
}

// Service orchestrates the booking workflow: doctor resolution, atomic slot
// reservation, and fire-and-forget confirmation messaging.
type Service struct {
	repo          Repository
	doctors       DoctorDirectory
	patients      PatientDirectory
	sender        notify.Sender
	metrics       *metrics.BookingMetrics
	logger        *logging.Logger
	notifyTimeout time.Duration
}

// NewService constructs the booking service.
func NewService(repo Repository, doctorDir DoctorDirectory, patientDir PatientDirectory, sender notify.Sender, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if sender == nil {
		sender = notify.NoopSender{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:          repo,
		doctors:       doctorDir,
		patients:      patientDir,
		sender:        sender,
		metrics:       m,
		logger:        logger,
		notifyTimeout: 5 * time.Second,
	}
}

// Book reserves the slot for the patient. The slot check and the insert are
// one atomic repository call; ErrSlotTaken reports a lost race the same way
// as an ordinary conflict. Notification failures never fail the booking.
func (s *Service) Book(ctx context.Context, patientID string, req BookRequest) (*BookingResult, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("arogya.doctor_id", req.DoctorID),
		attribute.String("arogya.slot_date", req.Date),
	)
	start := time.Now()
	defer func() { s.metrics.ObserveBookingLatency(time.Since(start).Seconds()) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		s.metrics.ObserveBooking("error")
		span.RecordError(err)
		return nil, err
	}

	appt := &Appointment{
		PatientID:     patientID,
		DoctorID:      doctor.ID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        StatusConfirmed,
		PaymentStatus: PaymentUnpaid,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		if err == ErrSlotTaken {
			s.metrics.ObserveBooking("conflict")
		} else {
			s.metrics.ObserveBooking("error")
		}
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveBooking("confirmed")
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID,
		"doctor_id", doctor.ID,
		"date", appt.Date,
		"start_time", appt.StartTime,
	)

	sent := s.sendConfirmation(ctx, patientID, doctor.Name, appt)
	return &BookingResult{Appointment: appt, NotificationSent: sent}, nil
}

// sendConfirmation is best-effort: a missing phone or a gateway error is
// logged and counted, never returned.
func (s *Service) sendConfirmation(ctx context.Context, patientID, doctorName string, appt *Appointment) bool {
	if s.patients == nil {
		s.metrics.ObserveNotification("skipped")
		return false
	}
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil || patient.Phone == "" {
		s.logger.Warn("patient phone not found, skipping confirmation", "patient_id", patientID)
		s.metrics.ObserveNotification("skipped")
		return false
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.sender.SendAppointmentConfirmation(notifyCtx, patient.Phone, doctorName, appt.StartsAt()); err != nil {
		s.logger.Error("confirmation send failed", "error", err, "appointment_id", appt.ID)
		s.metrics.ObserveNotification("failed")
		return false
	}
	s.metrics.ObserveNotification("sent")
	return true
}

// Cancel marks the appointment cancelled. The operation is idempotent; a
// second cancel is a no-op success. Patients may only cancel their own
// appointments, staff roles may cancel any.
func (s *Service) Cancel(ctx context.Context, caller auth.Identity, id string) error {
	ctx, span := bookingTracer.Start(ctx, "appointments.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("arogya.appointment_id", id))

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if caller.Role == auth.RolePatient && appt.PatientID != caller.ID {
		return ErrNotYourAppointment
	}
	if err := s.repo.Cancel(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("appointment cancelled", "appointment_id", id)
	return nil
}

// ListForPatient returns the caller's appointments enriched with doctor
// name and specialization.
func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]*PatientAppointment, error) {
	appts, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	// Resolve each doctor once; the list view tolerates a profile that has
	// since disappeared.
	cache := make(map[string]*doctors.Doctor)
	out := make([]*PatientAppointment, 0, len(appts))
	for _, appt := range appts {
		doctor, ok := cache[appt.DoctorID]
		if !ok {
			doctor, err = s.doctors.GetByID(ctx, appt.DoctorID)
			if err != nil {
				doctor = nil
			}
			cache[appt.DoctorID] = doctor
		}
		enriched := &PatientAppointment{Appointment: *appt}
		if doctor != nil {
			enriched.DoctorName = doctor.Name
			enriched.DoctorSpecialization = doctor.Specialization
		}
		out = append(out, enriched)
	}
	return out, nil
}
