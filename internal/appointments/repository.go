package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the appointment ledger. Create must be atomic with respect
// to the slot invariant: at most one non-cancelled appointment per
// (doctorID, date, startTime).
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)
	Cancel(ctx context.Context, id string) error
	MarkPaid(ctx context.Context, id, paymentID string) error
}

// InMemoryRepository keeps the ledger in maps, guarded by one mutex so the
// check-then-insert is atomic, mirroring what the partial unique index gives
// the Postgres implementation.
type InMemoryRepository struct {
	mu    sync.Mutex
	byID  map[string]*Appointment
	slots map[string]string // slot key -> appointment id holding it
}

// NewInMemoryRepository creates an empty in-memory ledger.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:  make(map[string]*Appointment),
		slots: make(map[string]string),
	}
}

func slotKey(doctorID, date, startTime string) string {
	return doctorID + "|" + date + "|" + startTime
}

// Create reserves the slot and stores the appointment, or fails with
// ErrSlotTaken when a non-cancelled appointment already holds it.
func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(appt.DoctorID, appt.Date, appt.StartTime)
	if _, taken := r.slots[key]; taken {
		return ErrSlotTaken
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now().UTC()
	}
	clone := *appt
	r.byID[appt.ID] = &clone
	r.slots[key] = appt.ID
	return nil
}

// GetByID returns one appointment.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	clone := *appt
	return &clone, nil
}

// ListByPatient returns the patient's appointments, newest first.
func (r *InMemoryRepository) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Appointment
	for _, appt := range r.byID {
		if appt.PatientID == patientID {
			clone := *appt
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Cancel marks the appointment cancelled and releases its slot. Cancelling
// an already-cancelled appointment is a no-op success.
func (r *InMemoryRepository) Cancel(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.byID[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	if appt.Status == StatusCancelled {
		return nil
	}
	appt.Status = StatusCancelled
	delete(r.slots, slotKey(appt.DoctorID, appt.Date, appt.StartTime))
	return nil
}

// MarkPaid records the payment reference and flips paymentStatus to paid.
func (r *InMemoryRepository) MarkPaid(ctx context.Context, id, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.byID[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	appt.PaymentStatus = PaymentPaid
	appt.PaymentID = paymentID
	return nil
}
