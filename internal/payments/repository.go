package payments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists charge attempts. Failed attempts are stored too; the
// payment history doubles as an audit trail.
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Payment, error)
}

// InMemoryRepository backs tests and local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	payments map[string]*Payment
	txnIDs   map[string]struct{}
}

// NewInMemoryRepository initializes an empty in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		payments: make(map[string]*Payment),
		txnIDs:   make(map[string]struct{}),
	}
}

// Create stores the payment, rejecting a reused transaction id.
func (r *InMemoryRepository) Create(ctx context.Context, payment *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.txnIDs[payment.TransactionID]; exists {
		return ErrDuplicateTransaction
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	clone := *payment
	r.payments[payment.ID] = &clone
	r.txnIDs[payment.TransactionID] = struct{}{}
	return nil
}

// GetByID returns one payment.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	clone := *payment
	return &clone, nil
}

// ListByPatient returns the patient's payments, newest first.
func (r *InMemoryRepository) ListByPatient(ctx context.Context, patientID string) ([]*Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Payment
	for _, payment := range r.payments {
		if payment.PatientID == patientID {
			clone := *payment
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
