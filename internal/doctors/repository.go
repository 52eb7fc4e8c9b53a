package doctors

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines doctor profile storage. Doctors are append-mostly:
// profiles are never hard-deleted, only flagged unavailable.
type Repository interface {
	Create(ctx context.Context, doctor *Doctor) error
	List(ctx context.Context) ([]*Doctor, error)
	GetByID(ctx context.Context, id string) (*Doctor, error)
}

// InMemoryRepository keeps doctor profiles in a map.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Doctor
	byPair  map[string]struct{}
}

// NewInMemoryRepository creates an empty in-memory directory.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:   make(map[string]*Doctor),
		byPair: make(map[string]struct{}),
	}
}

func pairKey(name, specialization string) string {
	return strings.ToLower(name) + "|" + strings.ToLower(specialization)
}

// Create stores a profile, rejecting duplicate (name, specialization) pairs.
func (r *InMemoryRepository) Create(ctx context.Context, doctor *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(doctor.Name, doctor.Specialization)
	if _, exists := r.byPair[key]; exists {
		return ErrDuplicateDoctor
	}
	if doctor.ID == "" {
		doctor.ID = uuid.NewString()
	}
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = time.Now().UTC()
	}
	clone := *doctor
	r.byID[doctor.ID] = &clone
	r.byPair[key] = struct{}{}
	return nil
}

// List returns all profiles ordered by creation time.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Doctor, 0, len(r.byID))
	for _, d := range r.byID {
		clone := *d
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// GetByID returns a single profile.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	clone := *d
	return &clone, nil
}
