package treasury

import (
	"sync"

	"github.com/bitfsorg/libvest-go/vesting"
)

// MemRepository is an in-memory Repository guarded by a mutex, for
// tests and embedders running inside a host transaction model of
// their own.
type MemRepository struct {
	mu        sync.Mutex
	stores    map[string]*Store
	schedules map[string]map[string]vesting.Schedule // creator → recipient → schedule
}

// Compile-time interface check.
var _ Repository = (*MemRepository)(nil)

// NewMemRepository creates an empty in-memory repository.
func NewMemRepository() *MemRepository {
	return &MemRepository{
		stores:    make(map[string]*Store),
		schedules: make(map[string]map[string]vesting.Schedule),
	}
}

// CreateStore persists a new store record.
func (r *MemRepository) CreateStore(store *Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[store.Creator]; ok {
		return ErrStoreExists
	}
	r.stores[store.Creator] = store.clone()
	return nil
}

// GetStore retrieves a store record by creator.
func (r *MemRepository) GetStore(creator string) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stores[creator]
	if !ok {
		return nil, ErrStoreNotFound
	}
	return st.clone(), nil
}

// UpdateStore overwrites an existing store record.
func (r *MemRepository) UpdateStore(store *Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[store.Creator]; !ok {
		return ErrStoreNotFound
	}
	r.stores[store.Creator] = store.clone()
	return nil
}

// PutSchedule stores or replaces a recipient's schedule.
func (r *MemRepository) PutSchedule(creator, recipient string, s *vesting.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byRecipient, ok := r.schedules[creator]
	if !ok {
		byRecipient = make(map[string]vesting.Schedule)
		r.schedules[creator] = byRecipient
	}
	byRecipient[recipient] = *s
	return nil
}

// GetSchedule retrieves a recipient's schedule.
func (r *MemRepository) GetSchedule(creator, recipient string) (*vesting.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[creator][recipient]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return &s, nil
}

// HasSchedule reports whether a schedule exists for the recipient.
func (r *MemRepository) HasSchedule(creator, recipient string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.schedules[creator][recipient]
	return ok, nil
}

// DeleteSchedule removes a recipient's schedule.
func (r *MemRepository) DeleteSchedule(creator, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[creator][recipient]; !ok {
		return ErrScheduleNotFound
	}
	delete(r.schedules[creator], recipient)
	return nil
}

// ListSchedules returns all schedules in a store, keyed by recipient.
func (r *MemRepository) ListSchedules(creator string) (map[string]*vesting.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*vesting.Schedule, len(r.schedules[creator]))
	for recipient, s := range r.schedules[creator] {
		cp := s
		out[recipient] = &cp
	}
	return out, nil
}
