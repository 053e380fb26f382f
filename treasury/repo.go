package treasury

import "github.com/bitfsorg/libvest-go/vesting"

// Repository persists vesting stores and their schedules. Store records
// are keyed by creator identity; schedules by (creator, recipient).
// Implementations return copies, never aliases of persisted state, so a
// failed operation can abandon its working copy without side effects.
type Repository interface {
	// CreateStore persists a new store record.
	// Returns ErrStoreExists if the creator already has one.
	CreateStore(store *Store) error

	// GetStore retrieves a store record by creator.
	// Returns ErrStoreNotFound if absent.
	GetStore(creator string) (*Store, error)

	// UpdateStore overwrites an existing store record.
	// Returns ErrStoreNotFound if absent.
	UpdateStore(store *Store) error

	// PutSchedule stores or replaces a recipient's schedule.
	PutSchedule(creator, recipient string, s *vesting.Schedule) error

	// GetSchedule retrieves a recipient's schedule.
	// Returns ErrScheduleNotFound if absent.
	GetSchedule(creator, recipient string) (*vesting.Schedule, error)

	// HasSchedule reports whether a schedule exists for the recipient.
	HasSchedule(creator, recipient string) (bool, error)

	// DeleteSchedule removes a recipient's schedule.
	// Returns ErrScheduleNotFound if absent.
	DeleteSchedule(creator, recipient string) error

	// ListSchedules returns all schedules in a store, keyed by recipient.
	ListSchedules(creator string) (map[string]*vesting.Schedule, error)
}
