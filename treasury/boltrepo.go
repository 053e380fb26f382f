package treasury

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libvest-go/vesting"
)

var (
	bucketStores    = []byte("stores")
	bucketSchedules = []byte("schedules")
)

// BoltRepository is a Repository persisted in a bbolt database. Store
// records are keyed by creator; schedules use creator\x00recipient
// composite keys for prefix scanning (identities are NUL-free, enforced
// by the engine).
type BoltRepository struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Repository = (*BoltRepository)(nil)

// OpenBoltRepository opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltRepository(dbPath string) (*BoltRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("treasury: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("treasury: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketStores, bucketSchedules} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltrepo: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("treasury: create buckets: %w", err)
	}

	return &BoltRepository{db: db}, nil
}

// Close closes the underlying database.
func (r *BoltRepository) Close() error { return r.db.Close() }

// scheduleKey builds the composite (creator, recipient) key.
func scheduleKey(creator, recipient string) []byte {
	k := make([]byte, 0, len(creator)+1+len(recipient))
	k = append(k, creator...)
	k = append(k, 0x00)
	k = append(k, recipient...)
	return k
}

// schedulePrefix is the prefix covering every schedule in one store.
func schedulePrefix(creator string) []byte {
	return append([]byte(creator), 0x00)
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// CreateStore persists a new store record.
func (r *BoltRepository) CreateStore(store *Store) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStores)
		key := []byte(store.Creator)
		if b.Get(key) != nil {
			return ErrStoreExists
		}
		data, err := encodeGob(store)
		if err != nil {
			return fmt.Errorf("boltrepo: encode store: %w", err)
		}
		if err := b.Put(key, data); err != nil {
			return fmt.Errorf("boltrepo: put store: %w", err)
		}
		return nil
	})
}

// GetStore retrieves a store record by creator.
func (r *BoltRepository) GetStore(creator string) (*Store, error) {
	var store Store
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketStores).Get([]byte(creator))
		if data == nil {
			return ErrStoreNotFound
		}
		if err := decodeGob(data, &store); err != nil {
			return fmt.Errorf("boltrepo: decode store: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// UpdateStore overwrites an existing store record.
func (r *BoltRepository) UpdateStore(store *Store) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStores)
		key := []byte(store.Creator)
		if b.Get(key) == nil {
			return ErrStoreNotFound
		}
		data, err := encodeGob(store)
		if err != nil {
			return fmt.Errorf("boltrepo: encode store: %w", err)
		}
		if err := b.Put(key, data); err != nil {
			return fmt.Errorf("boltrepo: update store: %w", err)
		}
		return nil
	})
}

// PutSchedule stores or replaces a recipient's schedule.
func (r *BoltRepository) PutSchedule(creator, recipient string, s *vesting.Schedule) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		data, err := encodeGob(s)
		if err != nil {
			return fmt.Errorf("boltrepo: encode schedule: %w", err)
		}
		if err := tx.Bucket(bucketSchedules).Put(scheduleKey(creator, recipient), data); err != nil {
			return fmt.Errorf("boltrepo: put schedule: %w", err)
		}
		return nil
	})
}

// GetSchedule retrieves a recipient's schedule.
func (r *BoltRepository) GetSchedule(creator, recipient string) (*vesting.Schedule, error) {
	var s vesting.Schedule
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSchedules).Get(scheduleKey(creator, recipient))
		if data == nil {
			return ErrScheduleNotFound
		}
		if err := decodeGob(data, &s); err != nil {
			return fmt.Errorf("boltrepo: decode schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// HasSchedule reports whether a schedule exists for the recipient.
func (r *BoltRepository) HasSchedule(creator, recipient string) (bool, error) {
	var found bool
	err := r.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketSchedules).Get(scheduleKey(creator, recipient)) != nil
		return nil
	})
	return found, err
}

// DeleteSchedule removes a recipient's schedule.
func (r *BoltRepository) DeleteSchedule(creator, recipient string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSchedules)
		key := scheduleKey(creator, recipient)
		if b.Get(key) == nil {
			return ErrScheduleNotFound
		}
		if err := b.Delete(key); err != nil {
			return fmt.Errorf("boltrepo: delete schedule: %w", err)
		}
		return nil
	})
}

// ListSchedules returns all schedules in a store, keyed by recipient.
func (r *BoltRepository) ListSchedules(creator string) (map[string]*vesting.Schedule, error) {
	out := make(map[string]*vesting.Schedule)
	prefix := schedulePrefix(creator)

	err := r.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketSchedules).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var s vesting.Schedule
			if err := decodeGob(v, &s); err != nil {
				return fmt.Errorf("boltrepo: decode schedule in list: %w", err)
			}
			out[string(k[len(prefix):])] = &s
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
