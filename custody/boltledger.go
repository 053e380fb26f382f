package custody

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketBalances = []byte("balances")

// BoltLedger is a Ledger persisted in a bbolt database. Each mutation
// runs in its own write transaction, so Transfer debits and credits
// atomically.
type BoltLedger struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Ledger = (*BoltLedger)(nil)

// OpenBoltLedger opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltLedger(dbPath string) (*BoltLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("custody: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("custody: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBalances)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("custody: create bucket: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

// Close closes the underlying database.
func (l *BoltLedger) Close() error { return l.db.Close() }

// ledgerKey builds the composite (asset, holder) key. Identities never
// contain NUL (enforced by callers), so the separator is unambiguous.
func ledgerKey(holder, asset string) []byte {
	k := make([]byte, 0, len(asset)+1+len(holder))
	k = append(k, asset...)
	k = append(k, 0x00)
	k = append(k, holder...)
	return k
}

// readBalance decodes a stored balance; a missing key is a zero balance.
func readBalance(b *bbolt.Bucket, key []byte) uint64 {
	v := b.Get(key)
	if len(v) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

// writeBalance encodes and stores a balance. A zero balance deletes the
// key so the bucket does not accumulate dust entries.
func writeBalance(b *bbolt.Bucket, key []byte, amount uint64) error {
	if amount == 0 {
		return b.Delete(key)
	}
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, amount)
	return b.Put(key, v)
}

// Deposit credits amount to the holder's balance.
func (l *BoltLedger) Deposit(holder, asset string, amount uint64) error {
	if err := checkKey(holder, asset); err != nil {
		return err
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBalances)
		key := ledgerKey(holder, asset)
		cur := readBalance(b, key)
		if cur > math.MaxUint64-amount {
			return ErrBalanceOverflow
		}
		if err := writeBalance(b, key, cur+amount); err != nil {
			return fmt.Errorf("custody: put balance: %w", err)
		}
		return nil
	})
}

// Withdraw debits amount from the holder's balance.
func (l *BoltLedger) Withdraw(holder, asset string, amount uint64) error {
	if err := checkKey(holder, asset); err != nil {
		return err
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBalances)
		key := ledgerKey(holder, asset)
		cur := readBalance(b, key)
		if cur < amount {
			return ErrInsufficientFunds
		}
		if err := writeBalance(b, key, cur-amount); err != nil {
			return fmt.Errorf("custody: put balance: %w", err)
		}
		return nil
	})
}

// Transfer atomically moves amount between holders in one transaction.
func (l *BoltLedger) Transfer(from, to, asset string, amount uint64) error {
	if err := checkKey(from, asset); err != nil {
		return err
	}
	if err := checkKey(to, asset); err != nil {
		return err
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBalances)
		srcKey := ledgerKey(from, asset)
		dstKey := ledgerKey(to, asset)

		src := readBalance(b, srcKey)
		if src < amount {
			return ErrInsufficientFunds
		}
		dst := readBalance(b, dstKey)
		if dst > math.MaxUint64-amount {
			return ErrBalanceOverflow
		}

		if err := writeBalance(b, srcKey, src-amount); err != nil {
			return fmt.Errorf("custody: put source balance: %w", err)
		}
		if err := writeBalance(b, dstKey, dst+amount); err != nil {
			return fmt.Errorf("custody: put destination balance: %w", err)
		}
		return nil
	})
}

// Balance returns the holder's current balance.
func (l *BoltLedger) Balance(holder, asset string) (uint64, error) {
	if err := checkKey(holder, asset); err != nil {
		return 0, err
	}

	var balance uint64
	err := l.db.View(func(tx *bbolt.Tx) error {
		balance = readBalance(tx.Bucket(bucketBalances), ledgerKey(holder, asset))
		return nil
	})
	return balance, err
}
