package custody

import (
	"math"
	"sync"
)

// MemLedger is an in-memory Ledger guarded by a mutex. It suits tests
// and embedders that keep real custody elsewhere.
type MemLedger struct {
	mu       sync.Mutex
	balances map[balanceKey]uint64
}

type balanceKey struct {
	holder string
	asset  string
}

// Compile-time interface check.
var _ Ledger = (*MemLedger)(nil)

// NewMemLedger creates an empty in-memory ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{balances: make(map[balanceKey]uint64)}
}

// Deposit credits amount to the holder's balance.
func (l *MemLedger) Deposit(holder, asset string, amount uint64) error {
	if err := checkKey(holder, asset); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{holder, asset}
	if l.balances[key] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	l.balances[key] += amount
	return nil
}

// Withdraw debits amount from the holder's balance.
func (l *MemLedger) Withdraw(holder, asset string, amount uint64) error {
	if err := checkKey(holder, asset); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{holder, asset}
	if l.balances[key] < amount {
		return ErrInsufficientFunds
	}
	l.balances[key] -= amount
	return nil
}

// Transfer atomically moves amount between holders.
func (l *MemLedger) Transfer(from, to, asset string, amount uint64) error {
	if err := checkKey(from, asset); err != nil {
		return err
	}
	if err := checkKey(to, asset); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	src := balanceKey{from, asset}
	dst := balanceKey{to, asset}
	if l.balances[src] < amount {
		return ErrInsufficientFunds
	}
	if l.balances[dst] > math.MaxUint64-amount {
		return ErrBalanceOverflow
	}
	l.balances[src] -= amount
	l.balances[dst] += amount
	return nil
}

// Balance returns the holder's current balance.
func (l *MemLedger) Balance(holder, asset string) (uint64, error) {
	if err := checkKey(holder, asset); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[balanceKey{holder, asset}], nil
}
