// Package custody implements the keyed balance store backing vesting
// reserves, and the derivation of custody handles: sub-identities,
// distinct from any creator identity, that hold a store's reserve funds.
package custody

// Ledger is an atomic keyed balance store for one or more fungible
// assets. Balances are keyed by (holder, asset); an absent key reads as
// a zero balance.
type Ledger interface {
	// Deposit credits amount to the holder's balance.
	Deposit(holder, asset string, amount uint64) error

	// Withdraw debits amount from the holder's balance.
	// Returns ErrInsufficientFunds if the balance is too small.
	Withdraw(holder, asset string, amount uint64) error

	// Transfer atomically moves amount from one holder to another.
	// Returns ErrInsufficientFunds if the source balance is too small;
	// on any error neither balance changes.
	Transfer(from, to, asset string, amount uint64) error

	// Balance returns the holder's current balance.
	Balance(holder, asset string) (uint64, error)
}

// checkKey validates a (holder, asset) pair.
func checkKey(holder, asset string) error {
	if holder == "" {
		return ErrEmptyHolder
	}
	if asset == "" {
		return ErrEmptyAsset
	}
	return nil
}
