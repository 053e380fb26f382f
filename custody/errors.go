package custody

import "errors"

var (
	// ErrInsufficientFunds indicates a withdrawal exceeds the holder's balance.
	ErrInsufficientFunds = errors.New("custody: insufficient funds")

	// ErrEmptyHolder indicates an empty holder identity.
	ErrEmptyHolder = errors.New("custody: holder identity must not be empty")

	// ErrEmptyAsset indicates an empty asset binding.
	ErrEmptyAsset = errors.New("custody: asset binding must not be empty")

	// ErrDeriveHandle indicates custody handle derivation failed.
	ErrDeriveHandle = errors.New("custody: handle derivation failed")

	// ErrBalanceOverflow indicates a deposit would overflow the balance.
	ErrBalanceOverflow = errors.New("custody: balance overflow")
)
