package vesting

import "errors"

var (
	// ErrZeroAllocation indicates a schedule with nothing to vest.
	ErrZeroAllocation = errors.New("vesting: allocation must be positive")

	// ErrZeroVestingPeriod indicates a vesting period of zero.
	ErrZeroVestingPeriod = errors.New("vesting: vesting period must be positive")

	// ErrZeroClaimFrequency indicates a claim frequency of zero.
	ErrZeroClaimFrequency = errors.New("vesting: claim frequency must be positive")

	// ErrOverClaimed indicates the claimed amount exceeds the allocation.
	ErrOverClaimed = errors.New("vesting: claimed amount exceeds allocation")
)
