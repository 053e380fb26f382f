package treasury

import "errors"

var (
	// ErrStoreExists indicates the creator already has a vesting store.
	ErrStoreExists = errors.New("treasury: vesting store already exists for this creator")

	// ErrStoreNotFound indicates no vesting store exists for the creator.
	ErrStoreNotFound = errors.New("treasury: vesting store not found")

	// ErrScheduleExists indicates the recipient already has a schedule.
	ErrScheduleExists = errors.New("treasury: schedule already exists for this recipient")

	// ErrScheduleNotFound indicates no schedule exists for the recipient.
	ErrScheduleNotFound = errors.New("treasury: schedule not found")

	// ErrClaimDisabled indicates claiming is not enabled on the store.
	ErrClaimDisabled = errors.New("treasury: claiming is disabled")

	// ErrClaimFrozen indicates the claim falls inside a freeze window.
	ErrClaimFrozen = errors.New("treasury: claiming is frozen")

	// ErrNoSchedule indicates a claim against a recipient lacking a
	// schedule. Kept distinct from ErrScheduleNotFound: the claim path
	// reports this as a state error, not a lookup error.
	ErrNoSchedule = errors.New("treasury: no vesting schedule for recipient")

	// ErrNilCapability indicates a nil capability was presented.
	ErrNilCapability = errors.New("treasury: nil admin capability")

	// ErrInvalidCapability indicates the capability does not match the
	// store's issued capability.
	ErrInvalidCapability = errors.New("treasury: invalid admin capability")

	// ErrInvalidToken indicates a malformed capability token string.
	ErrInvalidToken = errors.New("treasury: invalid capability token")

	// ErrInvalidIdentity indicates an empty or malformed identity string.
	ErrInvalidIdentity = errors.New("treasury: invalid identity")

	// ErrZeroAmount indicates a zero-amount reserve withdrawal.
	ErrZeroAmount = errors.New("treasury: amount must be positive")

	// ErrZeroFreezeDuration indicates a freeze window of zero length.
	ErrZeroFreezeDuration = errors.New("treasury: freeze duration must be positive")
)
