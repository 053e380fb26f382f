// Package treasury implements the vesting store engine: per-creator
// stores that schedule cliff-delayed, step-quantized release of a
// fungible asset to recipients, gated by an admin capability.
//
// Every operation executes atomically with respect to its store: the
// engine serializes operations per creator with an internal lock table,
// standing in for the transaction model of a hosting environment. An
// operation that fails leaves schedules and balances exactly as they
// were.
package treasury

import (
	"sync"

	"github.com/bitfsorg/libvest-go/custody"
	"github.com/bitfsorg/libvest-go/vesting"
)

// Engine is the vesting store engine. CLI adapters, daemons, and host
// entry points all drive vesting through Engine methods.
type Engine struct {
	repo   Repository
	ledger custody.Ledger
	clock  Clock
	sink   Sink

	mu    sync.Mutex             // guards locks
	locks map[string]*sync.Mutex // per-creator operation locks
}

// NewEngine creates an engine over the given repository and ledger.
// A nil clock defaults to SystemClock; a nil sink discards events.
func NewEngine(repo Repository, ledger custody.Ledger, clock Clock, sink Sink) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Engine{
		repo:   repo,
		ledger: ledger,
		clock:  clock,
		sink:   sink,
		locks:  make(map[string]*sync.Mutex),
	}
}

// storeLock returns the mutex serializing operations on one store.
func (e *Engine) storeLock(creator string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.locks[creator]
	if !ok {
		l = &sync.Mutex{}
		e.locks[creator] = l
	}
	return l
}

// authorize authenticates a capability against its store's recorded
// digest and returns the store record. The caller must hold the store
// lock.
func (e *Engine) authorize(cap *AdminCap) (*Store, error) {
	if cap == nil {
		return nil, ErrNilCapability
	}

	st, err := e.repo.GetStore(cap.creator)
	if err != nil {
		// A capability cannot outlive its store under normal operation;
		// a missing store here is an invariant violation upstream.
		return nil, err
	}
	if !cap.matches(st.CapDigest) {
		return nil, ErrInvalidCapability
	}
	return st, nil
}

// CreateStore creates a vesting store for the creator, custodying the
// given asset, and issues its admin capability. The store starts with
// claiming disabled and no schedules. Fails with ErrStoreExists if the
// creator already has a store.
func (e *Engine) CreateStore(creator, asset string) (*AdminCap, error) {
	if err := checkIdentity(creator); err != nil {
		return nil, err
	}

	handle, err := custody.DeriveHandle(creator, asset)
	if err != nil {
		return nil, err
	}

	cap, err := newAdminCap(creator)
	if err != nil {
		return nil, err
	}

	lock := e.storeLock(creator)
	lock.Lock()
	defer lock.Unlock()

	st := &Store{
		Creator:       creator,
		Asset:         asset,
		CustodyHandle: handle,
		ClaimEnabled:  false,
		CapDigest:     cap.digest(),
	}
	if err := e.repo.CreateStore(st); err != nil {
		return nil, err
	}
	return cap, nil
}

// EnableClaim turns claiming on. Idempotent.
func (e *Engine) EnableClaim(cap *AdminCap) error {
	return e.setClaimEnabled(cap, true)
}

// DisableClaim turns claiming off. Idempotent.
func (e *Engine) DisableClaim(cap *AdminCap) error {
	return e.setClaimEnabled(cap, false)
}

func (e *Engine) setClaimEnabled(cap *AdminCap, enabled bool) error {
	if cap == nil {
		return ErrNilCapability
	}

	lock := e.storeLock(cap.creator)
	lock.Lock()
	defer lock.Unlock()

	st, err := e.authorize(cap)
	if err != nil {
		return err
	}
	if st.ClaimEnabled == enabled {
		return nil
	}
	st.ClaimEnabled = enabled
	return e.repo.UpdateStore(st)
}

// WithdrawReserve moves amount from the store's custody handle back to
// the creator's own balance, for reclaiming unallocated reserve funds.
// Fails with custody.ErrInsufficientFunds if the reserve is too small.
func (e *Engine) WithdrawReserve(cap *AdminCap, amount uint64) error {
	if cap == nil {
		return ErrNilCapability
	}
	if amount == 0 {
		return ErrZeroAmount
	}

	lock := e.storeLock(cap.creator)
	lock.Lock()
	defer lock.Unlock()

	st, err := e.authorize(cap)
	if err != nil {
		return err
	}
	return e.ledger.Transfer(st.CustodyHandle, st.Creator, st.Asset, amount)
}

// AddSchedule creates a schedule for the recipient, starting now.
// Fails with ErrScheduleExists if the recipient already has one.
func (e *Engine) AddSchedule(cap *AdminCap, recipient string, allocation, vestingPeriod, cliffPeriod, claimFrequency uint64) error {
	return e.addSchedule(cap, recipient, allocation, vestingPeriod, cliffPeriod, claimFrequency, nil)
}

// AddScheduleAt is AddSchedule with an explicit start time, for
// migrating grants whose vesting began before the store existed.
func (e *Engine) AddScheduleAt(cap *AdminCap, recipient string, allocation, vestingPeriod, cliffPeriod, claimFrequency, startTime uint64) error {
	return e.addSchedule(cap, recipient, allocation, vestingPeriod, cliffPeriod, claimFrequency, &startTime)
}

func (e *Engine) addSchedule(cap *AdminCap, recipient string, allocation, vestingPeriod, cliffPeriod, claimFrequency uint64, startTime *uint64) error {
	if cap == nil {
		return ErrNilCapability
	}
	if err := checkIdentity(recipient); err != nil {
		return err
	}

	lock := e.storeLock(cap.creator)
	lock.Lock()
	defer lock.Unlock()

	st, err := e.authorize(cap)
	if err != nil {
		return err
	}

	exists, err := e.repo.HasSchedule(st.Creator, recipient)
	if err != nil {
		return err
	}
	if exists {
		return ErrScheduleExists
	}

	start := e.clock.Now()
	if startTime != nil {
		start = *startTime
	}

	s := &vesting.Schedule{
		Allocation:     allocation,
		Claimed:        0,
		StartTime:      start,
		VestingPeriod:  vestingPeriod,
		CliffPeriod:    cliffPeriod,
		ClaimFrequency: claimFrequency,
	}
	if err := vesting.Validate(s); err != nil {
		return err
	}
	return e.repo.PutSchedule(st.Creator, recipient, s)
}

// RemoveSchedule deletes the recipient's schedule unconditionally. Any
// accrued-but-unclaimed amount is forfeited; this is irreversible.
func (e *Engine) RemoveSchedule(cap *AdminCap, recipient string) error {
	if cap == nil {
		return ErrNilCapability
	}

	lock := e.storeLock(cap.creator)
	lock.Lock()
	defer lock.Unlock()

	st, err := e.authorize(cap)
	if err != nil {
		return err
	}
	return e.repo.DeleteSchedule(st.Creator, recipient)
}

// UpdateSchedule replaces the recipient's economic parameters wholesale,
// preserving the claimed amount and start time. Past payouts are not
// retroactively adjusted; only future accrual uses the new parameters.
// Fails with ErrScheduleNotFound if no schedule exists.
func (e *Engine) UpdateSchedule(cap *AdminCap, recipient string, allocation, vestingPeriod, cliffPeriod, claimFrequency uint64) error {
	return e.UpdateScheduleFields(cap, recipient, ScheduleUpdate{
		Allocation:     &allocation,
		VestingPeriod:  &vestingPeriod,
		CliffPeriod:    &cliffPeriod,
		ClaimFrequency: &claimFrequency,
	})
}

// ScheduleUpdate carries the optional fields of UpdateScheduleFields.
// Nil fields keep their prior value.
type ScheduleUpdate struct {
	Allocation     *uint64
	VestingPeriod  *uint64
	CliffPeriod    *uint64
	ClaimFrequency *uint64
	StartTime      *uint64
}

// UpdateScheduleFields updates a schedule field by field; unset fields
// retain their prior value and the claimed amount is always preserved.
func (e *Engine) UpdateScheduleFields(cap *AdminCap, recipient string, u ScheduleUpdate) error {
	if cap == nil {
		return ErrNilCapability
	}

	lock := e.storeLock(cap.creator)
	lock.Lock()
	defer lock.Unlock()

	st, err := e.authorize(cap)
	if err != nil {
		return err
	}

	s, err := e.repo.GetSchedule(st.Creator, recipient)
	if err != nil {
		return err
	}

	if u.Allocation != nil {
		s.Allocation = *u.Allocation
	}
	if u.VestingPeriod != nil {
		s.VestingPeriod = *u.VestingPeriod
	}
	if u.CliffPeriod != nil {
		s.CliffPeriod = *u.CliffPeriod
	}
	if u.ClaimFrequency != nil {
		s.ClaimFrequency = *u.ClaimFrequency
	}
	if u.StartTime != nil {
		s.StartTime = *u.StartTime
	}

	if err := vesting.Validate(s); err != nil {
		return err
	}
	return e.repo.PutSchedule(st.Creator, recipient, s)
}

// AddFreezePeriod records a store-global freeze window. Claims made
// while the current time falls inside any window fail with
// ErrClaimFrozen; accrual arithmetic is unaffected, so a claim after
// the window pays out everything accrued through it.
func (e *Engine) AddFreezePeriod(cap *AdminCap, start, duration uint64) error {
	if cap == nil {
		return ErrNilCapability
	}
	if duration == 0 {
		return ErrZeroFreezeDuration
	}

	lock := e.storeLock(cap.creator)
	lock.Lock()
	defer lock.Unlock()

	st, err := e.authorize(cap)
	if err != nil {
		return err
	}
	st.FreezeWindows = append(st.FreezeWindows, FreezeWindow{Start: start, Duration: duration})
	return e.repo.UpdateStore(st)
}
