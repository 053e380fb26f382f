package treasury

import (
	"errors"

	"github.com/bitfsorg/libvest-go/vesting"
)

// The view surface is read-only and requires no capability. Every view
// is computed live against the repository and clock; nothing is cached.

// ClaimEnabled reports whether claiming is enabled on the creator's store.
func (e *Engine) ClaimEnabled(creator string) (bool, error) {
	st, err := e.repo.GetStore(creator)
	if err != nil {
		return false, err
	}
	return st.ClaimEnabled, nil
}

// CustodyHandle returns the identity holding the store's reserve, so
// third parties can deposit funds into it directly.
func (e *Engine) CustodyHandle(creator string) (string, error) {
	st, err := e.repo.GetStore(creator)
	if err != nil {
		return "", err
	}
	return st.CustodyHandle, nil
}

// ReserveBalance returns the store's current reserve balance.
func (e *Engine) ReserveBalance(creator string) (uint64, error) {
	st, err := e.repo.GetStore(creator)
	if err != nil {
		return 0, err
	}
	return e.ledger.Balance(st.CustodyHandle, st.Asset)
}

// HasSchedule reports whether the recipient has a schedule.
func (e *Engine) HasSchedule(creator, recipient string) (bool, error) {
	if _, err := e.repo.GetStore(creator); err != nil {
		return false, err
	}
	return e.repo.HasSchedule(creator, recipient)
}

// GetSchedule returns a snapshot of the recipient's schedule.
// Fails with ErrScheduleNotFound if absent.
func (e *Engine) GetSchedule(creator, recipient string) (*vesting.Schedule, error) {
	if _, err := e.repo.GetStore(creator); err != nil {
		return nil, err
	}
	return e.repo.GetSchedule(creator, recipient)
}

// ClaimableAmount returns what a claim right now would pay, without
// side effects. Like the claim path it fails with ErrClaimDisabled
// while claiming is off and ErrNoSchedule if the recipient has no
// schedule; unlike the claim path it stays readable during a freeze.
func (e *Engine) ClaimableAmount(creator, recipient string) (uint64, error) {
	st, err := e.repo.GetStore(creator)
	if err != nil {
		return 0, err
	}
	if !st.ClaimEnabled {
		return 0, ErrClaimDisabled
	}

	s, err := e.repo.GetSchedule(creator, recipient)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return 0, ErrNoSchedule
		}
		return 0, err
	}
	return s.Claimable(e.clock.Now()), nil
}

// FreezeWindows returns the store's recorded freeze windows.
func (e *Engine) FreezeWindows(creator string) ([]FreezeWindow, error) {
	st, err := e.repo.GetStore(creator)
	if err != nil {
		return nil, err
	}
	return st.FreezeWindows, nil
}
