package treasury

import (
	"errors"
	"fmt"
)

// Claim settles the recipient's schedule against the current time and
// pays the claimable amount from the store's reserve to the recipient.
// Any caller may claim on a recipient's behalf; the payout always goes
// to the recipient's identity.
//
// A claim with nothing accrued (still in the cliff, or mid-step) is a
// complete no-op: zero is returned with no state change, no transfer,
// and no event. A claim that brings the claimed total to the full
// allocation deletes the schedule; its absence is the terminal state.
func (e *Engine) Claim(creator, recipient string) (uint64, error) {
	if err := checkIdentity(recipient); err != nil {
		return 0, err
	}

	lock := e.storeLock(creator)
	lock.Lock()
	defer lock.Unlock()

	st, err := e.repo.GetStore(creator)
	if err != nil {
		return 0, err
	}
	if !st.ClaimEnabled {
		return 0, ErrClaimDisabled
	}

	now := e.clock.Now()
	if st.Frozen(now) {
		return 0, ErrClaimFrozen
	}

	s, err := e.repo.GetSchedule(creator, recipient)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return 0, ErrNoSchedule
		}
		return 0, err
	}

	paid, done := s.Settle(now)
	if paid == 0 {
		return 0, nil
	}

	// Move the funds first: an insufficient reserve must abort before
	// any schedule state is persisted.
	if err := e.ledger.Transfer(st.CustodyHandle, recipient, st.Asset, paid); err != nil {
		return 0, err
	}

	if done {
		err = e.repo.DeleteSchedule(creator, recipient)
	} else {
		err = e.repo.PutSchedule(creator, recipient, s)
	}
	if err != nil {
		// Persisting failed after the transfer: send the funds back so
		// the operation aborts without partial mutation.
		if rbErr := e.ledger.Transfer(recipient, st.CustodyHandle, st.Asset, paid); rbErr != nil {
			return 0, fmt.Errorf("treasury: persist schedule: %w (rollback failed: %w)", err, rbErr)
		}
		return 0, fmt.Errorf("treasury: persist schedule: %w", err)
	}

	e.sink.Emit(Event{
		Type:      EventClaim,
		Creator:   creator,
		Recipient: recipient,
		Amount:    paid,
		Time:      now,
	})
	return paid, nil
}
