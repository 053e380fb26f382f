// Package vesting implements the schedule data model and claim arithmetic
// for cliff-delayed, step-quantized linear vesting.
//
// A schedule unlocks its allocation linearly over VestingPeriod, measured
// from StartTime. Nothing is claimable before StartTime + CliffPeriod; the
// first claim after the cliff releases everything accrued during it in one
// lump. After the cliff the claimable amount increases only at whole
// multiples of ClaimFrequency, producing a staircase rather than a
// continuous line.
//
// All fields are plain integers in the host's native time and amount units.
// The unlock fraction is computed with a wide intermediate (math/big) and
// truncating division; this is a numeric contract, not an implementation
// detail, and must not be changed.
package vesting

// Schedule is one recipient's vesting grant.
type Schedule struct {
	Allocation     uint64 // total amount ever claimable
	Claimed        uint64 // running total already paid out
	StartTime      uint64 // origin the cliff is measured from
	VestingPeriod  uint64 // duration over which Allocation fully unlocks
	CliffPeriod    uint64 // duration after StartTime with zero claimable
	ClaimFrequency uint64 // quantization step of post-cliff accrual
}

// Validate checks that a schedule's parameters are usable.
//
// Degenerate combinations (cliff longer than the vesting period, frequency
// coarser than the vesting period) are deliberately accepted: they produce
// slow or lump-sum unlocks, not crashes, and existing grants rely on that.
func Validate(s *Schedule) error {
	if s.Allocation == 0 {
		return ErrZeroAllocation
	}
	if s.VestingPeriod == 0 {
		return ErrZeroVestingPeriod
	}
	if s.ClaimFrequency == 0 {
		return ErrZeroClaimFrequency
	}
	if s.Claimed > s.Allocation {
		return ErrOverClaimed
	}
	return nil
}

// CliffTime returns the moment the cliff ends.
func (s *Schedule) CliffTime() uint64 {
	return s.StartTime + s.CliffPeriod
}

// Remaining returns the amount not yet paid out.
func (s *Schedule) Remaining() uint64 {
	if s.Claimed >= s.Allocation {
		return 0
	}
	return s.Allocation - s.Claimed
}

// Settle applies a claim at time now. It adds the claimable amount to
// Claimed and reports it, along with whether the schedule is exhausted
// (Claimed == Allocation). An exhausted schedule must be deleted by the
// caller; absence from the store is the terminal state.
//
// A zero claimable amount leaves the schedule untouched.
func (s *Schedule) Settle(now uint64) (paid uint64, done bool) {
	paid = s.Claimable(now)
	if paid == 0 {
		return 0, false
	}
	s.Claimed += paid
	return paid, s.Claimed == s.Allocation
}
