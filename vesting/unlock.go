package vesting

import "math/big"

// Unlocked returns the total amount unlocked at time now, before
// subtracting anything already claimed. The result is capped at
// Allocation so the claimed total can never exceed it.
//
// Exact integer semantics, required for compatibility with deployed
// schedules:
//
//	cliff     = StartTime + CliffPeriod
//	steps     = (now - cliff) / ClaimFrequency        (floor)
//	elapsed   = CliffPeriod + steps * ClaimFrequency
//	unlocked  = Allocation * elapsed / VestingPeriod  (floor, wide mul)
//
// elapsed is not clamped to VestingPeriod; only the final amount is
// capped. The multiplication runs through math/big so the intermediate
// product cannot overflow before the division.
func (s *Schedule) Unlocked(now uint64) uint64 {
	cliff := s.CliffTime()
	if now < cliff {
		return 0
	}

	steps := (now - cliff) / s.ClaimFrequency
	elapsed := s.CliffPeriod + steps*s.ClaimFrequency

	unlocked := new(big.Int).SetUint64(s.Allocation)
	unlocked.Mul(unlocked, new(big.Int).SetUint64(elapsed))
	unlocked.Quo(unlocked, new(big.Int).SetUint64(s.VestingPeriod))

	if !unlocked.IsUint64() || unlocked.Uint64() > s.Allocation {
		return s.Allocation
	}
	return unlocked.Uint64()
}

// Claimable returns the amount a claim at time now would pay out:
// everything unlocked minus everything already claimed.
//
// If Claimed exceeds the unlocked total (possible only with a
// non-monotonic time source) the result is zero, never an underflow.
func (s *Schedule) Claimable(now uint64) uint64 {
	unlocked := s.Unlocked(now)
	if unlocked <= s.Claimed {
		return 0
	}
	return unlocked - s.Claimed
}

// FullyVested reports whether the whole allocation is unlocked at now.
func (s *Schedule) FullyVested(now uint64) bool {
	return s.Unlocked(now) == s.Allocation
}
