package treasury

import "strings"

// Store is one creator's vesting store record: the reserve-asset
// binding, the custody handle holding the reserve, the claim switch,
// the capability commitment, and any store-global freeze windows.
// Schedules live beside it in the Repository, keyed by recipient.
type Store struct {
	Creator       string
	Asset         string
	CustodyHandle string
	ClaimEnabled  bool
	CapDigest     []byte
	FreezeWindows []FreezeWindow
}

// FreezeWindow is a store-global interval during which claims are
// rejected. Accrual arithmetic is unaffected; a claim made after the
// window pays out whatever accrued through it.
type FreezeWindow struct {
	Start    uint64
	Duration uint64
}

// Contains reports whether now falls inside the window. The end bound
// is exclusive: a window of duration d starting at t covers [t, t+d).
func (w FreezeWindow) Contains(now uint64) bool {
	return now >= w.Start && now-w.Start < w.Duration
}

// Frozen reports whether any freeze window covers now.
func (s *Store) Frozen(now uint64) bool {
	for _, w := range s.FreezeWindows {
		if w.Contains(now) {
			return true
		}
	}
	return false
}

// clone returns a deep copy so repository callers never share slices
// with persisted state.
func (s *Store) clone() *Store {
	cp := *s
	cp.CapDigest = append([]byte(nil), s.CapDigest...)
	cp.FreezeWindows = append([]FreezeWindow(nil), s.FreezeWindows...)
	return &cp
}

// checkIdentity validates an identity string. Identities are opaque to
// the engine but must be non-empty and NUL-free (NUL separates composite
// repository keys).
func checkIdentity(id string) error {
	if id == "" || strings.IndexByte(id, 0x00) >= 0 {
		return ErrInvalidIdentity
	}
	return nil
}
