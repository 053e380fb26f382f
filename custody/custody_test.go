package custody

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerFactories lets every ledger test run against both implementations.
func ledgerFactories(t *testing.T) map[string]func() Ledger {
	return map[string]func() Ledger{
		"mem": func() Ledger { return NewMemLedger() },
		"bolt": func() Ledger {
			l, err := OpenBoltLedger(filepath.Join(t.TempDir(), "ledger.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = l.Close() })
			return l
		},
	}
}

func TestLedger_DepositWithdrawBalance(t *testing.T) {
	for name, newLedger := range ledgerFactories(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger()

			// Absent key reads as zero.
			bal, err := l.Balance("alice", "gold")
			require.NoError(t, err)
			assert.Zero(t, bal)

			require.NoError(t, l.Deposit("alice", "gold", 500))
			require.NoError(t, l.Deposit("alice", "gold", 250))

			bal, err = l.Balance("alice", "gold")
			require.NoError(t, err)
			assert.Equal(t, uint64(750), bal)

			// Same holder, different asset: independent balance.
			bal, err = l.Balance("alice", "silver")
			require.NoError(t, err)
			assert.Zero(t, bal)

			require.NoError(t, l.Withdraw("alice", "gold", 700))
			bal, err = l.Balance("alice", "gold")
			require.NoError(t, err)
			assert.Equal(t, uint64(50), bal)
		})
	}
}

func TestLedger_WithdrawInsufficient(t *testing.T) {
	for name, newLedger := range ledgerFactories(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger()
			require.NoError(t, l.Deposit("alice", "gold", 10))

			err := l.Withdraw("alice", "gold", 11)
			assert.ErrorIs(t, err, ErrInsufficientFunds)

			// Balance untouched by the failed withdrawal.
			bal, err := l.Balance("alice", "gold")
			require.NoError(t, err)
			assert.Equal(t, uint64(10), bal)
		})
	}
}

func TestLedger_Transfer(t *testing.T) {
	for name, newLedger := range ledgerFactories(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger()
			require.NoError(t, l.Deposit("alice", "gold", 100))

			require.NoError(t, l.Transfer("alice", "bob", "gold", 40))

			aliceBal, err := l.Balance("alice", "gold")
			require.NoError(t, err)
			bobBal, err := l.Balance("bob", "gold")
			require.NoError(t, err)
			assert.Equal(t, uint64(60), aliceBal)
			assert.Equal(t, uint64(40), bobBal)

			// Insufficient source: neither side changes.
			err = l.Transfer("alice", "bob", "gold", 61)
			assert.ErrorIs(t, err, ErrInsufficientFunds)

			aliceBal, _ = l.Balance("alice", "gold")
			bobBal, _ = l.Balance("bob", "gold")
			assert.Equal(t, uint64(60), aliceBal)
			assert.Equal(t, uint64(40), bobBal)
		})
	}
}

func TestLedger_DepositOverflow(t *testing.T) {
	for name, newLedger := range ledgerFactories(t) {
		t.Run(name, func(t *testing.T) {
			l := newLedger()
			require.NoError(t, l.Deposit("alice", "gold", math.MaxUint64))
			assert.ErrorIs(t, l.Deposit("alice", "gold", 1), ErrBalanceOverflow)
		})
	}
}

func TestLedger_EmptyKeys(t *testing.T) {
	l := NewMemLedger()
	assert.ErrorIs(t, l.Deposit("", "gold", 1), ErrEmptyHolder)
	assert.ErrorIs(t, l.Deposit("alice", "", 1), ErrEmptyAsset)
	_, err := l.Balance("", "gold")
	assert.ErrorIs(t, err, ErrEmptyHolder)
}

func TestBoltLedger_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := OpenBoltLedger(path)
	require.NoError(t, err)
	require.NoError(t, l.Deposit("alice", "gold", 321))
	require.NoError(t, l.Close())

	l, err = OpenBoltLedger(path)
	require.NoError(t, err)
	defer l.Close()

	bal, err := l.Balance("alice", "gold")
	require.NoError(t, err)
	assert.Equal(t, uint64(321), bal)
}

// --- Handle derivation ---

func TestDeriveHandle_Deterministic(t *testing.T) {
	h1, err := DeriveHandle("creator-1", "gold")
	require.NoError(t, err)
	h2, err := DeriveHandle("creator-1", "gold")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, HandleLen*2) // hex-encoded
}

func TestDeriveHandle_DistinctInputsDistinctHandles(t *testing.T) {
	h1, err := DeriveHandle("creator-1", "gold")
	require.NoError(t, err)
	h2, err := DeriveHandle("creator-2", "gold")
	require.NoError(t, err)
	h3, err := DeriveHandle("creator-1", "silver")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h1, h3)

	// The handle never equals the creator identity itself.
	assert.NotEqual(t, "creator-1", h1)
}

func TestDeriveHandle_EmptyInputs(t *testing.T) {
	_, err := DeriveHandle("", "gold")
	assert.ErrorIs(t, err, ErrEmptyHolder)
	_, err = DeriveHandle("creator", "")
	assert.ErrorIs(t, err, ErrEmptyAsset)
}
