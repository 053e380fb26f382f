package treasury

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libvest-go/custody"
	"github.com/bitfsorg/libvest-go/vesting"
)

const (
	testCreator = "creator-1"
	testAsset   = "gold"
	testAlice   = "alice"
	testBob     = "bob"
)

type testEnv struct {
	engine *Engine
	ledger *custody.MemLedger
	clock  *ManualClock
	sink   *MemorySink
	cap    *AdminCap
	handle string
}

// newTestEnv builds an engine over in-memory collaborators, creates a
// store for testCreator, and funds its reserve.
func newTestEnv(t *testing.T, reserve uint64) *testEnv {
	t.Helper()

	env := &testEnv{
		ledger: custody.NewMemLedger(),
		clock:  NewManualClock(100),
		sink:   &MemorySink{},
	}
	env.engine = NewEngine(NewMemRepository(), env.ledger, env.clock, env.sink)

	cap, err := env.engine.CreateStore(testCreator, testAsset)
	require.NoError(t, err)
	env.cap = cap

	env.handle, err = env.engine.CustodyHandle(testCreator)
	require.NoError(t, err)

	if reserve > 0 {
		require.NoError(t, env.ledger.Deposit(env.handle, testAsset, reserve))
	}
	return env
}

// addCanonicalSchedule adds the 100/100/10/10 grant starting at t=100.
func (env *testEnv) addCanonicalSchedule(t *testing.T, recipient string) {
	t.Helper()
	require.NoError(t, env.engine.AddSchedule(env.cap, recipient, 100, 100, 10, 10))
}

// --- Store lifecycle ---

func TestCreateStore_DuplicateFails(t *testing.T) {
	env := newTestEnv(t, 0)

	// A second store for the same creator fails and the first store
	// is untouched.
	_, err := env.engine.CreateStore(testCreator, "silver")
	assert.ErrorIs(t, err, ErrStoreExists)

	handle, err := env.engine.CustodyHandle(testCreator)
	require.NoError(t, err)
	assert.Equal(t, env.handle, handle)

	enabled, err := env.engine.ClaimEnabled(testCreator)
	require.NoError(t, err)
	assert.False(t, enabled, "claiming must default to disabled")
}

func TestCreateStore_CustodyHandleIsNotCreator(t *testing.T) {
	env := newTestEnv(t, 0)
	assert.NotEqual(t, testCreator, env.handle)
	assert.NotEmpty(t, env.handle)
}

func TestCreateStore_InvalidCreator(t *testing.T) {
	engine := NewEngine(NewMemRepository(), custody.NewMemLedger(), nil, nil)

	_, err := engine.CreateStore("", testAsset)
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = engine.CreateStore("has\x00nul", testAsset)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestEnableDisableClaim_Idempotent(t *testing.T) {
	env := newTestEnv(t, 0)

	require.NoError(t, env.engine.EnableClaim(env.cap))
	require.NoError(t, env.engine.EnableClaim(env.cap)) // already enabled: no error

	enabled, err := env.engine.ClaimEnabled(testCreator)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, env.engine.DisableClaim(env.cap))
	require.NoError(t, env.engine.DisableClaim(env.cap))

	enabled, err = env.engine.ClaimEnabled(testCreator)
	require.NoError(t, err)
	assert.False(t, enabled)
}

// --- Capability gating ---

func TestMutations_RejectForgedCapability(t *testing.T) {
	env := newTestEnv(t, 0)

	// A capability minted outside CreateStore carries the right creator
	// but the wrong secret.
	forged, err := newAdminCap(testCreator)
	require.NoError(t, err)

	assert.ErrorIs(t, env.engine.EnableClaim(forged), ErrInvalidCapability)
	assert.ErrorIs(t, env.engine.AddSchedule(forged, testAlice, 100, 100, 10, 10), ErrInvalidCapability)
	assert.ErrorIs(t, env.engine.RemoveSchedule(forged, testAlice), ErrInvalidCapability)
	assert.ErrorIs(t, env.engine.WithdrawReserve(forged, 1), ErrInvalidCapability)
	assert.ErrorIs(t, env.engine.AddFreezePeriod(forged, 0, 10), ErrInvalidCapability)
}

func TestMutations_RejectNilCapability(t *testing.T) {
	env := newTestEnv(t, 0)

	assert.ErrorIs(t, env.engine.EnableClaim(nil), ErrNilCapability)
	assert.ErrorIs(t, env.engine.AddSchedule(nil, testAlice, 100, 100, 10, 10), ErrNilCapability)
	assert.ErrorIs(t, env.engine.WithdrawReserve(nil, 1), ErrNilCapability)
}

func TestCapability_ParsedTokenAuthorizes(t *testing.T) {
	env := newTestEnv(t, 0)

	// Round-tripping the capability through its token form keeps it valid.
	restored, err := ParseToken(env.cap.Token())
	require.NoError(t, err)
	assert.NoError(t, env.engine.EnableClaim(restored))
}

// --- Schedule mutation ---

func TestAddSchedule_DuplicateFails(t *testing.T) {
	env := newTestEnv(t, 0)
	env.addCanonicalSchedule(t, testAlice)

	// The duplicate add fails and the original fields survive.
	err := env.engine.AddSchedule(env.cap, testAlice, 999, 5, 1, 1)
	assert.ErrorIs(t, err, ErrScheduleExists)

	s, err := env.engine.GetSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), s.Allocation)
	assert.Equal(t, uint64(100), s.VestingPeriod)
	assert.Equal(t, uint64(10), s.CliffPeriod)
	assert.Equal(t, uint64(10), s.ClaimFrequency)
	assert.Equal(t, uint64(100), s.StartTime)
}

func TestAddSchedule_StartTimeDefaultsToNow(t *testing.T) {
	env := newTestEnv(t, 0)
	env.clock.Set(12345)

	env.addCanonicalSchedule(t, testAlice)

	s, err := env.engine.GetSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), s.StartTime)
	assert.Zero(t, s.Claimed)
}

func TestAddScheduleAt_ExplicitStart(t *testing.T) {
	env := newTestEnv(t, 0)

	require.NoError(t, env.engine.AddScheduleAt(env.cap, testAlice, 100, 100, 10, 10, 50))

	s, err := env.engine.GetSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), s.StartTime)
}

func TestAddSchedule_ValidatesParameters(t *testing.T) {
	env := newTestEnv(t, 0)

	assert.ErrorIs(t, env.engine.AddSchedule(env.cap, testAlice, 100, 0, 10, 10), vesting.ErrZeroVestingPeriod)
	assert.ErrorIs(t, env.engine.AddSchedule(env.cap, testAlice, 100, 100, 10, 0), vesting.ErrZeroClaimFrequency)
	assert.ErrorIs(t, env.engine.AddSchedule(env.cap, testAlice, 0, 100, 10, 10), vesting.ErrZeroAllocation)

	// None of the failed adds left a schedule behind.
	exists, err := env.engine.HasSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRemoveSchedule(t *testing.T) {
	env := newTestEnv(t, 0)

	assert.ErrorIs(t, env.engine.RemoveSchedule(env.cap, testAlice), ErrScheduleNotFound)

	env.addCanonicalSchedule(t, testAlice)
	require.NoError(t, env.engine.RemoveSchedule(env.cap, testAlice))

	exists, err := env.engine.HasSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateSchedule_PreservesClaimed(t *testing.T) {
	env := newTestEnv(t, 1000)
	require.NoError(t, env.engine.EnableClaim(env.cap))
	env.addCanonicalSchedule(t, testAlice)

	env.clock.Set(130)
	paid, err := env.engine.Claim(testCreator, testAlice)
	require.NoError(t, err)
	require.Equal(t, uint64(30), paid)

	// Double the allocation over a fresh period; claimed must carry over.
	require.NoError(t, env.engine.UpdateSchedule(env.cap, testAlice, 200, 50, 0, 5))

	s, err := env.engine.GetSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), s.Claimed)
	assert.Equal(t, uint64(200), s.Allocation)
	assert.Equal(t, uint64(50), s.VestingPeriod)
	assert.Equal(t, uint64(100), s.StartTime, "start time preserved by wholesale update")
}

func TestUpdateSchedule_NotFound(t *testing.T) {
	env := newTestEnv(t, 0)
	err := env.engine.UpdateSchedule(env.cap, testAlice, 200, 50, 0, 5)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestUpdateSchedule_RejectsAllocationBelowClaimed(t *testing.T) {
	env := newTestEnv(t, 1000)
	require.NoError(t, env.engine.EnableClaim(env.cap))
	env.addCanonicalSchedule(t, testAlice)

	env.clock.Set(130)
	_, err := env.engine.Claim(testCreator, testAlice)
	require.NoError(t, err)

	err = env.engine.UpdateSchedule(env.cap, testAlice, 20, 100, 10, 10)
	assert.ErrorIs(t, err, vesting.ErrOverClaimed)

	// Failed update left the schedule untouched.
	s, err := env.engine.GetSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), s.Allocation)
}

func TestUpdateScheduleFields_PartialUpdate(t *testing.T) {
	env := newTestEnv(t, 0)
	env.addCanonicalSchedule(t, testAlice)

	newAlloc := uint64(500)
	newStart := uint64(90)
	require.NoError(t, env.engine.UpdateScheduleFields(env.cap, testAlice, ScheduleUpdate{
		Allocation: &newAlloc,
		StartTime:  &newStart,
	}))

	s, err := env.engine.GetSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), s.Allocation)
	assert.Equal(t, uint64(90), s.StartTime)
	// Unset fields kept their prior values.
	assert.Equal(t, uint64(100), s.VestingPeriod)
	assert.Equal(t, uint64(10), s.CliffPeriod)
	assert.Equal(t, uint64(10), s.ClaimFrequency)
}

// --- Reserve withdrawal ---

func TestWithdrawReserve(t *testing.T) {
	env := newTestEnv(t, 500)

	require.NoError(t, env.engine.WithdrawReserve(env.cap, 200))

	reserve, err := env.engine.ReserveBalance(testCreator)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), reserve)

	creatorBal, err := env.ledger.Balance(testCreator, testAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), creatorBal)
}

func TestWithdrawReserve_Insufficient(t *testing.T) {
	env := newTestEnv(t, 100)

	err := env.engine.WithdrawReserve(env.cap, 101)
	assert.ErrorIs(t, err, custody.ErrInsufficientFunds)

	reserve, err := env.engine.ReserveBalance(testCreator)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), reserve)
}

func TestWithdrawReserve_ZeroAmount(t *testing.T) {
	env := newTestEnv(t, 100)
	assert.ErrorIs(t, env.engine.WithdrawReserve(env.cap, 0), ErrZeroAmount)
}

// --- Freeze windows ---

func TestAddFreezePeriod(t *testing.T) {
	env := newTestEnv(t, 0)

	assert.ErrorIs(t, env.engine.AddFreezePeriod(env.cap, 100, 0), ErrZeroFreezeDuration)

	require.NoError(t, env.engine.AddFreezePeriod(env.cap, 100, 50))
	require.NoError(t, env.engine.AddFreezePeriod(env.cap, 400, 10))

	windows, err := env.engine.FreezeWindows(testCreator)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, FreezeWindow{Start: 100, Duration: 50}, windows[0])
}

func TestFreezeWindow_Contains(t *testing.T) {
	w := FreezeWindow{Start: 100, Duration: 50}
	assert.False(t, w.Contains(99))
	assert.True(t, w.Contains(100))
	assert.True(t, w.Contains(149))
	assert.False(t, w.Contains(150), "end bound is exclusive")
}

// --- Views on missing stores ---

func TestViews_StoreNotFound(t *testing.T) {
	engine := NewEngine(NewMemRepository(), custody.NewMemLedger(), nil, nil)

	_, err := engine.ClaimEnabled("nobody")
	assert.ErrorIs(t, err, ErrStoreNotFound)
	_, err = engine.CustodyHandle("nobody")
	assert.ErrorIs(t, err, ErrStoreNotFound)
	_, err = engine.ReserveBalance("nobody")
	assert.ErrorIs(t, err, ErrStoreNotFound)
	_, err = engine.GetSchedule("nobody", testAlice)
	assert.ErrorIs(t, err, ErrStoreNotFound)
	_, err = engine.Claim("nobody", testAlice)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestGetSchedule_SnapshotIsCopy(t *testing.T) {
	env := newTestEnv(t, 0)
	env.addCanonicalSchedule(t, testAlice)

	s, err := env.engine.GetSchedule(testCreator, testAlice)
	require.NoError(t, err)
	s.Allocation = 1 // mutate the snapshot

	fresh, err := env.engine.GetSchedule(testCreator, testAlice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), fresh.Allocation)
}
