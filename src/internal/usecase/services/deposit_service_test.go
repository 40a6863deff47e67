package services_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

func TestDepositServiceCreateDepositValidation(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 1_000_000_000)

	tests := []struct {
		name    string
		owner   domain.AccountID
		amount  uint64
		option  domain.LockOption
		label   *string
		wantErr error
	}{
		{name: "empty owner", owner: "", amount: 10_000_000, option: domain.LockOneHour, wantErr: domain.ErrInvalidAccount},
		{name: "zero amount", owner: alice, amount: 0, option: domain.LockOneHour, wantErr: domain.ErrInvalidAmount},
		{name: "amount above int64", owner: alice, amount: domain.MaxAmount + 1, option: domain.LockOneHour, wantErr: domain.ErrInvalidAmount},
		{name: "lock option zero", owner: alice, amount: 10_000_000, option: 0, wantErr: domain.ErrInvalidLockOption},
		{name: "lock option fourteen", owner: alice, amount: 10_000_000, option: 14, wantErr: domain.ErrInvalidLockOption},
		{name: "below minimum", owner: alice, amount: 3_999_999, option: domain.LockOneHour, wantErr: domain.ErrBelowMinimum},
		{name: "below minimum beats long name", owner: alice, amount: 1, option: domain.LockOneHour, label: ptr(strings.Repeat("x", 51)), wantErr: domain.ErrBelowMinimum},
		{name: "name too long", owner: alice, amount: 10_000_000, option: domain.LockOneHour, label: ptr(strings.Repeat("x", 51)), wantErr: domain.ErrNameTooLong},
		{name: "wallet too small", owner: bob, amount: 10_000_000, option: domain.LockOneHour, wantErr: domain.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.deposits.CreateDeposit(f.ctx, tt.owner, tt.amount, tt.option, tt.label)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	ids, err := f.deposits.ListDepositIDs(f.ctx, alice)
	require.NoError(t, err)
	require.Empty(t, ids)
	require.Equal(t, uint64(1_000_000_000), f.balance(t, alice))
}

func TestDepositServiceCreateDepositAcceptsMultiByteName(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 10_000_000)

	name := strings.Repeat("é", 50)
	id, err := f.deposits.CreateDeposit(f.ctx, alice, 10_000_000, domain.LockOneDay, &name)
	require.NoError(t, err)

	d, ok, err := f.deposits.GetDeposit(f.ctx, alice, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, d.Name)
	require.Equal(t, name, *d.Name)
}

func TestDepositServiceIndividualLifecycle(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 10_000_000)

	created := f.clock.BlockHeight()
	id, err := f.deposits.CreateDeposit(f.ctx, alice, 10_000_000, domain.LockOneHour, nil)
	require.NoError(t, err)
	require.Zero(t, f.balance(t, alice))

	d, ok, err := f.deposits.GetDeposit(f.ctx, alice, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, created+6, d.LockExpiry)
	require.Equal(t, created, d.CreatedAt)

	f.clock.Set(created + 5)
	locked, err := f.deposits.IsLocked(f.ctx, alice, id)
	require.NoError(t, err)
	require.True(t, locked)
	remaining, err := f.deposits.RemainingBlocks(f.ctx, alice, id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), remaining)

	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 10_000_000)
	require.ErrorIs(t, err, domain.ErrStillLocked)

	f.clock.Set(created + 6)
	withdrawn, err := f.deposits.WithdrawDeposit(f.ctx, alice, id, 10_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(10_000_000), withdrawn)
	require.Equal(t, uint64(10_000_000), f.balance(t, alice))

	d, ok, err = f.deposits.GetDeposit(f.ctx, alice, id)
	require.NoError(t, err)
	require.True(t, ok, "withdrawn deposits are retained")
	require.True(t, d.Withdrawn)

	locked, err = f.deposits.IsLocked(f.ctx, alice, id)
	require.NoError(t, err)
	require.False(t, locked)
}

func TestDepositServiceLockBoundaryForEveryOption(t *testing.T) {
	for _, opt := range domain.LockOptions() {
		t.Run(opt.Label, func(t *testing.T) {
			f := newFixture(t)
			f.fund(t, alice, 5_000_000)

			start := f.clock.BlockHeight()
			id, err := f.deposits.CreateDeposit(f.ctx, alice, 5_000_000, opt.Option, nil)
			require.NoError(t, err)

			f.clock.Set(start + opt.Blocks - 1)
			_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 5_000_000)
			require.ErrorIs(t, err, domain.ErrStillLocked)

			f.clock.Set(start + opt.Blocks)
			_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 5_000_000)
			require.NoError(t, err)
		})
	}
}

func TestDepositServiceWithdrawDepositErrors(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 10_000_000)

	id, err := f.deposits.CreateDeposit(f.ctx, alice, 10_000_000, domain.LockOneHour, nil)
	require.NoError(t, err)

	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id+1, 1)
	require.ErrorIs(t, err, domain.ErrNoDeposit)

	_, err = f.deposits.WithdrawDeposit(f.ctx, bob, id, 1)
	require.ErrorIs(t, err, domain.ErrNoDeposit, "deposits are keyed by owner")

	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	f.clock.Advance(6)
	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 10_000_001)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestDepositServicePartialThenFullWithdrawal(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 10_000_000)

	id, err := f.deposits.CreateDeposit(f.ctx, alice, 10_000_000, domain.LockOneHour, nil)
	require.NoError(t, err)
	f.clock.Advance(6)

	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 4_000_000)
	require.NoError(t, err)

	d, _, err := f.deposits.GetDeposit(f.ctx, alice, id)
	require.NoError(t, err)
	require.False(t, d.Withdrawn)
	require.Equal(t, uint64(6_000_000), d.Amount)

	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 6_000_000)
	require.NoError(t, err)

	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 1)
	require.ErrorIs(t, err, domain.ErrNoDeposit)

	d, _, err = f.deposits.GetDeposit(f.ctx, alice, id)
	require.NoError(t, err)
	require.True(t, d.Withdrawn)
	require.Equal(t, uint64(10_000_000), d.WithdrawnAmount)
}

func TestDepositServiceConservation(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 100_000_000)

	amounts := []uint64{5_000_000, 7_000_000, 11_000_000, 13_000_000}
	var deposited uint64
	ids := make([]uint64, 0, len(amounts))
	for _, amount := range amounts {
		id, err := f.deposits.CreateDeposit(f.ctx, alice, amount, domain.LockOneHour, nil)
		require.NoError(t, err)
		ids = append(ids, id)
		deposited += amount
	}

	f.clock.Advance(6)
	_, err := f.deposits.WithdrawDeposit(f.ctx, alice, ids[0], 5_000_000)
	require.NoError(t, err)
	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, ids[2], 1_000_000)
	require.NoError(t, err)

	summary, err := f.deposits.Summary(f.ctx, alice)
	require.NoError(t, err)
	require.Equal(t, deposited, summary.TotalBalance+summary.TotalWithdrawn)
	require.Equal(t, 3, summary.ActiveCount)
	require.Equal(t, ids, summary.DepositIDs)

	total, err := f.deposits.TotalBalance(f.ctx, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(30_000_000), total)

	count, err := f.deposits.ActiveDepositCount(f.ctx, alice)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	require.Equal(t, 100_000_000-total, f.balance(t, alice))
}

func TestDepositServiceListFull(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, (domain.MaxDepositsPerOwner+1)*4_000_000)

	for i := 0; i < domain.MaxDepositsPerOwner; i++ {
		_, err := f.deposits.CreateDeposit(f.ctx, alice, 4_000_000, domain.LockOneHour, nil)
		require.NoError(t, err)
	}

	_, err := f.deposits.CreateDeposit(f.ctx, alice, 4_000_000, domain.LockOneHour, nil)
	require.ErrorIs(t, err, domain.ErrListFull)
	require.Equal(t, uint64(4_000_000), f.balance(t, alice))

	// Withdrawn deposits still occupy their slot.
	f.clock.Advance(6)
	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, 1, 4_000_000)
	require.NoError(t, err)
	_, err = f.deposits.CreateDeposit(f.ctx, alice, 4_000_000, domain.LockOneHour, nil)
	require.ErrorIs(t, err, domain.ErrListFull)
}

func TestDepositServiceMonotonicIDs(t *testing.T) {
	f := newFixture(t)
	owners := []domain.AccountID{alice, bob, carol, dave}
	for _, o := range owners {
		f.fund(t, o, 50*4_000_000)
	}

	var (
		mu  sync.Mutex
		ids []uint64
		wg  sync.WaitGroup
	)
	for _, o := range owners {
		wg.Add(1)
		go func(owner domain.AccountID) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id, err := f.deposits.CreateDeposit(f.ctx, owner, 4_000_000, domain.LockOneHour, nil)
				if err != nil {
					t.Errorf("create deposit: %v", err)
					return
				}
				mu.Lock()
				ids = append(ids, id)
				mu.Unlock()
			}
		}(o)
	}
	wg.Wait()

	require.Len(t, ids, 200)
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "id %d allocated twice", id)
		seen[id] = struct{}{}
	}
	for id := uint64(1); id <= 200; id++ {
		require.Contains(t, seen, id)
	}

	for _, o := range owners {
		list, err := f.deposits.ListDepositIDs(f.ctx, o)
		require.NoError(t, err)
		require.Len(t, list, 50)
		require.IsIncreasing(t, list)
	}
}

func TestDepositServiceMinimumFollowsPrice(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 10_000_000)

	_, err := f.deposits.CreateDeposit(f.ctx, alice, 1_000_000, domain.LockOneHour, nil)
	require.ErrorIs(t, err, domain.ErrBelowMinimum)

	_, err = f.price.UpdatePrice(f.ctx, authority, 2_000_000)
	require.NoError(t, err)

	_, err = f.deposits.CreateDeposit(f.ctx, alice, 1_000_000, domain.LockOneHour, nil)
	require.NoError(t, err)
}

func TestDepositServiceQueriesOnUnknownDeposit(t *testing.T) {
	f := newFixture(t)

	_, ok, err := f.deposits.GetDeposit(f.ctx, alice, 42)
	require.NoError(t, err)
	require.False(t, ok)

	locked, err := f.deposits.IsLocked(f.ctx, alice, 42)
	require.NoError(t, err)
	require.False(t, locked)

	remaining, err := f.deposits.RemainingBlocks(f.ctx, alice, 42)
	require.NoError(t, err)
	require.Zero(t, remaining)

	total, err := f.deposits.TotalBalance(f.ctx, alice)
	require.NoError(t, err)
	require.Zero(t, total)
}
