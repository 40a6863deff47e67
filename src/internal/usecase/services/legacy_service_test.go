package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

func TestLegacyServiceDepositOverwrites(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 20_000_000)

	_, err := f.legacy.Deposit(f.ctx, alice, 5_000_000, domain.LockOneHour)
	require.NoError(t, err)
	_, err = f.legacy.Deposit(f.ctx, alice, 8_000_000, domain.LockOneDay)
	require.NoError(t, err)

	d, ok, err := f.legacy.GetLegacyDeposit(f.ctx, alice)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(8_000_000), d.Amount)
	require.Equal(t, f.clock.BlockHeight()+144, d.LockExpiry)

	// Both debits were taken; the replaced slot is not refunded.
	require.Equal(t, uint64(7_000_000), f.balance(t, alice))
}

func TestLegacyServiceDepositValidation(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 20_000_000)

	_, err := f.legacy.Deposit(f.ctx, alice, 0, domain.LockOneHour)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.legacy.Deposit(f.ctx, alice, 5_000_000, 0)
	require.ErrorIs(t, err, domain.ErrInvalidLockOption)

	_, err = f.legacy.Deposit(f.ctx, alice, 3_000_000, domain.LockOneHour)
	require.ErrorIs(t, err, domain.ErrBelowMinimum)

	_, err = f.legacy.Deposit(f.ctx, bob, 5_000_000, domain.LockOneHour)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, ok, err := f.legacy.GetLegacyDeposit(f.ctx, bob)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLegacyServiceWithdraw(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 10_000_000)

	_, err := f.legacy.Withdraw(f.ctx, alice, 1)
	require.ErrorIs(t, err, domain.ErrNoDeposit)

	start := f.clock.BlockHeight()
	_, err = f.legacy.Deposit(f.ctx, alice, 10_000_000, domain.LockOneHour)
	require.NoError(t, err)

	_, err = f.legacy.Withdraw(f.ctx, alice, 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	f.clock.Set(start + 5)
	remaining, err := f.legacy.RemainingBlocks(f.ctx, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1), remaining)
	_, err = f.legacy.Withdraw(f.ctx, alice, 1)
	require.ErrorIs(t, err, domain.ErrStillLocked)

	f.clock.Set(start + 6)
	_, err = f.legacy.Withdraw(f.ctx, alice, 10_000_001)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	got, err := f.legacy.Withdraw(f.ctx, alice, 4_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(4_000_000), got)

	d, ok, err := f.legacy.GetLegacyDeposit(f.ctx, alice)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(6_000_000), d.Amount)

	_, err = f.legacy.Withdraw(f.ctx, alice, 6_000_000)
	require.NoError(t, err)

	_, ok, err = f.legacy.GetLegacyDeposit(f.ctx, alice)
	require.NoError(t, err)
	require.False(t, ok, "a drained legacy slot is deleted")
	require.Equal(t, uint64(10_000_000), f.balance(t, alice))

	_, err = f.legacy.Withdraw(f.ctx, alice, 1)
	require.ErrorIs(t, err, domain.ErrNoDeposit)
}
