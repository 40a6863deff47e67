package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/memory"
	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/usecase/services"
)

// contendedStore lets the chain move on while a writer waits for the lock.
type contendedStore struct {
	repo_interfaces.LedgerStore
	clock *domain.ManualClock
	wait  uint64
}

func (s *contendedStore) Update(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) error {
	if s.wait > 0 {
		s.clock.Advance(s.wait)
	}
	return s.LedgerStore.Update(ctx, fn)
}

func TestWritesUseHeightAtCommit(t *testing.T) {
	ctx := context.Background()
	clock := domain.NewManualClock(100)
	store := &contendedStore{LedgerStore: memory.NewLedgerStore(), clock: clock}

	price := services.NewPriceService(store, clock, nil)
	wallets := services.NewWalletService(store, clock, nil)
	deposits := services.NewDepositService(store, clock, nil)
	legacy := services.NewLegacyService(store, clock, nil)
	groups := services.NewGroupService(store, clock, nil)

	require.NoError(t, price.Bootstrap(ctx, authority, domain.DefaultUnitPrice))
	_, err := wallets.FundWallet(ctx, alice, 50_000_000)
	require.NoError(t, err)
	_, err = wallets.FundWallet(ctx, bob, 5_000_000)
	require.NoError(t, err)

	store.wait = 6

	t.Run("deposit lock starts at commit", func(t *testing.T) {
		id, err := deposits.CreateDeposit(ctx, alice, 10_000_000, domain.LockOneHour, nil)
		require.NoError(t, err)
		committed := clock.BlockHeight()
		require.Equal(t, uint64(106), committed)

		d, ok, err := deposits.GetDeposit(ctx, alice, id)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, committed, d.CreatedAt)
		require.Equal(t, committed+6, d.LockExpiry)

		store.wait = 0
		locked, err := deposits.IsLocked(ctx, alice, id)
		require.NoError(t, err)
		require.True(t, locked)
		_, err = deposits.WithdrawDeposit(ctx, alice, id, 10_000_000)
		require.ErrorIs(t, err, domain.ErrStillLocked)
		store.wait = 6
	})

	t.Run("withdraw checks lock at commit", func(t *testing.T) {
		store.wait = 0
		id, err := deposits.CreateDeposit(ctx, alice, 10_000_000, domain.LockOneHour, nil)
		require.NoError(t, err)

		store.wait = 6
		got, err := deposits.WithdrawDeposit(ctx, alice, id, 10_000_000)
		require.NoError(t, err)
		require.Equal(t, uint64(10_000_000), got)
	})

	t.Run("legacy lock starts at commit", func(t *testing.T) {
		_, err := legacy.Deposit(ctx, alice, 5_000_000, domain.LockOneHour)
		require.NoError(t, err)

		d, ok, err := legacy.GetLegacyDeposit(ctx, alice)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, clock.BlockHeight(), d.CreatedAt)
		require.Equal(t, clock.BlockHeight()+6, d.LockExpiry)
	})

	t.Run("group lock starts at commit", func(t *testing.T) {
		id, err := groups.CreateGroup(ctx, alice, "contended", domain.LockOneHour, ptr[uint32](2))
		require.NoError(t, err)
		require.NoError(t, groups.JoinGroupWithDeposit(ctx, bob, id, 5_000_000))

		m, ok, err := groups.GetMember(ctx, id, bob)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, clock.BlockHeight(), m.JoinedBlock)

		require.NoError(t, groups.StartGroupLock(ctx, alice, id))
		g, ok, err := groups.GetGroup(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, clock.BlockHeight(), *g.StartBlock)
		require.Equal(t, clock.BlockHeight()+6, *g.LockExpiry)
	})

	t.Run("price update records commit height", func(t *testing.T) {
		_, err := price.UpdatePrice(ctx, authority, 1_000_000)
		require.NoError(t, err)

		state, err := price.GetPrice(ctx)
		require.NoError(t, err)
		require.Equal(t, clock.BlockHeight(), state.LastUpdate)
	})
}
