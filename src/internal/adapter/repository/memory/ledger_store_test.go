package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/domain"
)

func TestLedgerStoreUpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	owner := domain.AccountID("SP1")

	require.NoError(t, store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		id, err := tx.NextDepositID(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveDeposit(ctx, domain.Deposit{ID: id, Owner: owner, Amount: 10}))
		return tx.AppendDepositID(ctx, owner, id)
	}))

	boom := errors.New("boom")
	err := store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		id, err := tx.NextDepositID(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveDeposit(ctx, domain.Deposit{ID: id, Owner: owner, Amount: 20}))
		require.NoError(t, tx.AppendDepositID(ctx, owner, id))
		require.NoError(t, tx.SaveWallet(ctx, domain.Wallet{Account: owner, Balance: 99}))
		require.NoError(t, tx.SaveDeposit(ctx, domain.Deposit{ID: 1, Owner: owner, Amount: 1}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		ids, err := tx.DepositIDs(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, []uint64{1}, ids)

		d, err := tx.GetDeposit(ctx, owner, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(10), d.Amount)

		_, err = tx.GetDeposit(ctx, owner, 2)
		require.ErrorIs(t, err, domain.ErrRecordNotFound)

		w, err := tx.GetWallet(ctx, owner)
		require.NoError(t, err)
		require.Zero(t, w.Balance)
		return nil
	}))

	require.NoError(t, store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		id, err := tx.NextDepositID(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), id, "rolled back allocation must not leave a gap")
		return nil
	}))
}

func TestLedgerStoreViewIsReadOnly(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()

	err := store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		return tx.SavePrice(ctx, domain.PriceState{UnitPrice: 1})
	})
	require.ErrorIs(t, err, repo_interfaces.ErrReadOnlyTransaction)
}

func TestLedgerStoreRosterRollback(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()

	require.NoError(t, store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		require.NoError(t, tx.AddToRoster(ctx, 1, "a"))
		return tx.AddToRoster(ctx, 1, "b")
	}))

	_ = store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		require.NoError(t, tx.RemoveFromRoster(ctx, 1, "a"))
		require.NoError(t, tx.DeleteMember(ctx, 1, "a"))
		return errors.New("abort")
	})

	require.NoError(t, store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		roster, err := tx.Roster(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, []domain.AccountID{"a", "b"}, roster)
		return nil
	}))
}

func TestLedgerStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()
	threshold := uint32(5)

	require.NoError(t, store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		return tx.SaveGroup(ctx, domain.Group{ID: 1, Threshold: &threshold})
	}))
	threshold = 9

	require.NoError(t, store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		g, err := tx.GetGroup(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, uint32(5), *g.Threshold)
		return nil
	}))
}
