package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

func TestWalletServiceFundWallet(t *testing.T) {
	f := newFixture(t)

	_, err := f.wallets.FundWallet(f.ctx, "", 1)
	require.ErrorIs(t, err, domain.ErrInvalidAccount)
	_, err = f.wallets.FundWallet(f.ctx, alice, 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	w, err := f.wallets.FundWallet(f.ctx, alice, 7_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(7_000_000), w.Balance)
	require.Equal(t, alice, w.Account)

	_, err = f.wallets.FundWallet(f.ctx, alice, domain.MaxAmount)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	require.Equal(t, uint64(7_000_000), f.balance(t, alice))
}

func TestWalletServiceJournal(t *testing.T) {
	f := newFixture(t)
	f.fund(t, alice, 10_000_000)

	id, err := f.deposits.CreateDeposit(f.ctx, alice, 6_000_000, domain.LockOneHour, nil)
	require.NoError(t, err)
	f.clock.Advance(6)
	_, err = f.deposits.WithdrawDeposit(f.ctx, alice, id, 6_000_000)
	require.NoError(t, err)

	entries, err := f.wallets.ListEntries(f.ctx, alice)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, domain.LedgerEntryCredit, entries[0].EntryType)
	require.Equal(t, domain.ReferenceFunding, entries[0].Reference)
	require.Equal(t, domain.LedgerEntryDebit, entries[1].EntryType)
	require.Equal(t, "deposit:1", entries[1].Reference)
	require.Equal(t, domain.LedgerEntryCredit, entries[2].EntryType)
	require.Equal(t, uint64(6_000_000), entries[2].Amount)
	require.NotEqual(t, entries[1].ID, entries[2].ID)

	empty, err := f.wallets.ListEntries(f.ctx, bob)
	require.NoError(t, err)
	require.Empty(t, empty)
}
