package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/memory"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/metrics"
	"github.com/api-sage/timelock-savings/src/internal/usecase/services"
)

const (
	authority = domain.AccountID("SP000000000000000000002Q6VF78")
	alice     = domain.AccountID("SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7")
	bob       = domain.AccountID("SP3FBR2AGK5H9QBDH3EEN6DF8EK8JY7RX8QJ5SVTE")
	carol     = domain.AccountID("SP1HTBVD3JG9C05J7HBJTHGR0GGW7KXW28M5JS8QE")
	dave      = domain.AccountID("SP2C2YFP12AJZB4MABJBAJ55XECVS7E4PMMZ89YZR")
)

type fixture struct {
	ctx      context.Context
	store    *memory.LedgerStore
	clock    *domain.ManualClock
	metrics  *metrics.Collector
	price    *services.PriceService
	wallets  *services.WalletService
	deposits *services.DepositService
	legacy   *services.LegacyService
	groups   *services.GroupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:     context.Background(),
		store:   memory.NewLedgerStore(),
		clock:   domain.NewManualClock(100),
		metrics: metrics.NewCollector(),
	}
	f.price = services.NewPriceService(f.store, f.clock, f.metrics)
	f.wallets = services.NewWalletService(f.store, f.clock, f.metrics)
	f.deposits = services.NewDepositService(f.store, f.clock, f.metrics)
	f.legacy = services.NewLegacyService(f.store, f.clock, f.metrics)
	f.groups = services.NewGroupService(f.store, f.clock, f.metrics)

	require.NoError(t, f.price.Bootstrap(f.ctx, authority, domain.DefaultUnitPrice))
	return f
}

func (f *fixture) fund(t *testing.T, account domain.AccountID, amount uint64) {
	t.Helper()
	_, err := f.wallets.FundWallet(f.ctx, account, amount)
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, account domain.AccountID) uint64 {
	t.Helper()
	w, err := f.wallets.GetWallet(f.ctx, account)
	require.NoError(t, err)
	return w.Balance
}

func ptr[T any](v T) *T {
	return &v
}
