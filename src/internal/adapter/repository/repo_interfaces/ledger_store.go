package repo_interfaces

import (
	"context"
	"errors"
)

var ErrReadOnlyTransaction = errors.New("write attempted in read-only transaction")

// LedgerTx exposes every ledger map inside one transaction.
type LedgerTx interface {
	DepositRepository
	LegacyDepositRepository
	GroupRepository
	PriceRepository
	WalletRepository
}

// LedgerStore runs closures as atomic units. If fn returns an error from
// Update none of its writes are kept. View closures must not write.
type LedgerStore interface {
	Update(ctx context.Context, fn func(tx LedgerTx) error) error
	View(ctx context.Context, fn func(tx LedgerTx) error) error
}
