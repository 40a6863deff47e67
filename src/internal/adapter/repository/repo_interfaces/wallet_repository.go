package repo_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type WalletRepository interface {
	// GetWallet returns a zero-balance wallet for unknown accounts.
	GetWallet(ctx context.Context, account domain.AccountID) (domain.Wallet, error)
	SaveWallet(ctx context.Context, wallet domain.Wallet) error
	AppendEntry(ctx context.Context, entry domain.WalletEntry) error
	Entries(ctx context.Context, account domain.AccountID) ([]domain.WalletEntry, error)
}
