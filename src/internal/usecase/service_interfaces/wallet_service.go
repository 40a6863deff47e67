package service_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type WalletService interface {
	FundWallet(ctx context.Context, account domain.AccountID, amount uint64) (domain.Wallet, error)
	GetWallet(ctx context.Context, account domain.AccountID) (domain.Wallet, error)
	ListEntries(ctx context.Context, account domain.AccountID) ([]domain.WalletEntry, error)
}
