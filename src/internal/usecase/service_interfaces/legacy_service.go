package service_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type LegacyService interface {
	Deposit(ctx context.Context, owner domain.AccountID, amount uint64, option domain.LockOption) (uint64, error)
	Withdraw(ctx context.Context, owner domain.AccountID, amount uint64) (uint64, error)
	GetLegacyDeposit(ctx context.Context, owner domain.AccountID) (domain.LegacyDeposit, bool, error)
	RemainingBlocks(ctx context.Context, owner domain.AccountID) (uint64, error)
}
