package service_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type DepositService interface {
	CreateDeposit(ctx context.Context, owner domain.AccountID, amount uint64, option domain.LockOption, name *string) (uint64, error)
	WithdrawDeposit(ctx context.Context, owner domain.AccountID, depositID uint64, amount uint64) (uint64, error)
	ListDepositIDs(ctx context.Context, owner domain.AccountID) ([]uint64, error)
	GetDeposit(ctx context.Context, owner domain.AccountID, depositID uint64) (domain.Deposit, bool, error)
	IsLocked(ctx context.Context, owner domain.AccountID, depositID uint64) (bool, error)
	RemainingBlocks(ctx context.Context, owner domain.AccountID, depositID uint64) (uint64, error)
	ListDeposits(ctx context.Context, owner domain.AccountID) ([]domain.Deposit, error)
	TotalBalance(ctx context.Context, owner domain.AccountID) (uint64, error)
	ActiveDepositCount(ctx context.Context, owner domain.AccountID) (int, error)
	Summary(ctx context.Context, owner domain.AccountID) (domain.DepositSummary, error)
}
