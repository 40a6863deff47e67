package repo_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type DepositRepository interface {
	// NextDepositID advances the global deposit counter and returns the new id.
	NextDepositID(ctx context.Context) (uint64, error)
	GetDeposit(ctx context.Context, owner domain.AccountID, id uint64) (domain.Deposit, error)
	SaveDeposit(ctx context.Context, deposit domain.Deposit) error
	DepositIDs(ctx context.Context, owner domain.AccountID) ([]uint64, error)
	AppendDepositID(ctx context.Context, owner domain.AccountID, id uint64) error
}

type LegacyDepositRepository interface {
	GetLegacyDeposit(ctx context.Context, owner domain.AccountID) (domain.LegacyDeposit, error)
	SaveLegacyDeposit(ctx context.Context, deposit domain.LegacyDeposit) error
	DeleteLegacyDeposit(ctx context.Context, owner domain.AccountID) error
}
