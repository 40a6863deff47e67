package service_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type PriceService interface {
	Bootstrap(ctx context.Context, authority domain.AccountID, price uint64) error
	GetPrice(ctx context.Context) (domain.PriceState, error)
	MinimumDepositAmount(ctx context.Context) (uint64, error)
	ValidateDeposit(ctx context.Context, amount uint64) (bool, error)
	UpdatePrice(ctx context.Context, caller domain.AccountID, newPrice uint64) (uint64, error)
	TransferAuthority(ctx context.Context, caller domain.AccountID, newAuthority domain.AccountID) error
}
