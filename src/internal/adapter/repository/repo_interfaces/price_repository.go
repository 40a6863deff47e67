package repo_interfaces

import (
	"context"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type PriceRepository interface {
	GetPrice(ctx context.Context) (domain.PriceState, error)
	SavePrice(ctx context.Context, price domain.PriceState) error
}
