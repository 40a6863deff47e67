package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/logger"
	"github.com/api-sage/timelock-savings/src/internal/metrics"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

// Verify that PriceService implements the service_interfaces.PriceService interface
var _ service_interfaces.PriceService = (*PriceService)(nil)

type PriceService struct {
	store   repo_interfaces.LedgerStore
	clock   domain.Clock
	metrics *metrics.Collector
}

func NewPriceService(store repo_interfaces.LedgerStore, clock domain.Clock, collector *metrics.Collector) *PriceService {
	return &PriceService{store: store, clock: clock, metrics: collector}
}

// Bootstrap creates the price singleton if the store has none. An existing
// state is left untouched.
func (s *PriceService) Bootstrap(ctx context.Context, authority domain.AccountID, price uint64) error {
	if !authority.Valid() {
		return domain.ErrInvalidAccount
	}
	if !domain.ValidUnitPrice(price) {
		return domain.ErrInvalidAmount
	}

	created := false
	err := s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now := s.clock.BlockHeight()
		_, err := tx.GetPrice(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return fmt.Errorf("get price: %w", err)
		}
		created = true
		return tx.SavePrice(ctx, domain.PriceState{UnitPrice: price, Authority: authority, LastUpdate: now})
	})
	if err != nil {
		logger.Error("price service bootstrap failed", err, nil)
		return err
	}

	logger.Info("price service bootstrap", logger.Fields{
		"created":   created,
		"authority": authority,
		"unitPrice": price,
	})
	return nil
}

func (s *PriceService) GetPrice(ctx context.Context) (domain.PriceState, error) {
	var state domain.PriceState
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		var err error
		state, err = loadPrice(ctx, tx)
		return err
	})
	if err != nil {
		logger.Error("price service get price failed", err, nil)
		return domain.PriceState{}, err
	}
	return state, nil
}

func (s *PriceService) MinimumDepositAmount(ctx context.Context) (uint64, error) {
	state, err := s.GetPrice(ctx)
	if err != nil {
		return 0, err
	}
	return domain.MinimumDepositAmount(state.UnitPrice), nil
}

func (s *PriceService) ValidateDeposit(ctx context.Context, amount uint64) (bool, error) {
	minimum, err := s.MinimumDepositAmount(ctx)
	if err != nil {
		return false, err
	}
	return amount >= minimum, nil
}

func (s *PriceService) UpdatePrice(ctx context.Context, caller domain.AccountID, newPrice uint64) (price uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("update_price", start, err) }()

	logger.Info("price service update price request", logger.Fields{
		"caller":   caller,
		"newPrice": newPrice,
	})

	var now uint64
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		state, err := loadPrice(ctx, tx)
		if err != nil {
			return err
		}
		if !caller.Valid() || caller != state.Authority {
			return domain.ErrUnauthorized
		}
		if !domain.ValidUnitPrice(newPrice) {
			return domain.ErrInvalidAmount
		}

		state.UnitPrice = newPrice
		state.LastUpdate = now
		return tx.SavePrice(ctx, state)
	})
	if err != nil {
		logger.Error("price service update price failed", err, logger.Fields{
			"caller":   caller,
			"newPrice": newPrice,
		})
		return 0, err
	}

	logger.Info("price service update price success", logger.Fields{
		"unitPrice":  newPrice,
		"lastUpdate": now,
	})
	return newPrice, nil
}

func (s *PriceService) TransferAuthority(ctx context.Context, caller domain.AccountID, newAuthority domain.AccountID) (err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("transfer_authority", start, err) }()

	logger.Info("price service transfer authority request", logger.Fields{
		"caller":       caller,
		"newAuthority": newAuthority,
	})

	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		state, err := loadPrice(ctx, tx)
		if err != nil {
			return err
		}
		if !caller.Valid() || caller != state.Authority {
			return domain.ErrUnauthorized
		}
		if !newAuthority.Valid() {
			return domain.ErrInvalidAccount
		}

		state.Authority = newAuthority
		return tx.SavePrice(ctx, state)
	})
	if err != nil {
		logger.Error("price service transfer authority failed", err, logger.Fields{
			"caller": caller,
		})
		return err
	}

	logger.Info("price service transfer authority success", logger.Fields{
		"authority": newAuthority,
	})
	return nil
}

// loadPrice reads the singleton. Before bootstrap the state is zero, which
// makes every caller unauthorized and the minimum fall back.
func loadPrice(ctx context.Context, tx repo_interfaces.LedgerTx) (domain.PriceState, error) {
	state, err := tx.GetPrice(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.PriceState{}, nil
		}
		return domain.PriceState{}, fmt.Errorf("get price: %w", err)
	}
	return state, nil
}

func minimumDeposit(ctx context.Context, tx repo_interfaces.LedgerTx) (uint64, error) {
	state, err := loadPrice(ctx, tx)
	if err != nil {
		return 0, err
	}
	return domain.MinimumDepositAmount(state.UnitPrice), nil
}
