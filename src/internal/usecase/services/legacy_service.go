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

var _ service_interfaces.LegacyService = (*LegacyService)(nil)

// LegacyService keeps exactly one deposit slot per account.
type LegacyService struct {
	store   repo_interfaces.LedgerStore
	clock   domain.Clock
	metrics *metrics.Collector
}

func NewLegacyService(store repo_interfaces.LedgerStore, clock domain.Clock, collector *metrics.Collector) *LegacyService {
	return &LegacyService{store: store, clock: clock, metrics: collector}
}

// Deposit writes a fresh slot for owner. Any previous slot is replaced, not
// accumulated; its funds remain in custody.
func (s *LegacyService) Deposit(ctx context.Context, owner domain.AccountID, amount uint64, option domain.LockOption) (deposited uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("legacy_deposit", start, err) }()

	logger.Info("legacy service deposit request", logger.Fields{
		"owner":      owner,
		"amount":     amount,
		"lockOption": option,
	})

	if !owner.Valid() {
		return 0, domain.ErrInvalidAccount
	}
	if !domain.ValidAmount(amount) {
		return 0, domain.ErrInvalidAmount
	}
	duration := domain.DurationOf(option)
	if duration == 0 {
		return 0, domain.ErrInvalidLockOption
	}

	var now uint64
	var dropped uint64
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		minimum, err := minimumDeposit(ctx, tx)
		if err != nil {
			return err
		}
		if amount < minimum {
			return domain.ErrBelowMinimum
		}

		previous, err := tx.GetLegacyDeposit(ctx, owner)
		switch {
		case err == nil:
			dropped = previous.Amount
		case !errors.Is(err, domain.ErrRecordNotFound):
			return fmt.Errorf("get legacy deposit: %w", err)
		}

		if err := debitWallet(ctx, tx, owner, amount, now, domain.ReferenceLegacy); err != nil {
			return err
		}
		return tx.SaveLegacyDeposit(ctx, domain.LegacyDeposit{
			Owner:      owner,
			Amount:     amount,
			CreatedAt:  now,
			LockExpiry: domain.LockExpiry(now, duration),
		})
	})
	if err != nil {
		logger.Error("legacy service deposit failed", err, logger.Fields{
			"owner":  owner,
			"amount": amount,
		})
		return 0, err
	}

	if dropped > 0 {
		logger.Warn("legacy service deposit overwrote existing slot", logger.Fields{
			"owner":         owner,
			"droppedAmount": dropped,
		})
	}
	s.metrics.Locked(metrics.LedgerLegacy, amount)
	logger.Info("legacy service deposit success", logger.Fields{
		"owner":  owner,
		"amount": amount,
	})
	return amount, nil
}

// Withdraw releases amount from the slot; the slot is deleted once empty.
func (s *LegacyService) Withdraw(ctx context.Context, owner domain.AccountID, amount uint64) (withdrawn uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("legacy_withdraw", start, err) }()

	logger.Info("legacy service withdraw request", logger.Fields{
		"owner":  owner,
		"amount": amount,
	})

	if amount == 0 {
		return 0, domain.ErrInvalidAmount
	}

	var now uint64
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		deposit, err := tx.GetLegacyDeposit(ctx, owner)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrNoDeposit
			}
			return fmt.Errorf("get legacy deposit: %w", err)
		}
		if now < deposit.LockExpiry {
			return domain.ErrStillLocked
		}
		if amount > deposit.Amount {
			return domain.ErrInsufficientBalance
		}

		if err := creditWallet(ctx, tx, owner, amount, now, domain.ReferenceLegacy); err != nil {
			return err
		}

		deposit.Amount -= amount
		if deposit.Amount == 0 {
			return tx.DeleteLegacyDeposit(ctx, owner)
		}
		return tx.SaveLegacyDeposit(ctx, deposit)
	})
	if err != nil {
		logger.Error("legacy service withdraw failed", err, logger.Fields{
			"owner":  owner,
			"amount": amount,
		})
		return 0, err
	}

	s.metrics.Released(metrics.LedgerLegacy, amount)
	logger.Info("legacy service withdraw success", logger.Fields{
		"owner":  owner,
		"amount": amount,
	})
	return amount, nil
}

func (s *LegacyService) GetLegacyDeposit(ctx context.Context, owner domain.AccountID) (domain.LegacyDeposit, bool, error) {
	var deposit domain.LegacyDeposit
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		var err error
		deposit, err = tx.GetLegacyDeposit(ctx, owner)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.LegacyDeposit{}, false, nil
		}
		logger.Error("legacy service get deposit failed", err, logger.Fields{"owner": owner})
		return domain.LegacyDeposit{}, false, err
	}
	return deposit, true, nil
}

func (s *LegacyService) RemainingBlocks(ctx context.Context, owner domain.AccountID) (uint64, error) {
	deposit, ok, err := s.GetLegacyDeposit(ctx, owner)
	if err != nil || !ok {
		return 0, err
	}
	return deposit.RemainingBlocks(s.clock.BlockHeight()), nil
}
