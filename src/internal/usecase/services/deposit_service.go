package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/logger"
	"github.com/api-sage/timelock-savings/src/internal/metrics"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.DepositService = (*DepositService)(nil)

// DepositService is the individual deposit ledger: many independent
// time-locked deposits per owner.
type DepositService struct {
	store   repo_interfaces.LedgerStore
	clock   domain.Clock
	metrics *metrics.Collector
}

func NewDepositService(store repo_interfaces.LedgerStore, clock domain.Clock, collector *metrics.Collector) *DepositService {
	return &DepositService{store: store, clock: clock, metrics: collector}
}

func (s *DepositService) CreateDeposit(ctx context.Context, owner domain.AccountID, amount uint64, option domain.LockOption, name *string) (id uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("create_deposit", start, err) }()

	logger.Info("deposit service create deposit request", logger.Fields{
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
	name = normalizeName(name)

	var now uint64
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		minimum, err := minimumDeposit(ctx, tx)
		if err != nil {
			return err
		}
		if amount < minimum {
			return domain.ErrBelowMinimum
		}
		if name != nil && domain.NameLength(*name) > domain.MaxNameLength {
			return domain.ErrNameTooLong
		}

		ids, err := tx.DepositIDs(ctx, owner)
		if err != nil {
			return fmt.Errorf("list deposit ids: %w", err)
		}
		if len(ids) >= domain.MaxDepositsPerOwner {
			return domain.ErrListFull
		}
		if err := ensureFunds(ctx, tx, owner, amount); err != nil {
			return err
		}

		id, err = tx.NextDepositID(ctx)
		if err != nil {
			return fmt.Errorf("allocate deposit id: %w", err)
		}
		if err := debitWallet(ctx, tx, owner, amount, now, depositReference(id)); err != nil {
			return err
		}

		deposit := domain.Deposit{
			ID:         id,
			Owner:      owner,
			Amount:     amount,
			CreatedAt:  now,
			LockExpiry: domain.LockExpiry(now, duration),
			LockOption: option,
			Name:       name,
		}
		if err := tx.SaveDeposit(ctx, deposit); err != nil {
			return fmt.Errorf("save deposit: %w", err)
		}
		if err := tx.AppendDepositID(ctx, owner, id); err != nil {
			return fmt.Errorf("append deposit id: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("deposit service create deposit failed", err, logger.Fields{
			"owner":  owner,
			"amount": amount,
		})
		return 0, err
	}

	s.metrics.Locked(metrics.LedgerIndividual, amount)
	logger.Info("deposit service create deposit success", logger.Fields{
		"owner":      owner,
		"depositId":  id,
		"lockExpiry": domain.LockExpiry(now, duration),
	})
	return id, nil
}

// WithdrawDeposit releases amount from an unlocked deposit. Withdrawing the
// whole remaining amount marks the record withdrawn; it is kept for history.
func (s *DepositService) WithdrawDeposit(ctx context.Context, owner domain.AccountID, depositID uint64, amount uint64) (withdrawn uint64, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("withdraw_deposit", start, err) }()

	logger.Info("deposit service withdraw deposit request", logger.Fields{
		"owner":     owner,
		"depositId": depositID,
		"amount":    amount,
	})

	var now uint64
	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now = s.clock.BlockHeight()
		deposit, err := tx.GetDeposit(ctx, owner, depositID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrNoDeposit
			}
			return fmt.Errorf("get deposit: %w", err)
		}
		if deposit.Withdrawn {
			return domain.ErrNoDeposit
		}
		if amount == 0 {
			return domain.ErrInvalidAmount
		}
		if now < deposit.LockExpiry {
			return domain.ErrStillLocked
		}
		if amount > deposit.Amount {
			return domain.ErrInsufficientBalance
		}

		if err := creditWallet(ctx, tx, owner, amount, now, depositReference(depositID)); err != nil {
			return err
		}

		deposit.Amount -= amount
		deposit.WithdrawnAmount += amount
		if deposit.Amount == 0 {
			deposit.Withdrawn = true
		}
		if err := tx.SaveDeposit(ctx, deposit); err != nil {
			return fmt.Errorf("save deposit: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("deposit service withdraw deposit failed", err, logger.Fields{
			"owner":     owner,
			"depositId": depositID,
			"amount":    amount,
		})
		return 0, err
	}

	s.metrics.Released(metrics.LedgerIndividual, amount)
	logger.Info("deposit service withdraw deposit success", logger.Fields{
		"owner":     owner,
		"depositId": depositID,
		"amount":    amount,
	})
	return amount, nil
}

func (s *DepositService) ListDepositIDs(ctx context.Context, owner domain.AccountID) ([]uint64, error) {
	var ids []uint64
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		var err error
		ids, err = tx.DepositIDs(ctx, owner)
		return err
	})
	if err != nil {
		logger.Error("deposit service list deposit ids failed", err, logger.Fields{"owner": owner})
		return nil, err
	}
	return ids, nil
}

// GetDeposit returns the record and whether it exists.
func (s *DepositService) GetDeposit(ctx context.Context, owner domain.AccountID, depositID uint64) (domain.Deposit, bool, error) {
	var deposit domain.Deposit
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		var err error
		deposit, err = tx.GetDeposit(ctx, owner, depositID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.Deposit{}, false, nil
		}
		logger.Error("deposit service get deposit failed", err, logger.Fields{
			"owner":     owner,
			"depositId": depositID,
		})
		return domain.Deposit{}, false, err
	}
	return deposit, true, nil
}

// IsLocked is false for unknown or withdrawn deposits.
func (s *DepositService) IsLocked(ctx context.Context, owner domain.AccountID, depositID uint64) (bool, error) {
	deposit, ok, err := s.GetDeposit(ctx, owner, depositID)
	if err != nil || !ok {
		return false, err
	}
	return deposit.IsLocked(s.clock.BlockHeight()), nil
}

func (s *DepositService) RemainingBlocks(ctx context.Context, owner domain.AccountID, depositID uint64) (uint64, error) {
	deposit, ok, err := s.GetDeposit(ctx, owner, depositID)
	if err != nil || !ok {
		return 0, err
	}
	return deposit.RemainingBlocks(s.clock.BlockHeight()), nil
}

// ListDeposits fetches every deposit listed for owner in one consistent read.
func (s *DepositService) ListDeposits(ctx context.Context, owner domain.AccountID) ([]domain.Deposit, error) {
	var deposits []domain.Deposit
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		ids, err := tx.DepositIDs(ctx, owner)
		if err != nil {
			return fmt.Errorf("list deposit ids: %w", err)
		}
		deposits = make([]domain.Deposit, 0, len(ids))
		for _, id := range ids {
			deposit, err := tx.GetDeposit(ctx, owner, id)
			if err != nil {
				if errors.Is(err, domain.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("get deposit %d: %w", id, err)
			}
			deposits = append(deposits, deposit)
		}
		return nil
	})
	if err != nil {
		logger.Error("deposit service list deposits failed", err, logger.Fields{"owner": owner})
		return nil, err
	}
	return deposits, nil
}

func (s *DepositService) TotalBalance(ctx context.Context, owner domain.AccountID) (uint64, error) {
	deposits, err := s.ListDeposits(ctx, owner)
	if err != nil {
		return 0, err
	}
	return SumActive(deposits), nil
}

func (s *DepositService) ActiveDepositCount(ctx context.Context, owner domain.AccountID) (int, error) {
	deposits, err := s.ListDeposits(ctx, owner)
	if err != nil {
		return 0, err
	}
	return CountActive(deposits), nil
}

func (s *DepositService) Summary(ctx context.Context, owner domain.AccountID) (domain.DepositSummary, error) {
	deposits, err := s.ListDeposits(ctx, owner)
	if err != nil {
		return domain.DepositSummary{}, err
	}

	summary := domain.DepositSummary{
		Owner:        owner,
		DepositIDs:   make([]uint64, 0, len(deposits)),
		TotalBalance: SumActive(deposits),
		ActiveCount:  CountActive(deposits),
	}
	for _, d := range deposits {
		summary.DepositIDs = append(summary.DepositIDs, d.ID)
		summary.TotalWithdrawn += d.WithdrawnAmount
	}
	return summary, nil
}

// SumActive adds the remaining amount of every deposit not yet withdrawn.
func SumActive(deposits []domain.Deposit) uint64 {
	var total uint64
	for _, d := range deposits {
		if d.Active() {
			total += d.Amount
		}
	}
	return total
}

func CountActive(deposits []domain.Deposit) int {
	count := 0
	for _, d := range deposits {
		if d.Active() {
			count++
		}
	}
	return count
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
