package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/timelock-savings/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/timelock-savings/src/internal/domain"
	"github.com/api-sage/timelock-savings/src/internal/logger"
	"github.com/api-sage/timelock-savings/src/internal/metrics"
	"github.com/api-sage/timelock-savings/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.WalletService = (*WalletService)(nil)

// WalletService manages the spendable balances that vault operations debit
// and credit.
type WalletService struct {
	store   repo_interfaces.LedgerStore
	clock   domain.Clock
	metrics *metrics.Collector
}

func NewWalletService(store repo_interfaces.LedgerStore, clock domain.Clock, collector *metrics.Collector) *WalletService {
	return &WalletService{store: store, clock: clock, metrics: collector}
}

// FundWallet tops up an account's spendable balance.
func (s *WalletService) FundWallet(ctx context.Context, account domain.AccountID, amount uint64) (wallet domain.Wallet, err error) {
	start := time.Now()
	defer func() { s.metrics.Observe("fund_wallet", start, err) }()

	logger.Info("wallet service fund wallet request", logger.Fields{
		"account": account,
		"amount":  amount,
	})

	if !account.Valid() {
		return domain.Wallet{}, domain.ErrInvalidAccount
	}
	if !domain.ValidAmount(amount) {
		return domain.Wallet{}, domain.ErrInvalidAmount
	}

	err = s.store.Update(ctx, func(tx repo_interfaces.LedgerTx) error {
		now := s.clock.BlockHeight()
		if err := creditWallet(ctx, tx, account, amount, now, domain.ReferenceFunding); err != nil {
			return err
		}
		wallet, err = tx.GetWallet(ctx, account)
		return err
	})
	if err != nil {
		logger.Error("wallet service fund wallet failed", err, logger.Fields{
			"account": account,
			"amount":  amount,
		})
		return domain.Wallet{}, err
	}

	logger.Info("wallet service fund wallet success", logger.Fields{
		"account": account,
		"balance": wallet.Balance,
	})
	return wallet, nil
}

func (s *WalletService) GetWallet(ctx context.Context, account domain.AccountID) (domain.Wallet, error) {
	var wallet domain.Wallet
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		var err error
		wallet, err = tx.GetWallet(ctx, account)
		return err
	})
	if err != nil {
		logger.Error("wallet service get wallet failed", err, logger.Fields{"account": account})
		return domain.Wallet{}, err
	}
	return wallet, nil
}

func (s *WalletService) ListEntries(ctx context.Context, account domain.AccountID) ([]domain.WalletEntry, error) {
	var entries []domain.WalletEntry
	err := s.store.View(ctx, func(tx repo_interfaces.LedgerTx) error {
		var err error
		entries, err = tx.Entries(ctx, account)
		return err
	})
	if err != nil {
		logger.Error("wallet service list entries failed", err, logger.Fields{"account": account})
		return nil, err
	}
	return entries, nil
}

// ensureFunds fails before any write when the wallet cannot cover amount.
func ensureFunds(ctx context.Context, tx repo_interfaces.LedgerTx, account domain.AccountID, amount uint64) error {
	wallet, err := tx.GetWallet(ctx, account)
	if err != nil {
		return fmt.Errorf("get wallet: %w", err)
	}
	if wallet.Balance < amount {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func debitWallet(ctx context.Context, tx repo_interfaces.LedgerTx, account domain.AccountID, amount uint64, block uint64, reference string) error {
	wallet, err := tx.GetWallet(ctx, account)
	if err != nil {
		return fmt.Errorf("get wallet: %w", err)
	}
	if wallet.Balance < amount {
		return domain.ErrInsufficientFunds
	}

	wallet.Balance -= amount
	wallet.UpdatedAt = block
	if err := tx.SaveWallet(ctx, wallet); err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}
	return appendEntry(ctx, tx, account, domain.LedgerEntryDebit, amount, block, reference)
}

func creditWallet(ctx context.Context, tx repo_interfaces.LedgerTx, account domain.AccountID, amount uint64, block uint64, reference string) error {
	wallet, err := tx.GetWallet(ctx, account)
	if err != nil {
		return fmt.Errorf("get wallet: %w", err)
	}
	if wallet.Balance > domain.MaxAmount-amount {
		return domain.ErrInvalidAmount
	}

	wallet.Account = account
	wallet.Balance += amount
	wallet.UpdatedAt = block
	if err := tx.SaveWallet(ctx, wallet); err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}
	return appendEntry(ctx, tx, account, domain.LedgerEntryCredit, amount, block, reference)
}

func appendEntry(ctx context.Context, tx repo_interfaces.LedgerTx, account domain.AccountID, entryType domain.LedgerEntryType, amount uint64, block uint64, reference string) error {
	entry := domain.WalletEntry{
		ID:        uuid.NewString(),
		Account:   account,
		EntryType: entryType,
		Amount:    amount,
		Block:     block,
		Reference: reference,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.AppendEntry(ctx, entry); err != nil {
		return fmt.Errorf("append wallet entry: %w", err)
	}
	return nil
}

func depositReference(id uint64) string {
	return fmt.Sprintf("deposit:%d", id)
}

func groupReference(id uint64) string {
	return fmt.Sprintf("group:%d", id)
}
