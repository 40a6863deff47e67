package models

import (
	"errors"
	"strings"
	"time"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type FundWalletRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

func (r FundWalletRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Account) == "" {
		errs = append(errs, "account is required")
	}
	if r.Amount == 0 {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type WalletEntryResponse struct {
	ID        string `json:"id"`
	EntryType string `json:"entryType"`
	Amount    uint64 `json:"amount"`
	Block     uint64 `json:"block"`
	Reference string `json:"reference"`
	CreatedAt string `json:"createdAt"`
}

type WalletResponse struct {
	Account        string                `json:"account"`
	Balance        uint64                `json:"balance"`
	BalanceDisplay string                `json:"balanceDisplay"`
	UpdatedAt      uint64                `json:"updatedAt"`
	Entries        []WalletEntryResponse `json:"entries,omitempty"`
}

func NewWalletResponse(w domain.Wallet, entries []domain.WalletEntry) WalletResponse {
	resp := WalletResponse{
		Account:        w.Account.String(),
		Balance:        w.Balance,
		BalanceDisplay: domain.FormatMicro(w.Balance),
		UpdatedAt:      w.UpdatedAt,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, WalletEntryResponse{
			ID:        e.ID,
			EntryType: string(e.EntryType),
			Amount:    e.Amount,
			Block:     e.Block,
			Reference: e.Reference,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
