package models

import (
	"errors"
	"strings"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type LegacyDepositRequest struct {
	Owner      string `json:"owner"`
	Amount     uint64 `json:"amount"`
	LockOption uint8  `json:"lockOption"`
}

func (r LegacyDepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Owner) == "" {
		errs = append(errs, "owner is required")
	}
	if r.LockOption == 0 {
		errs = append(errs, "lockOption is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type LegacyWithdrawRequest struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

func (r LegacyWithdrawRequest) Validate() error {
	if strings.TrimSpace(r.Owner) == "" {
		return errors.New("owner is required")
	}
	return nil
}

type LegacyDepositResponse struct {
	Owner           string `json:"owner"`
	Amount          uint64 `json:"amount"`
	AmountDisplay   string `json:"amountDisplay"`
	CreatedAt       uint64 `json:"createdAt"`
	LockExpiry      uint64 `json:"lockExpiry"`
	Locked          bool   `json:"locked"`
	RemainingBlocks uint64 `json:"remainingBlocks"`
}

func NewLegacyDepositResponse(d domain.LegacyDeposit, now uint64) LegacyDepositResponse {
	return LegacyDepositResponse{
		Owner:           d.Owner.String(),
		Amount:          d.Amount,
		AmountDisplay:   domain.FormatMicro(d.Amount),
		CreatedAt:       d.CreatedAt,
		LockExpiry:      d.LockExpiry,
		Locked:          d.IsLocked(now),
		RemainingBlocks: d.RemainingBlocks(now),
	}
}
