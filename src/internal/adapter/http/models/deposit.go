package models

import (
	"errors"
	"strings"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

type CreateDepositRequest struct {
	Owner      string  `json:"owner"`
	Amount     uint64  `json:"amount"`
	LockOption uint8   `json:"lockOption"`
	Name       *string `json:"name,omitempty"`
}

func (r CreateDepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Owner) == "" {
		errs = append(errs, "owner is required")
	}
	if r.Amount == 0 {
		errs = append(errs, "amount must be greater than zero")
	}
	if r.LockOption == 0 {
		errs = append(errs, "lockOption is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type WithdrawDepositRequest struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

func (r WithdrawDepositRequest) Validate() error {
	if strings.TrimSpace(r.Owner) == "" {
		return errors.New("owner is required")
	}
	return nil
}

type CreateDepositResponse struct {
	ID         uint64 `json:"id"`
	Owner      string `json:"owner"`
	Amount     uint64 `json:"amount"`
	LockExpiry uint64 `json:"lockExpiry"`
}

type DepositResponse struct {
	ID              uint64  `json:"id"`
	Owner           string  `json:"owner"`
	Amount          uint64  `json:"amount"`
	AmountDisplay   string  `json:"amountDisplay"`
	CreatedAt       uint64  `json:"createdAt"`
	LockExpiry      uint64  `json:"lockExpiry"`
	LockOption      uint8   `json:"lockOption"`
	LockLabel       string  `json:"lockLabel"`
	Withdrawn       bool    `json:"withdrawn"`
	WithdrawnAmount uint64  `json:"withdrawnAmount"`
	Name            *string `json:"name,omitempty"`
	Locked          bool    `json:"locked"`
	RemainingBlocks uint64  `json:"remainingBlocks"`
}

func NewDepositResponse(d domain.Deposit, now uint64) DepositResponse {
	return DepositResponse{
		ID:              d.ID,
		Owner:           d.Owner.String(),
		Amount:          d.Amount,
		AmountDisplay:   domain.FormatMicro(d.Amount),
		CreatedAt:       d.CreatedAt,
		LockExpiry:      d.LockExpiry,
		LockOption:      uint8(d.LockOption),
		LockLabel:       d.LockOption.Label(),
		Withdrawn:       d.Withdrawn,
		WithdrawnAmount: d.WithdrawnAmount,
		Name:            d.Name,
		Locked:          d.IsLocked(now),
		RemainingBlocks: d.RemainingBlocks(now),
	}
}

type DepositSummaryResponse struct {
	Owner                 string   `json:"owner"`
	DepositIDs            []uint64 `json:"depositIds"`
	TotalBalance          uint64   `json:"totalBalance"`
	TotalBalanceDisplay   string   `json:"totalBalanceDisplay"`
	ActiveCount           int      `json:"activeCount"`
	TotalWithdrawn        uint64   `json:"totalWithdrawn"`
	TotalWithdrawnDisplay string   `json:"totalWithdrawnDisplay"`
}

func NewDepositSummaryResponse(s domain.DepositSummary) DepositSummaryResponse {
	return DepositSummaryResponse{
		Owner:                 s.Owner.String(),
		DepositIDs:            s.DepositIDs,
		TotalBalance:          s.TotalBalance,
		TotalBalanceDisplay:   domain.FormatMicro(s.TotalBalance),
		ActiveCount:           s.ActiveCount,
		TotalWithdrawn:        s.TotalWithdrawn,
		TotalWithdrawnDisplay: domain.FormatMicro(s.TotalWithdrawn),
	}
}

type AmountResponse struct {
	Amount        uint64 `json:"amount"`
	AmountDisplay string `json:"amountDisplay"`
}

func NewAmountResponse(amount uint64) AmountResponse {
	return AmountResponse{Amount: amount, AmountDisplay: domain.FormatMicro(amount)}
}
