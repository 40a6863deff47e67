package models

import (
	"errors"
	"strings"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

// UpdatePriceRequest accepts either a dollar string ("0.50") or the raw
// 6-decimal unitPrice, but not both.
type UpdatePriceRequest struct {
	Caller    string `json:"caller"`
	Price     string `json:"price,omitempty"`
	UnitPrice uint64 `json:"unitPrice,omitempty"`
}

func (r UpdatePriceRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Caller) == "" {
		errs = append(errs, "caller is required")
	}
	hasPrice := strings.TrimSpace(r.Price) != ""
	if hasPrice == (r.UnitPrice != 0) {
		errs = append(errs, "exactly one of price or unitPrice is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// ResolveUnitPrice returns the requested price at 6-decimal scale.
func (r UpdatePriceRequest) ResolveUnitPrice() (uint64, error) {
	if r.UnitPrice != 0 {
		return r.UnitPrice, nil
	}
	return domain.ParseUSD(r.Price)
}

type TransferAuthorityRequest struct {
	Caller       string `json:"caller"`
	NewAuthority string `json:"newAuthority"`
}

func (r TransferAuthorityRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Caller) == "" {
		errs = append(errs, "caller is required")
	}
	if strings.TrimSpace(r.NewAuthority) == "" {
		errs = append(errs, "newAuthority is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type PriceResponse struct {
	UnitPrice             uint64 `json:"unitPrice"`
	UnitPriceUSD          string `json:"unitPriceUsd"`
	Authority             string `json:"authority"`
	LastUpdate            uint64 `json:"lastUpdate"`
	MinimumDeposit        uint64 `json:"minimumDeposit"`
	MinimumDepositDisplay string `json:"minimumDepositDisplay"`
}

func NewPriceResponse(p domain.PriceState) PriceResponse {
	minimum := domain.MinimumDepositAmount(p.UnitPrice)
	return PriceResponse{
		UnitPrice:             p.UnitPrice,
		UnitPriceUSD:          domain.FormatUSD(p.UnitPrice),
		Authority:             p.Authority.String(),
		LastUpdate:            p.LastUpdate,
		MinimumDeposit:        minimum,
		MinimumDepositDisplay: domain.FormatMicro(minimum),
	}
}
