package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMicro renders a micro-unit amount in display units with six
// decimals.
func FormatMicro(amount uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -6).StringFixed(6)
}

// FormatUSD renders a 6-decimal fixed-point price as dollars.
func FormatUSD(price uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(price), -6).StringFixed(2)
}

// ParseUSD converts a dollar amount such as "0.50" into 6-decimal fixed
// point. Digits past the sixth decimal are rejected.
func ParseUSD(raw string) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("price must be numeric: %w", err)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("price must be greater than zero")
	}

	scaled := d.Shift(6)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("price supports at most 6 decimal places")
	}
	if scaled.GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, fmt.Errorf("price is too large")
	}

	return uint64(scaled.IntPart()), nil
}
