package domain

const (
	PriceScale = 1_000_000
	// MinUSD is the minimum deposit value, two dollars at 6-decimal scale.
	MinUSD                 = 2_000_000
	MinUnitPrice           = 10_000
	MaxUnitPrice           = 100_000_000
	DefaultUnitPrice       = 500_000
	FallbackMinimumDeposit = 4_000_000
)

// PriceState is the oracle singleton. UnitPrice is USD per display unit at
// 6-decimal scale and only Authority may change it.
type PriceState struct {
	UnitPrice  uint64
	Authority  AccountID
	LastUpdate uint64
}

// MinimumDepositAmount converts MinUSD to micro-units at price with floor
// division. A zero price yields FallbackMinimumDeposit.
func MinimumDepositAmount(price uint64) uint64 {
	if price == 0 {
		return FallbackMinimumDeposit
	}
	return MinUSD * PriceScale / price
}

func ValidUnitPrice(price uint64) bool {
	return price >= MinUnitPrice && price <= MaxUnitPrice
}
