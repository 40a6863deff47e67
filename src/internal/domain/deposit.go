package domain

import (
	"math"
	"unicode/utf8"
)

const (
	MaxNameLength       = 50
	MaxDepositsPerOwner = 100
	// MaxAmount keeps every stored amount representable as a signed
	// 64-bit column.
	MaxAmount = uint64(math.MaxInt64)
)

// Deposit is one entry in the individual ledger. Records are never deleted;
// a fully withdrawn deposit stays with Withdrawn set.
type Deposit struct {
	ID              uint64
	Owner           AccountID
	Amount          uint64
	CreatedAt       uint64
	LockExpiry      uint64
	LockOption      LockOption
	Withdrawn       bool
	WithdrawnAmount uint64
	Name            *string
}

func (d Deposit) IsLocked(now uint64) bool {
	return !d.Withdrawn && now < d.LockExpiry
}

func (d Deposit) RemainingBlocks(now uint64) uint64 {
	if d.Withdrawn {
		return 0
	}
	return RemainingBlocks(now, d.LockExpiry)
}

// Active reports whether the deposit still holds funds.
func (d Deposit) Active() bool {
	return !d.Withdrawn && d.Amount > 0
}

// LegacyDeposit is the single per-account slot of the legacy ledger. A new
// deposit overwrites it and a full withdrawal deletes it.
type LegacyDeposit struct {
	Owner      AccountID
	Amount     uint64
	CreatedAt  uint64
	LockExpiry uint64
}

func (d LegacyDeposit) IsLocked(now uint64) bool {
	return now < d.LockExpiry
}

func (d LegacyDeposit) RemainingBlocks(now uint64) uint64 {
	return RemainingBlocks(now, d.LockExpiry)
}

// DepositSummary is the per-owner aggregate built by fetching every listed
// deposit and reducing over the records.
type DepositSummary struct {
	Owner          AccountID
	DepositIDs     []uint64
	TotalBalance   uint64
	ActiveCount    int
	TotalWithdrawn uint64
}

// ValidAmount reports whether amount may be moved by the engine.
func ValidAmount(amount uint64) bool {
	return amount > 0 && amount <= MaxAmount
}

func NameLength(name string) int {
	return utf8.RuneCountInString(name)
}
