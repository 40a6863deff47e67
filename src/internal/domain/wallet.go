package domain

import "time"

type LedgerEntryType string

const (
	LedgerEntryDebit  LedgerEntryType = "DEBIT"
	LedgerEntryCredit LedgerEntryType = "CREDIT"
)

// Wallet is an account's spendable balance outside the vaults. Debits move
// funds into custody and credits return them.
type Wallet struct {
	Account   AccountID
	Balance   uint64
	UpdatedAt uint64
}

// WalletEntry is one journal line for a wallet movement.
type WalletEntry struct {
	ID        string
	Account   AccountID
	EntryType LedgerEntryType
	Amount    uint64
	Block     uint64
	Reference string
	CreatedAt time.Time
}

const (
	ReferenceFunding = "funding"
	ReferenceLegacy  = "legacy"
)
