package domain

import "strings"

// AccountID is an opaque, externally supplied account identifier such as a
// public-key-derived address. The engine never generates one.
type AccountID string

func NewAccountID(raw string) AccountID {
	return AccountID(strings.TrimSpace(raw))
}

func (a AccountID) Valid() bool {
	return strings.TrimSpace(string(a)) != ""
}

func (a AccountID) String() string {
	return string(a)
}
