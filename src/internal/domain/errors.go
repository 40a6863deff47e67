package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")

type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "VALIDATION"
	CategoryState         ErrorCategory = "STATE"
	CategoryAuthorization ErrorCategory = "AUTHORIZATION"
	CategoryCapacity      ErrorCategory = "CAPACITY"
)

// LedgerError is a business-rule rejection returned by the engine. Two
// LedgerErrors match under errors.Is when their codes are equal.
type LedgerError struct {
	Code     string
	Category ErrorCategory
	Message  string
}

func (e *LedgerError) Error() string {
	return e.Message
}

func (e *LedgerError) Is(target error) bool {
	t, ok := target.(*LedgerError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func newLedgerError(code string, category ErrorCategory, message string) *LedgerError {
	return &LedgerError{Code: code, Category: category, Message: message}
}

var (
	ErrInvalidAmount       = newLedgerError("INVALID_AMOUNT", CategoryValidation, "invalid amount")
	ErrInvalidLockOption   = newLedgerError("INVALID_LOCK_OPTION", CategoryValidation, "invalid lock option")
	ErrBelowMinimum        = newLedgerError("BELOW_MINIMUM", CategoryValidation, "amount is below the minimum deposit")
	ErrNameTooLong         = newLedgerError("NAME_TOO_LONG", CategoryValidation, "name exceeds 50 characters")
	ErrInvalidName         = newLedgerError("INVALID_NAME", CategoryValidation, "name must be 1 to 50 characters")
	ErrInvalidThreshold    = newLedgerError("INVALID_THRESHOLD", CategoryValidation, "threshold must be between 1 and 100")
	ErrInvalidAccount      = newLedgerError("INVALID_ACCOUNT", CategoryValidation, "account id is required")
	ErrNoDeposit           = newLedgerError("NO_DEPOSIT", CategoryState, "deposit not found")
	ErrStillLocked         = newLedgerError("STILL_LOCKED", CategoryState, "funds are still locked")
	ErrInsufficientBalance = newLedgerError("INSUFFICIENT_BALANCE", CategoryState, "Insufficient balance")
	ErrInsufficientFunds   = newLedgerError("INSUFFICIENT_FUNDS", CategoryState, "wallet balance is too low")
	ErrGroupNotFound       = newLedgerError("GROUP_NOT_FOUND", CategoryState, "group not found")
	ErrGroupClosed         = newLedgerError("GROUP_CLOSED", CategoryState, "group is closed")
	ErrAlreadyMember       = newLedgerError("ALREADY_MEMBER", CategoryState, "account is already a member")
	ErrNotMember           = newLedgerError("NOT_MEMBER", CategoryState, "account is not a member")
	ErrAlreadyClosed       = newLedgerError("ALREADY_CLOSED", CategoryState, "group is already closed")
	ErrAlreadyLocked       = newLedgerError("ALREADY_LOCKED", CategoryState, "group lock already started")
	ErrGroupNotClosed      = newLedgerError("GROUP_NOT_CLOSED", CategoryState, "group must be closed before the lock starts")
	ErrGroupNotStarted     = newLedgerError("GROUP_NOT_STARTED", CategoryState, "group lock has not started")
	ErrUnauthorized        = newLedgerError("UNAUTHORIZED", CategoryAuthorization, "caller is not the price authority")
	ErrNotCreator          = newLedgerError("NOT_CREATOR", CategoryAuthorization, "caller is not the group creator")
	ErrListFull            = newLedgerError("LIST_FULL", CategoryCapacity, "deposit list is full")
	ErrGroupFull           = newLedgerError("GROUP_FULL", CategoryCapacity, "group is full")
)

// AsLedgerError unwraps err to the engine rejection it carries, if any.
func AsLedgerError(err error) (*LedgerError, bool) {
	var le *LedgerError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
