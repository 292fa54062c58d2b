package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized indicates that no authenticated principal was resolved.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the principal's role does not permit the operation.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyFinalized indicates that a requisition is in a terminal state and
// cannot transition further.
var ErrAlreadyFinalized = errors.New("requisition already finalized")

// ErrDuplicateApproval indicates that the acting stage has already signed.
var ErrDuplicateApproval = errors.New("stage already approved")

// ErrOutOfOrder indicates an approval attempt whose preceding stages are not
// yet satisfied.
var ErrOutOfOrder = errors.New("approval out of order")

// ErrConflict indicates a concurrent modification was detected by a
// conditional update.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrInternal indicates an unexpected storage or infrastructure failure.
var ErrInternal = errors.New("internal error")

// InsufficientStockError reports a requested or approved quantity exceeding
// the catalog item's on-hand quantity. It always names the item and both
// quantities.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Unit      string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s %s, required %s %s",
		e.ItemName, e.Available.String(), e.Unit, e.Required.String(), e.Unit)
}

// DeductionError wraps the failure that aborted an inventory deduction run.
// RolledBack confirms that the triggering approval write has been reversed.
type DeductionError struct {
	Cause      error
	RolledBack bool
}

func (e *DeductionError) Error() string {
	if e.RolledBack {
		return fmt.Sprintf("approval succeeded but inventory deduction failed: %v. Approval has been rolled back", e.Cause)
	}
	return fmt.Sprintf("inventory deduction failed: %v", e.Cause)
}

func (e *DeductionError) Unwrap() error {
	return e.Cause
}
