package domain

import (
	"errors"
	"fmt"
)

// Errors shared across the back-office aggregates
var (
	ErrNoItems               = errors.New("order must have at least one item")
	ErrInvalidProductType    = errors.New("invalid product type")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrOrderCancelled        = errors.New("order has been cancelled")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrPartyNotFound         = errors.New("party not found in order dispatches")
	ErrPartiesNotReceived    = errors.New("cannot receive at warehouse: not all parties have delivered")
	ErrPaymentExceedsBalance = errors.New("cannot record payment: amount exceeds outstanding balance")
	ErrChallanNotPayable     = errors.New("cannot record payment on a cancelled or converted challan")
	ErrChallanNotPaid        = errors.New("cannot convert challan to invoice before full payment")
	ErrChallanConverted      = errors.New("cannot cancel a converted challan")
	ErrVersionConflict       = errors.New("resource was modified concurrently")
	ErrInvalidTransaction    = errors.New("invalid stock transaction")
	ErrInvalidRate           = errors.New("invalid commission rate")
	ErrDistributionSum       = errors.New("invalid distribution: percentages must sum to 100")
	ErrNoDistribution        = errors.New("invalid distribution: at least one share is required")
)

// GuardViolation is returned when a state machine transition is attempted
// from a status other than the one its guard requires. The order is left
// unmodified.
type GuardViolation struct {
	Transition string
	Current    Status
	Required   Status
}

func (e *GuardViolation) Error() string {
	return fmt.Sprintf("transition %s requires status %q, current status is %q", e.Transition, e.Required, e.Current)
}

// IsGuardViolation reports whether err is a GuardViolation
func IsGuardViolation(err error) bool {
	var gv *GuardViolation
	return errors.As(err, &gv)
}

func guardViolation(transition string, current, required Status) error {
	return &GuardViolation{Transition: transition, Current: current, Required: required}
}
