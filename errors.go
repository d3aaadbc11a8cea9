package rentroll

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("rentroll: not found")
	ErrAlreadyExists = errors.New("rentroll: already exists")
	ErrInvalidInput  = errors.New("rentroll: invalid input")

	// Customer errors
	ErrCustomerNotFound = errors.New("rentroll: customer not found")
	ErrCustomerInactive = errors.New("rentroll: customer inactive")

	// Lease errors
	ErrLeaseNotFound   = errors.New("rentroll: lease not found")
	ErrLeaseNotActive  = errors.New("rentroll: lease not active")
	ErrLeaseNoSpaces   = errors.New("rentroll: lease has no spaces")
	ErrInvalidPricing  = errors.New("rentroll: invalid flex pricing configuration")
	ErrAlreadyIndexed  = errors.New("rentroll: lease already indexed this year")
	ErrNoIndexation    = errors.New("rentroll: indexation rate not configured")
	ErrAlreadyNotified = errors.New("rentroll: expiry already notified")

	// Booking errors
	ErrBookingNotFound  = errors.New("rentroll: booking not found")
	ErrBookingBilled    = errors.New("rentroll: booking already billed")
	ErrBookingCancelled = errors.New("rentroll: booking cancelled")

	// Invoice errors
	ErrInvoiceNotFound  = errors.New("rentroll: invoice not found")
	ErrDuplicateInvoice = errors.New("rentroll: invoice already exists for period")
	ErrInvoiceNotOpen   = errors.New("rentroll: invoice not open for payment")
	ErrInvoiceNotDraft  = errors.New("rentroll: invoice already sent")
	ErrInvoiceCredited  = errors.New("rentroll: invoice already credited")
	ErrNothingToBill    = errors.New("rentroll: nothing to bill")

	// Credit errors
	ErrCreditNoteNotFound  = errors.New("rentroll: credit note not found")
	ErrCreditNoteNotIssued = errors.New("rentroll: credit note not issued")
	ErrCreditExceeded      = errors.New("rentroll: application exceeds available credit")
	ErrInvalidCreditAmount = errors.New("rentroll: invalid credit amount")

	// Job errors
	ErrJobNotFound    = errors.New("rentroll: job not found")
	ErrUnknownJobType = errors.New("rentroll: unknown job type")
	ErrJobDisabled    = errors.New("rentroll: job disabled")
	ErrJobNotDue      = errors.New("rentroll: job not due")

	// Store errors
	ErrStoreNotReady     = errors.New("rentroll: store not ready")
	ErrStoreClosed       = errors.New("rentroll: store is closed")
	ErrTransactionFailed = errors.New("rentroll: transaction failed")
	ErrMigrationFailed   = errors.New("rentroll: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rentroll: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap allows errors.Is(err, ErrInvalidInput) to match validation errors.
func (e ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// MultiError collects the per-item failures of a batch run. A generation
// pass keeps going when one customer fails; the caller gets every failure.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "rentroll: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("rentroll: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrLeaseNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrInvoiceNotFound) ||
		errors.Is(err, ErrCreditNoteNotFound) ||
		errors.Is(err, ErrJobNotFound)
}

// IsValidation returns true if the error is a validation or bad-input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidPricing) ||
		errors.Is(err, ErrInvalidCreditAmount)
}

// IsSkip returns true for conditions that mean "already done", where a
// generation pass records a skip rather than a failure.
func IsSkip(err error) bool {
	return errors.Is(err, ErrDuplicateInvoice) ||
		errors.Is(err, ErrAlreadyIndexed) ||
		errors.Is(err, ErrAlreadyNotified) ||
		errors.Is(err, ErrBookingBilled)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
