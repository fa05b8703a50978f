// Package generator implements the invoice generation workflow: resolving a
// client's billable projects, composing line items and totals, and
// persisting the finished invoice atomically.
package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrValidation is the root of all input validation failures. Specific
// failures wrap it so handlers can map the whole family to one response
// class.
var ErrValidation = errors.New("invalid invoice input")

var (
	ErrNoLineItems      = fmt.Errorf("%w: invoice needs at least one line item", ErrValidation)
	ErrNonPositiveTotal = fmt.Errorf("%w: invoice total must be positive", ErrValidation)
	ErrNegativeAmount   = fmt.Errorf("%w: line item amount must not be negative", ErrValidation)
	ErrInvalidTaxRate   = fmt.Errorf("%w: tax rate must be between 0 and 100", ErrValidation)
	ErrNegativeDiscount = fmt.Errorf("%w: discount must not be negative", ErrValidation)
	ErrInvalidStatus    = fmt.Errorf("%w: new invoices are created as draft or sent", ErrValidation)
)

// NotBillableError reports selected projects that are not (or no longer)
// billable: not completed, or already consumed by a sent or paid invoice.
// The persister rejects rather than silently dropping them so the caller can
// re-prompt.
type NotBillableError struct {
	ProjectIDs []uuid.UUID
}

func (e *NotBillableError) Error() string {
	return fmt.Sprintf("projects not billable: %v", e.ProjectIDs)
}

// ManualItem is a free-text, user-entered line item.
type ManualItem struct {
	Description string
	Amount      decimal.Decimal
}

// Settings carries the invoice-level inputs to composition.
type Settings struct {
	TaxRate      decimal.Decimal // percentage, 0-100
	Discount     decimal.Decimal // absolute currency amount
	DueDate      *time.Time
	PaymentTerms int // days
	Currency     string
	Notes        string
}

// CandidateClient is a client eligible to appear in the generator UI: it has
// at least one completed project.
type CandidateClient struct {
	ID                uuid.UUID
	Name              string
	Company           string
	CompletedProjects int
}
