package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when an invoice does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("invoice not found")

	// ErrImmutable is returned for any mutation attempt against a paid
	// invoice.
	ErrImmutable = errors.New("paid invoice cannot be modified")

	// ErrNumberTaken is returned when the generated invoice number already
	// exists. Callers regenerate and retry.
	ErrNumberTaken = errors.New("invoice number already in use")

	// ErrIllegalTransition is returned for a status change the state machine
	// does not allow.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// LineItemKind distinguishes project-derived items from manually entered
// ones.
type LineItemKind string

const (
	ItemProject LineItemKind = "project"
	ItemManual  LineItemKind = "manual"
)

// LineItem is one billable entry on an invoice. Project-derived items carry
// the originating project's id; manual items do not.
type LineItem struct {
	ID          uuid.UUID
	Position    int
	Kind        LineItemKind
	ProjectID   *uuid.UUID
	Description string
	Amount      decimal.Decimal
}

// Invoice is the persisted billing document. Amount is the final total after
// tax and discount, not the raw subtotal.
type Invoice struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ClientID     uuid.UUID
	ProjectID    *uuid.UUID // primary project, nil for manual-only invoices
	Number       string
	Status       Status
	Amount       decimal.Decimal
	Subtotal     decimal.Decimal
	TaxRate      decimal.Decimal
	TaxAmount    decimal.Decimal
	Discount     decimal.Decimal
	DueDate      *time.Time
	PaymentTerms int // days
	Currency     string
	Notes        string
	Items        []LineItem
	PaidAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// FlattenedItems renders the line items as newline-separated
// "description: amount" pairs for display. Line items are stored as rows,
// never as this text.
func (inv *Invoice) FlattenedItems() string {
	lines := make([]string, len(inv.Items))
	for i, item := range inv.Items {
		lines[i] = fmt.Sprintf("%s: %s", item.Description, item.Amount)
	}

	return strings.Join(lines, "\n")
}
