package generator

import (
	"github.com/shopspring/decimal"

	"github.com/mkrausse/billable/internal/invoice"
	"github.com/mkrausse/billable/internal/project"
)

var oneHundred = decimal.NewFromInt(100)

// Composition is the output of Compose: the ordered invoice body and its
// totals, ready for persistence.
type Composition struct {
	Items     []invoice.LineItem
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

// Compose merges project-derived and manual line items into one ordered
// invoice body and derives subtotal, tax, and total. It is a pure function:
// no side effects, no partial results on failure.
//
// Project items come first in selection order, manual items follow in entry
// order. tax = subtotal * rate / 100, rounded to cents;
// total = subtotal + tax - discount.
func Compose(projects []*project.Project, manual []ManualItem, settings Settings) (*Composition, error) {
	if settings.TaxRate.IsNegative() || settings.TaxRate.GreaterThan(oneHundred) {
		return nil, ErrInvalidTaxRate
	}

	if settings.Discount.IsNegative() {
		return nil, ErrNegativeDiscount
	}

	if len(projects) == 0 && len(manual) == 0 {
		return nil, ErrNoLineItems
	}

	items := make([]invoice.LineItem, 0, len(projects)+len(manual))
	subtotal := decimal.Zero

	for _, p := range projects {
		amount := p.TotalAmount

		items = append(items, invoice.LineItem{
			Position:    len(items),
			Kind:        invoice.ItemProject,
			ProjectID:   &p.ID,
			Description: p.Name,
			Amount:      amount,
		})

		subtotal = subtotal.Add(amount)
	}

	for _, m := range manual {
		if m.Amount.IsNegative() {
			return nil, ErrNegativeAmount
		}

		items = append(items, invoice.LineItem{
			Position:    len(items),
			Kind:        invoice.ItemManual,
			Description: m.Description,
			Amount:      m.Amount,
		})

		subtotal = subtotal.Add(m.Amount)
	}

	taxAmount := subtotal.Mul(settings.TaxRate).Div(oneHundred).Round(2)
	total := subtotal.Add(taxAmount).Sub(settings.Discount).Round(2)

	if !total.IsPositive() {
		return nil, ErrNonPositiveTotal
	}

	return &Composition{
		Items:     items,
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Discount:  settings.Discount,
		Total:     total,
	}, nil
}
