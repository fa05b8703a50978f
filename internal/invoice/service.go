package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	GetInvoice(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*Invoice, error)
	ListInvoices(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	UpdateStatus(ctx context.Context, inv *Invoice, paidAt *time.Time) error
	DeleteInvoice(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	Status   *Status
	ClientID *uuid.UUID
}

type UpdateParams struct {
	DueDate      *time.Time
	PaymentTerms *int
	Currency     *string
	Notes        *string
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, userID, filter)
}

// Update edits the mutable fields of an invoice. Paid invoices reject all
// edits; totals are never recomputed here.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if inv.Status == StatusPaid {
		return nil, ErrImmutable
	}

	if params.DueDate != nil {
		inv.DueDate = params.DueDate
	}

	if params.PaymentTerms != nil {
		inv.PaymentTerms = *params.PaymentTerms
	}

	if params.Currency != nil {
		inv.Currency = *params.Currency
	}

	if params.Notes != nil {
		inv.Notes = *params.Notes
	}

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// ChangeStatus applies an explicit status transition (send, mark overdue,
// manual mark paid) through the state machine.
func (s *Service) ChangeStatus(ctx context.Context, userID, id uuid.UUID, target Status) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	next, err := inv.Status.Transition(target)
	if err != nil {
		return nil, err
	}

	inv.Status = next

	var paidAt *time.Time

	if next == StatusPaid {
		now := time.Now()
		paidAt = &now
		inv.PaidAt = paidAt
	}

	if err := s.repo.UpdateStatus(ctx, inv, paidAt); err != nil {
		return nil, err
	}

	return inv, nil
}

// MarkPaidByNumber settles an invoice from a payment confirmation callback.
// It is idempotent: confirming an already-paid invoice is a no-op, and the
// invoice's totals are never touched.
func (s *Service) MarkPaidByNumber(ctx context.Context, number string, paidAt time.Time) (*Invoice, error) {
	inv, err := s.repo.GetInvoiceByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if inv.Status == StatusPaid {
		return inv, nil
	}

	next, err := inv.Status.Transition(StatusPaid)
	if err != nil {
		return nil, err
	}

	inv.Status = next
	inv.PaidAt = &paidAt

	if err := s.repo.UpdateStatus(ctx, inv, &paidAt); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	inv, err := s.repo.GetInvoice(ctx, userID, id)
	if err != nil {
		return err
	}

	if inv.Status == StatusPaid {
		return ErrImmutable
	}

	return s.repo.DeleteInvoice(ctx, userID, id)
}

// Totals is the computed breakdown returned alongside a generated invoice.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}
