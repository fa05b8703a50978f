package generator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/mkrausse/billable/internal/invoice"
	"github.com/mkrausse/billable/internal/project"
)

// numberAttempts is the total number of insert attempts when the generated
// invoice number collides. The unique index makes collisions an error, not a
// silent duplicate.
const numberAttempts = 3

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=generator
type Repository interface {
	// CandidateClients lists the caller's clients that have at least one
	// completed project.
	CandidateClients(ctx context.Context, userID uuid.UUID) ([]*CandidateClient, error)

	// BillableProjects returns the client's completed projects not consumed
	// by an existing invoice, newest first. The client must belong to the
	// user.
	BillableProjects(ctx context.Context, userID, clientID uuid.UUID) ([]*project.Project, error)

	// SelectedProjects fetches the user's projects by id, in no particular
	// order.
	SelectedProjects(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*project.Project, error)

	// CreateInvoice writes the invoice and its line items in one
	// transaction, verifying that the client belongs to the invoice's user
	// and re-checking project eligibility under lock. It returns
	// client.ErrNotFound when the client is missing or foreign, and
	// invoice.ErrNumberTaken when the generated number collides.
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error
}

type Service struct {
	repo         Repository
	numberPrefix string
}

func NewService(repo Repository, numberPrefix string) *Service {
	return &Service{repo: repo, numberPrefix: numberPrefix}
}

func (s *Service) CandidateClients(ctx context.Context, userID uuid.UUID) ([]*CandidateClient, error) {
	return s.repo.CandidateClients(ctx, userID)
}

func (s *Service) BillableProjects(ctx context.Context, userID, clientID uuid.UUID) ([]*project.Project, error) {
	return s.repo.BillableProjects(ctx, userID, clientID)
}

type GenerateParams struct {
	ClientID   uuid.UUID
	ProjectIDs []uuid.UUID
	Manual     []ManualItem
	Settings   Settings
	Status     invoice.Status
}

// Generate runs the full workflow: fetch the selected projects, compose the
// invoice body and totals, and persist the result. Eligibility is
// re-validated inside the persister's transaction, so a project consumed
// between selection and submission surfaces as a NotBillableError rather
// than a double-billed invoice.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, params GenerateParams) (*invoice.Invoice, *invoice.Totals, error) {
	if params.Status != invoice.StatusDraft && params.Status != invoice.StatusSent {
		return nil, nil, ErrInvalidStatus
	}

	selected, err := s.selectedInOrder(ctx, userID, params.ProjectIDs)
	if err != nil {
		return nil, nil, err
	}

	comp, err := Compose(selected, params.Manual, params.Settings)
	if err != nil {
		return nil, nil, err
	}

	currency := params.Settings.Currency
	if currency == "" {
		currency = "USD"
	}

	inv := &invoice.Invoice{
		UserID:       userID,
		ClientID:     params.ClientID,
		ProjectID:    primaryProject(params.ProjectIDs),
		Status:       params.Status,
		Amount:       comp.Total,
		Subtotal:     comp.Subtotal,
		TaxRate:      params.Settings.TaxRate,
		TaxAmount:    comp.TaxAmount,
		Discount:     comp.Discount,
		DueDate:      params.Settings.DueDate,
		PaymentTerms: params.Settings.PaymentTerms,
		Currency:     currency,
		Notes:        params.Settings.Notes,
		Items:        comp.Items,
	}

	backoff := retry.WithMaxRetries(numberAttempts-1, retry.NewConstant(10*time.Millisecond))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		inv.Number = s.newNumber()

		if err := s.repo.CreateInvoice(ctx, inv); err != nil {
			if errors.Is(err, invoice.ErrNumberTaken) {
				return retry.RetryableError(err)
			}

			return err
		}

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("persisting invoice: %w", err)
	}

	totals := &invoice.Totals{
		Subtotal:       comp.Subtotal,
		TaxAmount:      comp.TaxAmount,
		DiscountAmount: comp.Discount,
		Total:          comp.Total,
	}

	return inv, totals, nil
}

// selectedInOrder resolves the selected project ids, preserving selection
// order for line-item display.
func (s *Service) selectedInOrder(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*project.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	fetched, err := s.repo.SelectedProjects(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*project.Project, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	ordered := make([]*project.Project, 0, len(ids))

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, project.ErrNotFound
		}

		ordered = append(ordered, p)
	}

	return ordered, nil
}

func primaryProject(ids []uuid.UUID) *uuid.UUID {
	if len(ids) == 0 {
		return nil
	}

	id := ids[0]

	return &id
}

// newNumber generates a prefix + date + random-suffix invoice number.
// Uniqueness is enforced by the invoices_number_key index, not by this
// format.
func (s *Service) newNumber() string {
	return fmt.Sprintf("%s-%s-%04d", s.numberPrefix, time.Now().Format("20060102"), rand.Intn(10000))
}
