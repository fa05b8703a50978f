package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mkrausse/billable/internal/client"
	"github.com/mkrausse/billable/internal/database"
	"github.com/mkrausse/billable/internal/generator"
	"github.com/mkrausse/billable/internal/invoice"
	"github.com/mkrausse/billable/internal/project"
)

type Store struct {
	db *sql.DB

	// draftConsumes widens the set of invoice statuses that consume a
	// project's billable eligibility to include drafts.
	draftConsumes bool
}

func New(db *sql.DB, draftConsumes bool) *Store {
	return &Store{db: db, draftConsumes: draftConsumes}
}

func (s *Store) consumingStatuses() string {
	if s.draftConsumes {
		return "('draft', 'sent', 'paid')"
	}

	return "('sent', 'paid')"
}

func (s *Store) CandidateClients(ctx context.Context, userID uuid.UUID) ([]*generator.CandidateClient, error) {
	query := `
		SELECT c.id, c.name, c.company, COUNT(p.id)
		FROM clients c
		JOIN projects p ON p.client_id = c.id AND p.status = 'completed'
		WHERE c.user_id = $1
		GROUP BY c.id, c.name, c.company
		ORDER BY c.name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing candidate clients: %w", err)
	}
	defer rows.Close()

	var candidates []*generator.CandidateClient

	for rows.Next() {
		var c generator.CandidateClient

		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.CompletedProjects); err != nil {
			return nil, fmt.Errorf("scanning candidate client: %w", err)
		}

		candidates = append(candidates, &c)
	}

	return candidates, rows.Err()
}

func (s *Store) BillableProjects(ctx context.Context, userID, clientID uuid.UUID) ([]*project.Project, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1 AND user_id = $2)`,
		clientID, userID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking client: %w", err)
	}

	if !exists {
		return nil, client.ErrNotFound
	}

	query := `
		SELECT p.id, p.user_id, p.client_id, p.name, p.description, p.status,
		       p.total_amount, p.due_date, p.created_at, p.updated_at
		FROM projects p
		WHERE p.client_id = $1 AND p.user_id = $2 AND p.status = 'completed'
		  AND NOT EXISTS (
		      SELECT 1
		      FROM invoice_line_items li
		      JOIN invoices i ON i.id = li.invoice_id
		      WHERE li.project_id = p.id AND i.status IN ` + s.consumingStatuses() + `
		  )
		ORDER BY p.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, clientID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing billable projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (s *Store) SelectedProjects(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*project.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders, args := idArgs(ids, 2)
	args = append([]any{userID}, args...)

	query := `
		SELECT p.id, p.user_id, p.client_id, p.name, p.description, p.status,
		       p.total_amount, p.due_date, p.created_at, p.updated_at
		FROM projects p
		WHERE p.user_id = $1 AND p.id IN (` + placeholders + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching selected projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// CreateInvoice writes the invoice and its line items in a single
// transaction. The client must belong to the invoice's user, and the
// referenced projects are locked and re-validated first so that two
// concurrent generations cannot both consume the same project.
func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var clientOK bool
	if err := dbTx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1 AND user_id = $2)`,
		inv.ClientID, inv.UserID,
	).Scan(&clientOK); err != nil {
		return fmt.Errorf("checking client: %w", err)
	}

	if !clientOK {
		return client.ErrNotFound
	}

	projectIDs := projectItemIDs(inv.Items)

	if len(projectIDs) > 0 {
		if err := s.recheckEligibility(ctx, dbTx, inv.UserID, projectIDs); err != nil {
			return err
		}
	}

	insertInvoice := `
		INSERT INTO invoices (user_id, client_id, project_id, number, status, amount, subtotal,
		                      tax_rate, tax_amount, discount, due_date, payment_terms, currency, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, insertInvoice,
		inv.UserID,
		inv.ClientID,
		inv.ProjectID,
		inv.Number,
		inv.Status,
		inv.Amount,
		inv.Subtotal,
		inv.TaxRate,
		inv.TaxAmount,
		inv.Discount,
		inv.DueDate,
		inv.PaymentTerms,
		inv.Currency,
		inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return invoice.ErrNumberTaken
		}

		return fmt.Errorf("creating invoice: %w", err)
	}

	insertItem := `
		INSERT INTO invoice_line_items (invoice_id, position, kind, project_id, description, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for i := range inv.Items {
		item := &inv.Items[i]

		err := dbTx.QueryRowContext(ctx, insertItem,
			inv.ID,
			item.Position,
			item.Kind,
			item.ProjectID,
			item.Description,
			item.Amount,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("creating line item: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing invoice: %w", err)
	}

	return nil
}

// recheckEligibility locks the selected projects and verifies, inside the
// same transaction that writes the invoice, that each is still completed and
// unconsumed. Ineligible projects are rejected, not dropped.
func (s *Store) recheckEligibility(ctx context.Context, dbTx *sql.Tx, userID uuid.UUID, ids []uuid.UUID) error {
	placeholders, args := idArgs(ids, 2)
	args = append([]any{userID}, args...)

	lock := `
		SELECT p.id, p.status
		FROM projects p
		WHERE p.user_id = $1 AND p.id IN (` + placeholders + `)
		FOR UPDATE`

	rows, err := dbTx.QueryContext(ctx, lock, args...)
	if err != nil {
		return fmt.Errorf("locking projects: %w", err)
	}
	defer rows.Close()

	statuses := make(map[uuid.UUID]project.Status, len(ids))

	for rows.Next() {
		var (
			id        uuid.UUID
			statusStr string
		)

		if err := rows.Scan(&id, &statusStr); err != nil {
			return fmt.Errorf("scanning locked project: %w", err)
		}

		statuses[id] = project.Status(statusStr)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating locked projects: %w", err)
	}

	var ineligible []uuid.UUID

	for _, id := range ids {
		status, found := statuses[id]
		if !found {
			return project.ErrNotFound
		}

		if status != project.StatusCompleted {
			ineligible = append(ineligible, id)
		}
	}

	idPlaceholders, idOnlyArgs := idArgs(ids, 1)

	consumed := `
		SELECT DISTINCT li.project_id
		FROM invoice_line_items li
		JOIN invoices i ON i.id = li.invoice_id
		WHERE li.project_id IN (` + idPlaceholders + `) AND i.status IN ` + s.consumingStatuses()

	crows, err := dbTx.QueryContext(ctx, consumed, idOnlyArgs...)
	if err != nil {
		return fmt.Errorf("checking consumed projects: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var id uuid.UUID
		if err := crows.Scan(&id); err != nil {
			return fmt.Errorf("scanning consumed project: %w", err)
		}

		ineligible = append(ineligible, id)
	}

	if err := crows.Err(); err != nil {
		return fmt.Errorf("iterating consumed projects: %w", err)
	}

	if len(ineligible) > 0 {
		return &generator.NotBillableError{ProjectIDs: ineligible}
	}

	return nil
}

func projectItemIDs(items []invoice.LineItem) []uuid.UUID {
	var ids []uuid.UUID

	for _, item := range items {
		if item.Kind == invoice.ItemProject && item.ProjectID != nil {
			ids = append(ids, *item.ProjectID)
		}
	}

	return ids
}

// idArgs builds "$start, $start+1, ..." placeholders and the matching args
// for an IN clause.
func idArgs(ids []uuid.UUID, start int) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))

	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}

	return strings.Join(placeholders, ", "), args
}

func scanProjects(rows *sql.Rows) ([]*project.Project, error) {
	var projects []*project.Project

	for rows.Next() {
		var p project.Project

		var statusStr string

		if err := rows.Scan(
			&p.ID, &p.UserID, &p.ClientID, &p.Name, &p.Description, &statusStr,
			&p.TotalAmount, &p.DueDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		p.Status = project.Status(statusStr)
		projects = append(projects, &p)
	}

	return projects, rows.Err()
}
