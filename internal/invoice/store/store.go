package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkrausse/billable/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	i.id, i.user_id, i.client_id, i.project_id, i.number, i.status,
	i.amount, i.subtotal, i.tax_rate, i.tax_amount, i.discount,
	i.due_date, i.payment_terms, i.currency, i.notes, i.paid_at,
	i.created_at, i.updated_at
`

func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var statusStr string

	if err := s.Scan(
		&inv.ID, &inv.UserID, &inv.ClientID, &inv.ProjectID, &inv.Number, &statusStr,
		&inv.Amount, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Discount,
		&inv.DueDate, &inv.PaymentTerms, &inv.Currency, &inv.Notes, &inv.PaidAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(statusStr)

	return &inv, nil
}

func (s *Store) loadItems(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		SELECT id, position, kind, project_id, description, amount
		FROM invoice_line_items
		WHERE invoice_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, inv.ID)
	if err != nil {
		return fmt.Errorf("loading line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item invoice.LineItem

		var kindStr string

		if err := rows.Scan(&item.ID, &item.Position, &kindStr, &item.ProjectID, &item.Description, &item.Amount); err != nil {
			return fmt.Errorf("scanning line item: %w", err)
		}

		item.Kind = invoice.LineItemKind(kindStr)
		inv.Items = append(inv.Items, item)
	}

	return rows.Err()
}

func (s *Store) GetInvoice(ctx context.Context, userID, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE i.id = $1 AND i.user_id = $2`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	if err := s.loadItems(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Store) GetInvoiceByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE i.number = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice by number: %w", err)
	}

	if err := s.loadItems(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, userID uuid.UUID, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE i.user_id = $1`

	args := []any{userID}
	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND i.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND i.client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	query += " ORDER BY i.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET due_date = $1, payment_terms = $2, currency = $3, notes = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6 AND status != 'paid'
	`

	res, err := s.db.ExecContext(ctx, query,
		inv.DueDate,
		inv.PaymentTerms,
		inv.Currency,
		inv.Notes,
		inv.ID,
		inv.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

// UpdateStatus persists a status change already validated by the state
// machine. The paid guard is repeated in SQL so a concurrent payment cannot
// be overwritten.
func (s *Store) UpdateStatus(ctx context.Context, inv *invoice.Invoice, paidAt *time.Time) error {
	query := `
		UPDATE invoices
		SET status = $1, paid_at = COALESCE($2, paid_at), updated_at = NOW()
		WHERE id = $3 AND status != 'paid'
	`

	res, err := s.db.ExecContext(ctx, query, inv.Status, paidAt, inv.ID)
	if err != nil {
		return fmt.Errorf("updating invoice status: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return invoice.ErrImmutable
	}

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1 AND user_id = $2 AND status != 'paid'`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}
