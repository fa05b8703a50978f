package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkrausse/billable/internal/client"
	"github.com/mkrausse/billable/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectClientColumns = `
	c.id, c.user_id, c.name, c.email, c.phone, c.company, c.address,
	c.default_tax_rate, c.payment_terms, c.created_at, c.updated_at
`

func scanClient(s scanner) (*client.Client, error) {
	var c client.Client

	if err := s.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address,
		&c.DefaultTaxRate, &c.PaymentTerms, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (user_id, name, email, phone, company, address, default_tax_rate, payment_terms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.UserID,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Address,
		c.DefaultTaxRate,
		c.PaymentTerms,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func (s *Store) GetClient(ctx context.Context, userID, id uuid.UUID) (*client.Client, error) {
	query := `SELECT ` + selectClientColumns + `
		FROM clients c
		WHERE c.id = $1 AND c.user_id = $2`

	c, err := scanClient(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, client.ErrNotFound
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	return c, nil
}

func (s *Store) ListClients(ctx context.Context, userID uuid.UUID) ([]*client.Client, error) {
	query := `SELECT ` + selectClientColumns + `
		FROM clients c
		WHERE c.user_id = $1
		ORDER BY c.name ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, c)
	}

	return clients, rows.Err()
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, company = $4, address = $5,
		    default_tax_rate = $6, payment_terms = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
	`

	res, err := s.db.ExecContext(ctx, query,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Address,
		c.DefaultTaxRate,
		c.PaymentTerms,
		c.ID,
		c.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return client.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteClient(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1 AND user_id = $2`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return client.ErrHasProjects
		}

		return fmt.Errorf("deleting client: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return client.ErrNotFound
	}

	return nil
}
