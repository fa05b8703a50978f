package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkrausse/billable/internal/client"
	"github.com/mkrausse/billable/internal/database"
	"github.com/mkrausse/billable/internal/project"
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

const selectProjectColumns = `
	p.id, p.user_id, p.client_id, p.name, p.description, p.status,
	p.total_amount, p.due_date, p.created_at, p.updated_at
`

func scanProject(s scanner) (*project.Project, error) {
	var p project.Project

	var statusStr string

	if err := s.Scan(
		&p.ID, &p.UserID, &p.ClientID, &p.Name, &p.Description, &statusStr,
		&p.TotalAmount, &p.DueDate, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = project.Status(statusStr)

	return &p, nil
}

// CreateProject inserts the project only when its client exists and belongs
// to the project's user, returning client.ErrNotFound otherwise.
func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (user_id, client_id, name, description, status, total_amount, due_date, created_at)
		SELECT $1, c.id, $3, $4, $5, $6, $7, NOW()
		FROM clients c
		WHERE c.id = $2 AND c.user_id = $1
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.UserID,
		p.ClientID,
		p.Name,
		p.Description,
		p.Status,
		p.TotalAmount,
		p.DueDate,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return client.ErrNotFound
		}

		return fmt.Errorf("creating project: %w", err)
	}

	return nil
}

func (s *Store) GetProject(ctx context.Context, userID, id uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + selectProjectColumns + `
		FROM projects p
		WHERE p.id = $1 AND p.user_id = $2`

	p, err := scanProject(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, project.ErrNotFound
		}

		return nil, fmt.Errorf("getting project: %w", err)
	}

	return p, nil
}

func (s *Store) ListProjects(ctx context.Context, userID uuid.UUID, filter project.ListFilter) ([]*project.Project, error) {
	query := `SELECT ` + selectProjectColumns + `
		FROM projects p
		WHERE p.user_id = $1`

	args := []any{userID}
	argIdx := 2

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND p.client_id = $%d", argIdx)

		args = append(args, *filter.ClientID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND p.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY p.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		projects = append(projects, p)
	}

	return projects, rows.Err()
}

func (s *Store) UpdateProject(ctx context.Context, p *project.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, total_amount = $4,
		    due_date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
	`

	res, err := s.db.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.Status,
		p.TotalAmount,
		p.DueDate,
		p.ID,
		p.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return project.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteProject(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1 AND user_id = $2`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return project.ErrHasInvoices
		}

		return fmt.Errorf("deleting project: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return project.ErrNotFound
	}

	return nil
}
