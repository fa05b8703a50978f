package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a project does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("project not found")

	// ErrHasInvoices is returned when deleting a project that invoices still
	// reference.
	ErrHasInvoices = errors.New("project has dependent invoices")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid project status")
)

// Status represents the lifecycle state of a project.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOverdue    Status = "overdue"
	StatusOnHold     Status = "on_hold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusOverdue, StatusOnHold:
		return true
	}

	return false
}

// Project is a unit of billable work under one client. Only completed
// projects are eligible for invoicing.
type Project struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ClientID    uuid.UUID
	Name        string
	Description string
	Status      Status
	TotalAmount decimal.Decimal
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
