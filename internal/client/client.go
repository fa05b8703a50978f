package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a client does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("client not found")

	// ErrHasProjects is returned when deleting a client that projects still
	// reference.
	ErrHasProjects = errors.New("client has dependent projects")
)

// Client is a billing counterparty owned by a single user.
type Client struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Email          string
	Phone          string
	Company        string
	Address        string
	DefaultTaxRate decimal.Decimal
	PaymentTerms   int // days
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
