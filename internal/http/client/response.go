package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkrausse/billable/internal/client"
)

type clientResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Company        string          `json:"company,omitempty"`
	Address        string          `json:"address,omitempty"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	PaymentTerms   int             `json:"payment_terms"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Company:        c.Company,
		Address:        c.Address,
		DefaultTaxRate: c.DefaultTaxRate,
		PaymentTerms:   c.PaymentTerms,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toResponseList(clients []*client.Client) []clientResponse {
	resp := make([]clientResponse, len(clients))
	for i, c := range clients {
		resp[i] = toResponse(c)
	}

	return resp
}
