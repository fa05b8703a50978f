package invoice

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkrausse/billable/internal/invoice"
)

type lineItemResponse struct {
	ID          uuid.UUID            `json:"id"`
	Kind        invoice.LineItemKind `json:"kind"`
	ProjectID   *uuid.UUID           `json:"project_id,omitempty"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
}

type invoiceResponse struct {
	ID           uuid.UUID          `json:"id"`
	ClientID     uuid.UUID          `json:"client_id"`
	ProjectID    *uuid.UUID         `json:"project_id,omitempty"`
	Number       string             `json:"number"`
	Status       invoice.Status     `json:"status"`
	Amount       decimal.Decimal    `json:"amount"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	TaxRate      decimal.Decimal    `json:"tax_rate"`
	TaxAmount    decimal.Decimal    `json:"tax_amount"`
	Discount     decimal.Decimal    `json:"discount"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
	PaymentTerms int                `json:"payment_terms"`
	Currency     string             `json:"currency"`
	Notes        string             `json:"notes,omitempty"`
	Items        []lineItemResponse `json:"line_items,omitempty"`
	Description  string             `json:"description,omitempty"`
	PaidAt       *time.Time         `json:"paid_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    *time.Time         `json:"updated_at,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:           inv.ID,
		ClientID:     inv.ClientID,
		ProjectID:    inv.ProjectID,
		Number:       inv.Number,
		Status:       inv.Status,
		Amount:       inv.Amount,
		Subtotal:     inv.Subtotal,
		TaxRate:      inv.TaxRate,
		TaxAmount:    inv.TaxAmount,
		Discount:     inv.Discount,
		DueDate:      inv.DueDate,
		PaymentTerms: inv.PaymentTerms,
		Currency:     inv.Currency,
		Notes:        inv.Notes,
		PaidAt:       inv.PaidAt,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}

	if len(inv.Items) > 0 {
		resp.Items = make([]lineItemResponse, len(inv.Items))
		for i, item := range inv.Items {
			resp.Items[i] = lineItemResponse{
				ID:          item.ID,
				Kind:        item.Kind,
				ProjectID:   item.ProjectID,
				Description: item.Description,
				Amount:      item.Amount,
			}
		}

		resp.Description = inv.FlattenedItems()
	}

	return resp
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
