package generator

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkrausse/billable/internal/generator"
	"github.com/mkrausse/billable/internal/invoice"
	"github.com/mkrausse/billable/internal/project"
)

type candidateResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Company           string    `json:"company,omitempty"`
	CompletedProjects int       `json:"completed_projects"`
}

func toCandidateList(candidates []*generator.CandidateClient) []candidateResponse {
	resp := make([]candidateResponse, len(candidates))
	for i, c := range candidates {
		resp[i] = candidateResponse{
			ID:                c.ID,
			Name:              c.Name,
			Company:           c.Company,
			CompletedProjects: c.CompletedProjects,
		}
	}

	return resp
}

type billableProjectResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

func toBillableList(projects []*project.Project) []billableProjectResponse {
	resp := make([]billableProjectResponse, len(projects))
	for i, p := range projects {
		resp[i] = billableProjectResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			TotalAmount: p.TotalAmount,
			DueDate:     p.DueDate,
		}
	}

	return resp
}

type lineItemResponse struct {
	Kind        invoice.LineItemKind `json:"kind"`
	ProjectID   *uuid.UUID           `json:"project_id,omitempty"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
}

type totalsResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

type createResponse struct {
	ID          uuid.UUID          `json:"id"`
	Number      string             `json:"number"`
	Status      invoice.Status     `json:"status"`
	Amount      decimal.Decimal    `json:"amount"`
	Currency    string             `json:"currency"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	Items       []lineItemResponse `json:"line_items"`
	Description string             `json:"description"`
	Totals      totalsResponse     `json:"totals"`
	CreatedAt   time.Time          `json:"created_at"`
}

func toCreateResponse(inv *invoice.Invoice, totals *invoice.Totals) createResponse {
	items := make([]lineItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = lineItemResponse{
			Kind:        item.Kind,
			ProjectID:   item.ProjectID,
			Description: item.Description,
			Amount:      item.Amount,
		}
	}

	return createResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		Status:      inv.Status,
		Amount:      inv.Amount,
		Currency:    inv.Currency,
		DueDate:     inv.DueDate,
		Items:       items,
		Description: inv.FlattenedItems(),
		Totals: totalsResponse{
			Subtotal:       totals.Subtotal,
			TaxAmount:      totals.TaxAmount,
			DiscountAmount: totals.DiscountAmount,
			Total:          totals.Total,
		},
		CreatedAt: inv.CreatedAt,
	}
}
