package generator

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkrausse/billable/internal/auth"
	"github.com/mkrausse/billable/internal/client"
	"github.com/mkrausse/billable/internal/generator"
	"github.com/mkrausse/billable/internal/invoice"
	"github.com/mkrausse/billable/internal/metrics"
	"github.com/mkrausse/billable/internal/project"
)

type Handler struct {
	svc *generator.Service
}

func NewHandler(svc *generator.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/clients", h.candidateClients)
	r.Get("/clients/{clientID}/projects", h.billableProjects)
	r.Post("/create", h.create)
}

func (h *Handler) candidateClients(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	candidates, err := h.svc.CandidateClients(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toCandidateList(candidates))
}

func (h *Handler) billableProjects(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	clientID, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
		return
	}

	projects, err := h.svc.BillableProjects(r.Context(), userID, clientID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toBillableList(projects))
}

type manualItemRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type createInvoiceRequest struct {
	ClientID     uuid.UUID           `json:"client_id"`
	ProjectIDs   []uuid.UUID         `json:"project_ids"`
	LineItems    []manualItemRequest `json:"line_items"`
	DueDate      *time.Time          `json:"due_date,omitempty"`
	TaxRate      decimal.Decimal     `json:"tax_rate"`
	Discount     decimal.Decimal     `json:"discount"`
	Notes        string              `json:"notes"`
	PaymentTerms int                 `json:"payment_terms"`
	Currency     string              `json:"currency"`
	Status       invoice.Status      `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.ClientID == uuid.Nil {
		http.Error(w, "client_id is required", http.StatusBadRequest)
		return
	}

	status := req.Status
	if status == "" {
		status = invoice.StatusDraft
	}

	manual := make([]generator.ManualItem, len(req.LineItems))
	for i, item := range req.LineItems {
		manual[i] = generator.ManualItem{
			Description: item.Description,
			Amount:      item.Amount,
		}
	}

	inv, totals, err := h.svc.Generate(r.Context(), userID, generator.GenerateParams{
		ClientID:   req.ClientID,
		ProjectIDs: req.ProjectIDs,
		Manual:     manual,
		Settings: generator.Settings{
			TaxRate:      req.TaxRate,
			Discount:     req.Discount,
			DueDate:      req.DueDate,
			PaymentTerms: req.PaymentTerms,
			Currency:     req.Currency,
			Notes:        req.Notes,
		},
		Status: status,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.InvoicesGenerated.WithLabelValues(string(inv.Status)).Inc()

	writeJSON(w, http.StatusCreated, toCreateResponse(inv, totals))
}

func writeError(w http.ResponseWriter, err error) {
	var notBillable *generator.NotBillableError

	switch {
	case errors.Is(err, generator.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &notBillable):
		http.Error(w, notBillable.Error(), http.StatusConflict)
	case errors.Is(err, client.ErrNotFound):
		http.Error(w, "client not found", http.StatusNotFound)
	case errors.Is(err, project.ErrNotFound):
		http.Error(w, "project not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
