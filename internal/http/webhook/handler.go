// Package webhook receives payment confirmations from the checkout provider
// and settles the referenced invoice.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mkrausse/billable/internal/invoice"
	"github.com/mkrausse/billable/internal/metrics"
)

const maxBodySize = 64 << 10

type Handler struct {
	invoices *invoice.Service
	secret   []byte
}

func NewHandler(invoices *invoice.Service, secret string) *Handler {
	return &Handler{invoices: invoices, secret: []byte(secret)}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/payment", h.payment)
}

type paymentEvent struct {
	Type          string     `json:"type"`
	InvoiceNumber string     `json:"invoice_number"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// payment handles a signed payment callback. Marking an invoice paid is
// idempotent; replays of the same event return 200 without touching the row.
func (h *Handler) payment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}

	if !h.verifySignature(body, r.Header.Get("X-Signature")) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event paymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if event.Type != "payment_succeeded" {
		// Unknown event types are acknowledged so the provider stops
		// retrying them.
		w.WriteHeader(http.StatusOK)
		return
	}

	if event.InvoiceNumber == "" {
		http.Error(w, "invoice_number is required", http.StatusBadRequest)
		return
	}

	paidAt := time.Now()
	if event.PaidAt != nil {
		paidAt = *event.PaidAt
	}

	inv, err := h.invoices.MarkPaidByNumber(r.Context(), event.InvoiceNumber, paidAt)
	if err != nil {
		switch {
		case errors.Is(err, invoice.ErrNotFound):
			http.Error(w, "invoice not found", http.StatusNotFound)
		case errors.Is(err, invoice.ErrIllegalTransition):
			http.Error(w, "invoice cannot be paid in its current status", http.StatusConflict)
		default:
			slog.Error("payment webhook failed", "invoice_number", event.InvoiceNumber, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	metrics.InvoicesPaid.Inc()
	slog.Info("invoice paid", "number", inv.Number, "amount", inv.Amount)

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) verifySignature(body []byte, signature string) bool {
	if len(h.secret) == 0 || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
