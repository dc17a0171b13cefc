package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"chargeadmin/internal/service"
)

// NewInvoicesHandler serves /api/invoices. Invoices are only created by
// session completion, so there is no POST here.
func NewInvoicesHandler(svc *service.BillingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := idQuery(r); id != "" {
				invoice, err := svc.GetInvoice(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, invoice)
				return
			}
			invoices, err := svc.ListInvoices(r.Context(), limitQuery(r))
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})

		case http.MethodDelete:
			id := idQuery(r)
			if id == "" {
				writeError(w, http.StatusBadRequest, "id query parameter is required")
				return
			}
			if err := svc.DeleteInvoice(r.Context(), id); err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

		default:
			methodNotAllowed(w, "GET, DELETE")
		}
	}
}

// NewPaymentsHandler serves /api/payments. GET filters by ?invoice_id=.
func NewPaymentsHandler(svc *service.PaymentService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		InvoiceID string  `json:"invoice_id"`
		Amount    float64 `json:"amount"`
		Method    string  `json:"method"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := idQuery(r); id != "" {
				payment, err := svc.Get(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, payment)
				return
			}
			payments, err := svc.List(r.Context(), r.URL.Query().Get("invoice_id"), limitQuery(r))
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"payments": payments})

		case http.MethodPost:
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			payment, err := svc.Create(r.Context(), service.CreatePaymentInput{
				InvoiceID: req.InvoiceID,
				Amount:    req.Amount,
				Method:    req.Method,
			})
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, payment)

		case http.MethodDelete:
			id := idQuery(r)
			if id == "" {
				writeError(w, http.StatusBadRequest, "id query parameter is required")
				return
			}
			if err := svc.Delete(r.Context(), id); err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

		default:
			methodNotAllowed(w, "GET, POST, DELETE")
		}
	}
}
