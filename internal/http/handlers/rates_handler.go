package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"chargeadmin/internal/service"
)

// NewRatesHandler serves /api/rates. Activating a rate retires the previous
// Applying rate of the same port type.
func NewRatesHandler(svc *service.RateService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		PortType      string    `json:"port_type"`
		PricePerKWh   float64   `json:"price_per_kwh"`
		EffectiveDate time.Time `json:"effective_date"`
		Activate      bool      `json:"activate"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if raw := idQuery(r); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					writeError(w, http.StatusBadRequest, "invalid id")
					return
				}
				rate, err := svc.Get(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, rate)
				return
			}
			rates, err := svc.List(r.Context())
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"rates": rates})

		case http.MethodPost:
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			rate, err := svc.Create(r.Context(), service.CreateRateInput{
				PortType:      req.PortType,
				PricePerKWh:   req.PricePerKWh,
				EffectiveDate: req.EffectiveDate,
				Activate:      req.Activate,
			})
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, rate)

		case http.MethodPut:
			id, err := strconv.ParseInt(idQuery(r), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid id")
				return
			}
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			rate, err := svc.Update(r.Context(), service.UpdateRateInput{
				ID:            id,
				PricePerKWh:   req.PricePerKWh,
				EffectiveDate: req.EffectiveDate,
				Activate:      req.Activate,
			})
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, rate)

		case http.MethodDelete:
			id, err := strconv.ParseInt(idQuery(r), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid id")
				return
			}
			if err := svc.Delete(r.Context(), id); err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

		default:
			methodNotAllowed(w, "GET, POST, PUT, DELETE")
		}
	}
}
