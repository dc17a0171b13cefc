package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"chargeadmin/internal/http/middleware"
	"chargeadmin/internal/service"
)

// NewMaintenanceHandler serves /api/maintenance. Tickets are opened by the
// authenticated employee; an omitted port_id puts the whole station under
// maintenance.
func NewMaintenanceHandler(svc *service.MaintenanceService, logger *zap.Logger) http.HandlerFunc {
	type createRequest struct {
		StationID string    `json:"station_id"`
		PortID    *string   `json:"port_id"`
		OpenedAt  time.Time `json:"opened_at"`
		Notes     string    `json:"notes"`
	}
	type updateRequest struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
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
				ticket, err := svc.Get(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, ticket)
				return
			}
			tickets, err := svc.List(r.Context(), limitQuery(r))
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})

		case http.MethodPost:
			principal, ok := middleware.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing session token")
				return
			}
			var req createRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			ticket, err := svc.Create(r.Context(), service.CreateTicketInput{
				EmployeeID: principal.EmployeeID,
				StationID:  req.StationID,
				PortID:     req.PortID,
				OpenedAt:   req.OpenedAt,
				Notes:      req.Notes,
			})
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, ticket)

		case http.MethodPut:
			id, err := strconv.ParseInt(idQuery(r), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid id")
				return
			}
			var req updateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			ticket, err := svc.Update(r.Context(), service.UpdateTicketInput{
				ID:     id,
				Status: req.Status,
				Notes:  req.Notes,
			})
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, ticket)

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
