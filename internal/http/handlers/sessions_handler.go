package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"chargeadmin/internal/service"
)

// NewChargingSessionsHandler serves /api/sessions. POST starts a session on
// a free port; completion is a separate endpoint because it also bills.
func NewChargingSessionsHandler(svc *service.SessionService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		PortID    string    `json:"port_id"`
		VehicleID int64     `json:"vehicle_id"`
		StartTime time.Time `json:"start_time"`
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
				session, err := svc.Get(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, session)
				return
			}
			sessions, err := svc.List(r.Context(), limitQuery(r))
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})

		case http.MethodPost:
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			session, err := svc.Start(r.Context(), service.StartInput{
				PortID:    req.PortID,
				VehicleID: req.VehicleID,
				StartTime: req.StartTime,
			})
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, session)

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
			session, err := svc.Update(r.Context(), id, req.VehicleID, req.StartTime)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, session)

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

// NewCompleteSessionHandler handles POST /api/sessions/complete. Returns the
// completed session together with its freshly finalized invoice.
func NewCompleteSessionHandler(svc *service.SessionService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		ID      int64     `json:"id"`
		EndTime time.Time `json:"end_time"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.ID == 0 {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}

		session, invoice, err := svc.Complete(r.Context(), req.ID, req.EndTime)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"session": session,
			"invoice": invoice,
		})
	}
}
