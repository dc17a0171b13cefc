package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"chargeadmin/internal/service"
)

// NewStationsHandler serves /api/stations. GET lists or, with ?id=, fetches
// one; POST creates; PUT rewrites name and address; DELETE removes an empty
// station.
func NewStationsHandler(svc *service.StationService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := idQuery(r); id != "" {
				station, err := svc.GetStation(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, station)
				return
			}
			stations, err := svc.ListStations(r.Context())
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"stations": stations})

		case http.MethodPost:
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			station, err := svc.CreateStation(r.Context(), req.ID, req.Name, req.Address)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, station)

		case http.MethodPut:
			id := idQuery(r)
			if id == "" {
				writeError(w, http.StatusBadRequest, "id query parameter is required")
				return
			}
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			station, err := svc.UpdateStation(r.Context(), id, req.Name, req.Address)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, station)

		case http.MethodDelete:
			id := idQuery(r)
			if id == "" {
				writeError(w, http.StatusBadRequest, "id query parameter is required")
				return
			}
			if err := svc.DeleteStation(r.Context(), id); err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

		default:
			methodNotAllowed(w, "GET, POST, PUT, DELETE")
		}
	}
}

// NewPortsHandler serves /api/ports. GET filters by ?station_id=.
func NewPortsHandler(svc *service.StationService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		ID        string  `json:"id"`
		StationID string  `json:"station_id"`
		PowerKW   float64 `json:"power_kw"`
		PortType  string  `json:"port_type"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := idQuery(r); id != "" {
				port, err := svc.GetPort(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, port)
				return
			}
			ports, err := svc.ListPorts(r.Context(), r.URL.Query().Get("station_id"))
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"ports": ports})

		case http.MethodPost:
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			port, err := svc.CreatePort(r.Context(), req.ID, req.StationID, req.PowerKW, req.PortType)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, port)

		case http.MethodPut:
			id := idQuery(r)
			if id == "" {
				writeError(w, http.StatusBadRequest, "id query parameter is required")
				return
			}
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			port, err := svc.UpdatePort(r.Context(), id, req.PowerKW, req.PortType)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, port)

		case http.MethodDelete:
			id := idQuery(r)
			if id == "" {
				writeError(w, http.StatusBadRequest, "id query parameter is required")
				return
			}
			if err := svc.DeletePort(r.Context(), id); err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

		default:
			methodNotAllowed(w, "GET, POST, PUT, DELETE")
		}
	}
}
