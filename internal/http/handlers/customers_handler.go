package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"chargeadmin/internal/service"
)

// NewCustomersHandler serves /api/customers.
func NewCustomersHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
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
				customer, err := svc.GetCustomer(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, customer)
				return
			}
			customers, err := svc.ListCustomers(r.Context())
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"customers": customers})

		case http.MethodPost:
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			customer, err := svc.CreateCustomer(r.Context(), req.FullName, req.Email, req.Phone)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, customer)

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
			customer, err := svc.UpdateCustomer(r.Context(), id, req.FullName, req.Email, req.Phone)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, customer)

		case http.MethodDelete:
			id, err := strconv.ParseInt(idQuery(r), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid id")
				return
			}
			if err := svc.DeleteCustomer(r.Context(), id); err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

		default:
			methodNotAllowed(w, "GET, POST, PUT, DELETE")
		}
	}
}

// NewVehiclesHandler serves /api/vehicles. GET filters by ?customer_id=.
func NewVehiclesHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		CustomerID int64  `json:"customer_id"`
		Plate      string `json:"plate"`
		Model      string `json:"model"`
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
				vehicle, err := svc.GetVehicle(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, vehicle)
				return
			}
			customerID, err := int64Query(r, "customer_id")
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid customer_id")
				return
			}
			vehicles, err := svc.ListVehicles(r.Context(), customerID)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"vehicles": vehicles})

		case http.MethodPost:
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			vehicle, err := svc.CreateVehicle(r.Context(), req.CustomerID, req.Plate, req.Model)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, vehicle)

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
			vehicle, err := svc.UpdateVehicle(r.Context(), id, req.CustomerID, req.Plate, req.Model)
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, vehicle)

		case http.MethodDelete:
			id, err := strconv.ParseInt(idQuery(r), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid id")
				return
			}
			if err := svc.DeleteVehicle(r.Context(), id); err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

		default:
			methodNotAllowed(w, "GET, POST, PUT, DELETE")
		}
	}
}
