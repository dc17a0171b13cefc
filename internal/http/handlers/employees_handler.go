package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"chargeadmin/internal/http/middleware"
	"chargeadmin/internal/service"
)

// NewEmployeesHandler serves /api/employees. Deletion checks the caller's
// identity so nobody removes their own account.
func NewEmployeesHandler(svc *service.EmployeeService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		StationID string `json:"station_id"`
		FullName  string `json:"full_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
		Role      string `json:"role"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := idQuery(r); id != "" {
				employee, err := svc.Get(r.Context(), id)
				if err != nil {
					writeAppError(w, logger, err)
					return
				}
				writeJSON(w, http.StatusOK, employee)
				return
			}
			employees, err := svc.List(r.Context())
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"employees": employees})

		case http.MethodPost:
			var req request
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			employee, err := svc.Create(r.Context(), service.CreateEmployeeInput{
				StationID: req.StationID,
				FullName:  req.FullName,
				Email:     req.Email,
				Phone:     req.Phone,
				Password:  req.Password,
				Role:      req.Role,
			})
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusCreated, employee)

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
			employee, err := svc.Update(r.Context(), service.UpdateEmployeeInput{
				ID:        id,
				StationID: req.StationID,
				FullName:  req.FullName,
				Email:     req.Email,
				Phone:     req.Phone,
				Role:      req.Role,
			})
			if err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, employee)

		case http.MethodDelete:
			id := idQuery(r)
			if id == "" {
				writeError(w, http.StatusBadRequest, "id query parameter is required")
				return
			}
			principal, ok := middleware.PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing session token")
				return
			}
			if err := svc.Delete(r.Context(), principal.EmployeeID, id); err != nil {
				writeAppError(w, logger, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

		default:
			methodNotAllowed(w, "GET, POST, PUT, DELETE")
		}
	}
}

// NewApproveEmployeeHandler handles PUT /api/employees/approve?id=.
func NewApproveEmployeeHandler(svc *service.EmployeeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := idQuery(r)
		if id == "" {
			writeError(w, http.StatusBadRequest, "id query parameter is required")
			return
		}
		if err := svc.Approve(r.Context(), id); err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
	}
}
