package httpserver

import "net/http"

// Routes groups handlers and the middleware that gates them.
type Routes struct {
	Login           http.HandlerFunc
	Logout          http.HandlerFunc
	ChangePassword  http.HandlerFunc
	Stations        http.HandlerFunc
	Ports           http.HandlerFunc
	Customers       http.HandlerFunc
	Vehicles        http.HandlerFunc
	Employees       http.HandlerFunc
	ApproveEmployee http.HandlerFunc
	Sessions        http.HandlerFunc
	CompleteSession http.HandlerFunc
	Invoices        http.HandlerFunc
	Payments        http.HandlerFunc
	Maintenance     http.HandlerFunc
	Rates           http.HandlerFunc
	Health          http.HandlerFunc

	RequireAuth  func(http.Handler) http.Handler
	RequireAdmin func(http.Handler) http.Handler
}

// NewRouter registers endpoints. Everything under /api except login requires
// a session; employee management and pricing additionally require the admin
// role.
func NewRouter(routes Routes) http.Handler {
	authed := func(h http.Handler) http.Handler {
		if routes.RequireAuth != nil {
			return routes.RequireAuth(h)
		}
		return h
	}
	admin := func(h http.Handler) http.Handler {
		if routes.RequireAdmin != nil {
			h = routes.RequireAdmin(h)
		}
		return authed(h)
	}

	mux := http.NewServeMux()
	if routes.Login != nil {
		mux.Handle("/api/auth/login", method(http.MethodPost, routes.Login))
	}
	if routes.Logout != nil {
		mux.Handle("/api/auth/logout", authed(method(http.MethodPost, routes.Logout)))
	}
	if routes.ChangePassword != nil {
		mux.Handle("/api/auth/password", authed(method(http.MethodPost, routes.ChangePassword)))
	}
	if routes.Stations != nil {
		mux.Handle("/api/stations", authed(routes.Stations))
	}
	if routes.Ports != nil {
		mux.Handle("/api/ports", authed(routes.Ports))
	}
	if routes.Customers != nil {
		mux.Handle("/api/customers", authed(routes.Customers))
	}
	if routes.Vehicles != nil {
		mux.Handle("/api/vehicles", authed(routes.Vehicles))
	}
	if routes.Employees != nil {
		mux.Handle("/api/employees", admin(routes.Employees))
	}
	if routes.ApproveEmployee != nil {
		mux.Handle("/api/employees/approve", admin(method(http.MethodPut, routes.ApproveEmployee)))
	}
	if routes.Sessions != nil {
		mux.Handle("/api/sessions", authed(routes.Sessions))
	}
	if routes.CompleteSession != nil {
		mux.Handle("/api/sessions/complete", authed(method(http.MethodPost, routes.CompleteSession)))
	}
	if routes.Invoices != nil {
		mux.Handle("/api/invoices", authed(routes.Invoices))
	}
	if routes.Payments != nil {
		mux.Handle("/api/payments", authed(routes.Payments))
	}
	if routes.Maintenance != nil {
		mux.Handle("/api/maintenance", authed(routes.Maintenance))
	}
	if routes.Rates != nil {
		mux.Handle("/api/rates", admin(routes.Rates))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
