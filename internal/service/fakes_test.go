package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"chargeadmin/internal/models"
	"chargeadmin/internal/repository"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// fakeTx satisfies txRunner without a database; fn runs against a nil Querier
// which the fakes below ignore.
type fakeTx struct{}

func (fakeTx) DB() repository.Querier { return nil }

func (fakeTx) WithinTx(ctx context.Context, fn func(q repository.Querier) error) error {
	return fn(nil)
}

// stubCode returns a fixed sequence of generated codes.
func stubCode(codes ...string) codeGenerator {
	i := 0
	return func(ctx context.Context, q repository.Querier, table, column, prefix string) (string, error) {
		if i >= len(codes) {
			return "", errors.New("stub: out of codes")
		}
		code := codes[i]
		i++
		return code, nil
	}
}

type fakePorts struct {
	ports      map[string]*models.Port
	dependents map[string]int
	createErr  error
	setCondErr error
}

func newFakePorts(ports ...*models.Port) *fakePorts {
	f := &fakePorts{
		ports:      make(map[string]*models.Port),
		dependents: make(map[string]int),
	}
	for _, p := range ports {
		f.ports[p.ID] = p
	}
	return f
}

func (f *fakePorts) Create(ctx context.Context, q repository.Querier, p *models.Port) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.ports[p.ID] = p
	return nil
}

func (f *fakePorts) GetByID(ctx context.Context, q repository.Querier, id string) (*models.Port, error) {
	p, ok := f.ports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePorts) List(ctx context.Context, q repository.Querier, stationID string) ([]models.Port, error) {
	var out []models.Port
	for _, p := range f.ports {
		if stationID == "" || p.StationID == stationID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePorts) Update(ctx context.Context, q repository.Querier, p *models.Port) error {
	existing, ok := f.ports[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.PowerKW = p.PowerKW
	existing.PortType = p.PortType
	return nil
}

func (f *fakePorts) SetCondition(ctx context.Context, q repository.Querier, id, condition string) error {
	if f.setCondErr != nil {
		return f.setCondErr
	}
	p, ok := f.ports[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Condition = condition
	return nil
}

func (f *fakePorts) Delete(ctx context.Context, q repository.Querier, id string) error {
	if _, ok := f.ports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.ports, id)
	return nil
}

func (f *fakePorts) CountDependents(ctx context.Context, q repository.Querier, id string) (int, error) {
	return f.dependents[id], nil
}

type fakeStations struct {
	stations   map[string]*models.Station
	dependents map[string]int
}

func newFakeStations(stations ...*models.Station) *fakeStations {
	f := &fakeStations{
		stations:   make(map[string]*models.Station),
		dependents: make(map[string]int),
	}
	for _, st := range stations {
		f.stations[st.ID] = st
	}
	return f
}

func (f *fakeStations) Create(ctx context.Context, q repository.Querier, st *models.Station) error {
	f.stations[st.ID] = st
	return nil
}

func (f *fakeStations) GetByID(ctx context.Context, q repository.Querier, id string) (*models.Station, error) {
	st, ok := f.stations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *st
	return &copied, nil
}

func (f *fakeStations) List(ctx context.Context, q repository.Querier) ([]models.Station, error) {
	var out []models.Station
	for _, st := range f.stations {
		out = append(out, *st)
	}
	return out, nil
}

func (f *fakeStations) Update(ctx context.Context, q repository.Querier, st *models.Station) error {
	existing, ok := f.stations[st.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = st.Name
	existing.Address = st.Address
	return nil
}

func (f *fakeStations) SetStatus(ctx context.Context, q repository.Querier, id, status string) error {
	st, ok := f.stations[id]
	if !ok {
		return repository.ErrNotFound
	}
	st.Status = status
	return nil
}

func (f *fakeStations) Delete(ctx context.Context, q repository.Querier, id string) error {
	if _, ok := f.stations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.stations, id)
	return nil
}

func (f *fakeStations) CountDependents(ctx context.Context, q repository.Querier, id string) (int, error) {
	return f.dependents[id], nil
}

type fakeTickets struct {
	tickets   map[int64]*models.MaintenanceTicket
	nextID    int64
	createErr error
}

func newFakeTickets(tickets ...*models.MaintenanceTicket) *fakeTickets {
	f := &fakeTickets{tickets: make(map[int64]*models.MaintenanceTicket), nextID: 1}
	for _, t := range tickets {
		f.tickets[t.ID] = t
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}
	return f
}

func (f *fakeTickets) Create(ctx context.Context, q repository.Querier, t *models.MaintenanceTicket) error {
	if f.createErr != nil {
		return f.createErr
	}
	t.ID = f.nextID
	f.nextID++
	f.tickets[t.ID] = t
	return nil
}

func (f *fakeTickets) GetByID(ctx context.Context, q repository.Querier, id int64) (*models.MaintenanceTicket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTickets) List(ctx context.Context, q repository.Querier, limit int) ([]models.MaintenanceTicket, error) {
	var out []models.MaintenanceTicket
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTickets) Update(ctx context.Context, q repository.Querier, t *models.MaintenanceTicket) error {
	existing, ok := f.tickets[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Status = t.Status
	existing.Notes = t.Notes
	return nil
}

func (f *fakeTickets) Delete(ctx context.Context, q repository.Querier, id int64) error {
	if _, ok := f.tickets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tickets, id)
	return nil
}

type fakeSessions struct {
	sessions map[int64]*models.ChargingSession
	invoiced map[int64]bool
	nextID   int64
}

func newFakeSessions(sessions ...*models.ChargingSession) *fakeSessions {
	f := &fakeSessions{
		sessions: make(map[int64]*models.ChargingSession),
		invoiced: make(map[int64]bool),
		nextID:   1,
	}
	for _, s := range sessions {
		f.sessions[s.ID] = s
		if s.ID >= f.nextID {
			f.nextID = s.ID + 1
		}
	}
	return f
}

func (f *fakeSessions) Create(ctx context.Context, q repository.Querier, s *models.ChargingSession) error {
	s.ID = f.nextID
	f.nextID++
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessions) GetByID(ctx context.Context, q repository.Querier, id int64) (*models.ChargingSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessions) List(ctx context.Context, q repository.Querier, limit int) ([]models.ChargingSession, error) {
	var out []models.ChargingSession
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSessions) Update(ctx context.Context, q repository.Querier, s *models.ChargingSession) error {
	existing, ok := f.sessions[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.VehicleID = s.VehicleID
	existing.StartTime = s.StartTime
	return nil
}

func (f *fakeSessions) Complete(ctx context.Context, q repository.Querier, id int64, endTime time.Time) error {
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = models.SessionStatusCompleted
	s.EndTime = &endTime
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, q repository.Querier, id int64) error {
	if _, ok := f.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessions) HasInvoice(ctx context.Context, q repository.Querier, id int64) (bool, error) {
	return f.invoiced[id], nil
}

type fakeVehicles struct {
	vehicles   map[int64]*models.Vehicle
	dependents map[int64]int
	nextID     int64
}

func newFakeVehicles(vehicles ...*models.Vehicle) *fakeVehicles {
	f := &fakeVehicles{
		vehicles:   make(map[int64]*models.Vehicle),
		dependents: make(map[int64]int),
		nextID:     1,
	}
	for _, v := range vehicles {
		f.vehicles[v.ID] = v
		if v.ID >= f.nextID {
			f.nextID = v.ID + 1
		}
	}
	return f
}

func (f *fakeVehicles) Create(ctx context.Context, q repository.Querier, v *models.Vehicle) error {
	v.ID = f.nextID
	f.nextID++
	f.vehicles[v.ID] = v
	return nil
}

func (f *fakeVehicles) GetByID(ctx context.Context, q repository.Querier, id int64) (*models.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVehicles) ExistsByPlate(ctx context.Context, q repository.Querier, plate string, excludeID int64) (bool, error) {
	for _, v := range f.vehicles {
		if v.Plate == plate && v.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVehicles) List(ctx context.Context, q repository.Querier, customerID int64) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range f.vehicles {
		if customerID == 0 || v.CustomerID == customerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVehicles) Update(ctx context.Context, q repository.Querier, v *models.Vehicle) error {
	existing, ok := f.vehicles[v.ID]
	if !ok {
		return repository.ErrNotFound
	}
	*existing = *v
	return nil
}

func (f *fakeVehicles) Delete(ctx context.Context, q repository.Querier, id int64) error {
	if _, ok := f.vehicles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.vehicles, id)
	return nil
}

func (f *fakeVehicles) CountDependents(ctx context.Context, q repository.Querier, id int64) (int, error) {
	return f.dependents[id], nil
}

type fakeInvoices struct {
	invoices   map[string]*models.Invoice
	dependents map[string]int
}

func newFakeInvoices(invoices ...*models.Invoice) *fakeInvoices {
	f := &fakeInvoices{
		invoices:   make(map[string]*models.Invoice),
		dependents: make(map[string]int),
	}
	for _, inv := range invoices {
		f.invoices[inv.ID] = inv
	}
	return f
}

func (f *fakeInvoices) Create(ctx context.Context, q repository.Querier, inv *models.Invoice) error {
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoices) GetByID(ctx context.Context, q repository.Querier, id string) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (f *fakeInvoices) List(ctx context.Context, q repository.Querier, limit int) ([]models.Invoice, error) {
	var out []models.Invoice
	for _, inv := range f.invoices {
		out = append(out, *inv)
	}
	return out, nil
}

func (f *fakeInvoices) SetStatus(ctx context.Context, q repository.Querier, id, status string) error {
	inv, ok := f.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (f *fakeInvoices) Delete(ctx context.Context, q repository.Querier, id string) error {
	if _, ok := f.invoices[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.invoices, id)
	return nil
}

func (f *fakeInvoices) CountDependents(ctx context.Context, q repository.Querier, id string) (int, error) {
	return f.dependents[id], nil
}

type fakePayments struct {
	payments map[string]*models.Payment
}

func newFakePayments(payments ...*models.Payment) *fakePayments {
	f := &fakePayments{payments: make(map[string]*models.Payment)}
	for _, p := range payments {
		f.payments[p.ID] = p
	}
	return f
}

func (f *fakePayments) Create(ctx context.Context, q repository.Querier, p *models.Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakePayments) GetByID(ctx context.Context, q repository.Querier, id string) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePayments) List(ctx context.Context, q repository.Querier, invoiceID string, limit int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if invoiceID == "" || p.InvoiceID == invoiceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayments) PaidTotal(ctx context.Context, q repository.Querier, invoiceID string) (float64, error) {
	var total float64
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID {
			total += p.Amount
		}
	}
	return total, nil
}

func (f *fakePayments) Delete(ctx context.Context, q repository.Querier, id string) error {
	if _, ok := f.payments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.payments, id)
	return nil
}

type fakeRates struct {
	rates  map[int64]*models.PriceRate
	nextID int64
}

func newFakeRates(rates ...*models.PriceRate) *fakeRates {
	f := &fakeRates{rates: make(map[int64]*models.PriceRate), nextID: 1}
	for _, r := range rates {
		f.rates[r.ID] = r
		if r.ID >= f.nextID {
			f.nextID = r.ID + 1
		}
	}
	return f
}

func (f *fakeRates) Create(ctx context.Context, q repository.Querier, rate *models.PriceRate) error {
	rate.ID = f.nextID
	f.nextID++
	f.rates[rate.ID] = rate
	return nil
}

func (f *fakeRates) GetByID(ctx context.Context, q repository.Querier, id int64) (*models.PriceRate, error) {
	rate, ok := f.rates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *rate
	return &copied, nil
}

func (f *fakeRates) GetActive(ctx context.Context, q repository.Querier, portType string) (*models.PriceRate, error) {
	var best *models.PriceRate
	for _, rate := range f.rates {
		if rate.PortType != portType || rate.Status != models.RateStatusApplying {
			continue
		}
		if best == nil || rate.EffectiveDate.After(best.EffectiveDate) {
			best = rate
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	copied := *best
	return &copied, nil
}

func (f *fakeRates) List(ctx context.Context, q repository.Querier) ([]models.PriceRate, error) {
	var out []models.PriceRate
	for _, rate := range f.rates {
		out = append(out, *rate)
	}
	return out, nil
}

func (f *fakeRates) DeactivateByType(ctx context.Context, q repository.Querier, portType string) error {
	for _, rate := range f.rates {
		if rate.PortType == portType && rate.Status == models.RateStatusApplying {
			rate.Status = models.RateStatusInactive
		}
	}
	return nil
}

func (f *fakeRates) Update(ctx context.Context, q repository.Querier, rate *models.PriceRate) error {
	existing, ok := f.rates[rate.ID]
	if !ok {
		return repository.ErrNotFound
	}
	*existing = *rate
	return nil
}

func (f *fakeRates) Delete(ctx context.Context, q repository.Querier, id int64) error {
	if _, ok := f.rates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rates, id)
	return nil
}

type fakeEmployees struct {
	employees  map[string]*models.Employee
	dependents map[string]int
	counter    int
}

func newFakeEmployees(employees ...*models.Employee) *fakeEmployees {
	f := &fakeEmployees{
		employees:  make(map[string]*models.Employee),
		dependents: make(map[string]int),
	}
	for _, e := range employees {
		f.employees[e.ID] = e
		f.counter++
	}
	return f
}

func (f *fakeEmployees) Create(ctx context.Context, q repository.Querier, e *models.Employee) error {
	if e.ID == "" {
		f.counter++
		e.ID = fmt.Sprintf("NV%03d", f.counter)
	}
	f.employees[e.ID] = e
	return nil
}

func (f *fakeEmployees) GetByID(ctx context.Context, q repository.Querier, id string) (*models.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEmployees) GetByEmail(ctx context.Context, q repository.Querier, email string) (*models.Employee, error) {
	for _, e := range f.employees {
		if e.Email == email {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEmployees) List(ctx context.Context, q repository.Querier) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range f.employees {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEmployees) Update(ctx context.Context, q repository.Querier, e *models.Employee) error {
	existing, ok := f.employees[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.StationID = e.StationID
	existing.FullName = e.FullName
	existing.Email = e.Email
	existing.Phone = e.Phone
	existing.Role = e.Role
	return nil
}

func (f *fakeEmployees) SetApproved(ctx context.Context, q repository.Querier, id string, approved bool) error {
	e, ok := f.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.Approved = approved
	return nil
}

func (f *fakeEmployees) SetPassword(ctx context.Context, q repository.Querier, id, hash string) error {
	e, ok := f.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.PasswordHash = hash
	e.FirstLogin = false
	return nil
}

func (f *fakeEmployees) Delete(ctx context.Context, q repository.Querier, id string) error {
	if _, ok := f.employees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.employees, id)
	return nil
}

func (f *fakeEmployees) CountDependents(ctx context.Context, q repository.Querier, id string) (int, error) {
	return f.dependents[id], nil
}

type fakeCustomers struct {
	customers  map[int64]*models.Customer
	dependents map[int64]int
	nextID     int64
}

func newFakeCustomers(customers ...*models.Customer) *fakeCustomers {
	f := &fakeCustomers{
		customers:  make(map[int64]*models.Customer),
		dependents: make(map[int64]int),
		nextID:     1,
	}
	for _, c := range customers {
		f.customers[c.ID] = c
		if c.ID >= f.nextID {
			f.nextID = c.ID + 1
		}
	}
	return f
}

func (f *fakeCustomers) Create(ctx context.Context, q repository.Querier, c *models.Customer) error {
	c.ID = f.nextID
	f.nextID++
	f.customers[c.ID] = c
	return nil
}

func (f *fakeCustomers) GetByID(ctx context.Context, q repository.Querier, id int64) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomers) ExistsByContact(ctx context.Context, q repository.Querier, email, phone string, excludeID int64) (bool, error) {
	for _, c := range f.customers {
		if c.ID != excludeID && (c.Email == email || c.Phone == phone) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCustomers) List(ctx context.Context, q repository.Querier) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCustomers) Update(ctx context.Context, q repository.Querier, c *models.Customer) error {
	existing, ok := f.customers[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	*existing = *c
	return nil
}

func (f *fakeCustomers) Delete(ctx context.Context, q repository.Querier, id int64) error {
	if _, ok := f.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomers) CountDependents(ctx context.Context, q repository.Querier, id int64) (int, error) {
	return f.dependents[id], nil
}
