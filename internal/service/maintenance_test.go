package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chargeadmin/internal/apperr"
	"chargeadmin/internal/models"
)

func strPtr(s string) *string { return &s }

func maintenanceFixture() (*MaintenanceService, *fakeTickets, *fakePorts, *fakeStations) {
	stations := newFakeStations(&models.Station{ID: "S01", Name: "Central", Status: models.StationStatusActive})
	ports := newFakePorts(&models.Port{ID: "P01", StationID: "S01", PowerKW: 50, PortType: models.PortTypeAC, Condition: models.PortConditionFree})
	tickets := newFakeTickets()
	svc := NewMaintenanceService(fakeTx{}, tickets, ports, stations, testLogger())
	return svc, tickets, ports, stations
}

func TestCreateTicketParksPort(t *testing.T) {
	svc, tickets, ports, stations := maintenanceFixture()

	ticket, err := svc.Create(context.Background(), CreateTicketInput{
		EmployeeID: "NV001",
		StationID:  "S01",
		PortID:     strPtr("P01"),
		OpenedAt:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Notes:      "connector jammed",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if ticket.Status != models.TicketStatusOpen {
		t.Errorf("ticket status = %q, want Open", ticket.Status)
	}
	if got := ports.ports["P01"].Condition; got != models.PortConditionMaintenance {
		t.Errorf("port condition = %q, want Maintenance", got)
	}
	if got := stations.stations["S01"].Status; got != models.StationStatusActive {
		t.Errorf("station status = %q, a port ticket must not touch the station", got)
	}
	if len(tickets.tickets) != 1 {
		t.Errorf("ticket count = %d, want 1", len(tickets.tickets))
	}
}

func TestCreateTicketParksStation(t *testing.T) {
	svc, _, ports, stations := maintenanceFixture()

	_, err := svc.Create(context.Background(), CreateTicketInput{
		EmployeeID: "NV001",
		StationID:  "S01",
		Notes:      "transformer replacement",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got := stations.stations["S01"].Status; got != models.StationStatusMaintenance {
		t.Errorf("station status = %q, want Maintenance", got)
	}
	if got := ports.ports["P01"].Condition; got != models.PortConditionFree {
		t.Errorf("port condition = %q, a station ticket must not touch ports", got)
	}
}

func TestCreateTicketRejectsForeignPort(t *testing.T) {
	svc, tickets, ports, _ := maintenanceFixture()
	ports.ports["P99"] = &models.Port{ID: "P99", StationID: "S02", Condition: models.PortConditionFree}

	_, err := svc.Create(context.Background(), CreateTicketInput{
		EmployeeID: "NV001",
		StationID:  "S01",
		PortID:     strPtr("P99"),
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
	if len(tickets.tickets) != 0 {
		t.Error("ticket was persisted despite foreign port")
	}
	if got := ports.ports["P99"].Condition; got != models.PortConditionFree {
		t.Errorf("port condition = %q, want untouched Free", got)
	}
}

func TestCreateTicketFailureLeavesStatusUntouched(t *testing.T) {
	svc, tickets, ports, _ := maintenanceFixture()
	tickets.createErr = errors.New("insert failed")

	_, err := svc.Create(context.Background(), CreateTicketInput{
		EmployeeID: "NV001",
		StationID:  "S01",
		PortID:     strPtr("P01"),
	})
	if err == nil {
		t.Fatal("Create succeeded, want error")
	}
	if got := ports.ports["P01"].Condition; got != models.PortConditionFree {
		t.Errorf("port condition = %q, want Free after failed insert", got)
	}
}

func TestCompleteTicketReleasesPort(t *testing.T) {
	svc, _, ports, _ := maintenanceFixture()

	ticket, err := svc.Create(context.Background(), CreateTicketInput{
		EmployeeID: "NV001",
		StationID:  "S01",
		PortID:     strPtr("P01"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(context.Background(), UpdateTicketInput{
		ID:     ticket.ID,
		Status: models.TicketStatusCompleted,
		Notes:  "replaced connector",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != models.TicketStatusCompleted {
		t.Errorf("ticket status = %q, want Completed", updated.Status)
	}
	if got := ports.ports["P01"].Condition; got != models.PortConditionFree {
		t.Errorf("port condition = %q, want Free after completion", got)
	}
}

func TestCompleteTicketReleasesStation(t *testing.T) {
	svc, _, _, stations := maintenanceFixture()

	ticket, err := svc.Create(context.Background(), CreateTicketInput{
		EmployeeID: "NV001",
		StationID:  "S01",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Update(context.Background(), UpdateTicketInput{
		ID:     ticket.ID,
		Status: models.TicketStatusCompleted,
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got := stations.stations["S01"].Status; got != models.StationStatusActive {
		t.Errorf("station status = %q, want Active after completion", got)
	}
}

func TestUpdateTicketKeepingOpenLeavesParked(t *testing.T) {
	svc, _, ports, _ := maintenanceFixture()

	ticket, err := svc.Create(context.Background(), CreateTicketInput{
		EmployeeID: "NV001",
		StationID:  "S01",
		PortID:     strPtr("P01"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Update(context.Background(), UpdateTicketInput{
		ID:     ticket.ID,
		Status: models.TicketStatusOpen,
		Notes:  "waiting for parts",
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got := ports.ports["P01"].Condition; got != models.PortConditionMaintenance {
		t.Errorf("port condition = %q, want still Maintenance", got)
	}
}

func TestUpdateTicketRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _ := maintenanceFixture()

	_, err := svc.Update(context.Background(), UpdateTicketInput{ID: 1, Status: "Paused"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestDeleteTicketReleasesEvenWhenOpen(t *testing.T) {
	svc, tickets, ports, _ := maintenanceFixture()

	ticket, err := svc.Create(context.Background(), CreateTicketInput{
		EmployeeID: "NV001",
		StationID:  "S01",
		PortID:     strPtr("P01"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), ticket.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got := ports.ports["P01"].Condition; got != models.PortConditionFree {
		t.Errorf("port condition = %q, want Free after delete", got)
	}
	if len(tickets.tickets) != 0 {
		t.Errorf("ticket count = %d, want 0", len(tickets.tickets))
	}
}

func TestDeleteMissingTicket(t *testing.T) {
	svc, _, _, _ := maintenanceFixture()

	err := svc.Delete(context.Background(), 42)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("got %v, want not found", err)
	}
}
