package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chargeadmin/internal/apperr"
	"chargeadmin/internal/models"
)

func TestComputeCost(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		end        time.Time
		powerKW    float64
		unitPrice  float64
		wantEnergy float64
		wantAmount float64
	}{
		{
			name:       "two and a half hours on 50kW AC",
			end:        time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC),
			powerKW:    50,
			unitPrice:  3000,
			wantEnergy: 125.0,
			wantAmount: 375000,
		},
		{
			name:       "one hour on 7.4kW",
			end:        start.Add(time.Hour),
			powerKW:    7.4,
			unitPrice:  3500,
			wantEnergy: 7.4,
			wantAmount: 25900,
		},
		{
			name:       "fractional energy rounds to two decimals",
			end:        start.Add(10 * time.Minute),
			powerKW:    22,
			unitPrice:  4000,
			wantEnergy: 3.67,
			wantAmount: 14680,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := ComputeCost(start, tt.end, tt.powerKW, tt.unitPrice)
			if err != nil {
				t.Fatalf("ComputeCost returned error: %v", err)
			}
			if cost.EnergyKWh != tt.wantEnergy {
				t.Errorf("energy = %v, want %v", cost.EnergyKWh, tt.wantEnergy)
			}
			if cost.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", cost.Amount, tt.wantAmount)
			}
			if cost.UnitPrice != tt.unitPrice {
				t.Errorf("unit price = %v, want %v", cost.UnitPrice, tt.unitPrice)
			}
		})
	}
}

func TestComputeCostIsDeterministic(t *testing.T) {
	start := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	end := start.Add(95 * time.Minute)

	first, err := ComputeCost(start, end, 120, 2800)
	if err != nil {
		t.Fatalf("ComputeCost returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeCost(start, end, 120, 2800)
		if err != nil {
			t.Fatalf("ComputeCost returned error: %v", err)
		}
		if again != first {
			t.Fatalf("run %d produced %+v, first run produced %+v", i, again, first)
		}
	}
}

func TestComputeCostRejectsBadInput(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if _, err := ComputeCost(start, start, 50, 3000); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("end == start: got %v, want validation error", err)
	}
	if _, err := ComputeCost(start, start.Add(-time.Hour), 50, 3000); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("end before start: got %v, want validation error", err)
	}
	if _, err := ComputeCost(start, start.Add(time.Hour), 0, 3000); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("zero power: got %v, want validation error", err)
	}
}

func TestFinalizeInvoice(t *testing.T) {
	invoices := newFakeInvoices()
	rates := newFakeRates(&models.PriceRate{
		ID:            1,
		PortType:      models.PortTypeAC,
		PricePerKWh:   3000,
		EffectiveDate: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		Status:        models.RateStatusApplying,
	})

	svc := NewBillingService(fakeTx{}, invoices, rates, testLogger())
	svc.nextCode = stubCode("HD001")

	end := time.Date(2024, 1, 1, 2, 30, 0, 0, time.UTC)
	session := &models.ChargingSession{
		ID:        7,
		PortID:    "P01",
		VehicleID: 3,
		Status:    models.SessionStatusCompleted,
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   &end,
	}
	port := &models.Port{ID: "P01", StationID: "S01", PowerKW: 50, PortType: models.PortTypeAC}

	invoice, err := svc.FinalizeInvoice(context.Background(), nil, session, port)
	if err != nil {
		t.Fatalf("FinalizeInvoice returned error: %v", err)
	}
	if invoice.ID != "HD001" {
		t.Errorf("invoice id = %q, want HD001", invoice.ID)
	}
	if invoice.EnergyKWh != 125.0 {
		t.Errorf("energy = %v, want 125.0", invoice.EnergyKWh)
	}
	if invoice.Amount != 375000 {
		t.Errorf("amount = %v, want 375000", invoice.Amount)
	}
	if invoice.Status != models.InvoiceStatusUnpaid {
		t.Errorf("status = %q, want %q", invoice.Status, models.InvoiceStatusUnpaid)
	}
	if _, ok := invoices.invoices["HD001"]; !ok {
		t.Error("invoice was not persisted")
	}
}

func TestFinalizeInvoiceNoActiveRate(t *testing.T) {
	// The only rate for the port type is retired; billing must fail rather
	// than invent a price.
	rates := newFakeRates(&models.PriceRate{
		ID:          1,
		PortType:    models.PortTypeDC,
		PricePerKWh: 5000,
		Status:      models.RateStatusInactive,
	})
	invoices := newFakeInvoices()

	svc := NewBillingService(fakeTx{}, invoices, rates, testLogger())
	svc.nextCode = stubCode("HD001")

	end := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	session := &models.ChargingSession{
		ID:        1,
		PortID:    "P02",
		Status:    models.SessionStatusCompleted,
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   &end,
	}
	port := &models.Port{ID: "P02", PowerKW: 150, PortType: models.PortTypeDC}

	_, err := svc.FinalizeInvoice(context.Background(), nil, session, port)
	if !errors.Is(err, ErrNoActiveRate) {
		t.Fatalf("got %v, want ErrNoActiveRate", err)
	}
	if len(invoices.invoices) != 0 {
		t.Error("invoice was persisted despite missing rate")
	}
}

func TestFinalizeInvoicePicksMostRecentApplyingRate(t *testing.T) {
	rates := newFakeRates(
		&models.PriceRate{
			ID:            1,
			PortType:      models.PortTypeAC,
			PricePerKWh:   2500,
			EffectiveDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:        models.RateStatusApplying,
		},
		&models.PriceRate{
			ID:            2,
			PortType:      models.PortTypeAC,
			PricePerKWh:   3200,
			EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:        models.RateStatusApplying,
		},
	)
	invoices := newFakeInvoices()

	svc := NewBillingService(fakeTx{}, invoices, rates, testLogger())
	svc.nextCode = stubCode("HD001")

	end := time.Date(2024, 2, 1, 1, 0, 0, 0, time.UTC)
	session := &models.ChargingSession{
		ID:        1,
		Status:    models.SessionStatusCompleted,
		StartTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   &end,
	}
	port := &models.Port{ID: "P01", PowerKW: 10, PortType: models.PortTypeAC}

	invoice, err := svc.FinalizeInvoice(context.Background(), nil, session, port)
	if err != nil {
		t.Fatalf("FinalizeInvoice returned error: %v", err)
	}
	if invoice.UnitPrice != 3200 {
		t.Errorf("unit price = %v, want the most recent applying rate 3200", invoice.UnitPrice)
	}
}

func TestDeleteInvoiceWithPaymentsConflicts(t *testing.T) {
	invoices := newFakeInvoices(&models.Invoice{ID: "HD001", Amount: 1000, Status: models.InvoiceStatusUnpaid})
	invoices.dependents["HD001"] = 2

	svc := NewBillingService(fakeTx{}, invoices, newFakeRates(), testLogger())

	err := svc.DeleteInvoice(context.Background(), "HD001")
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("got %v, want conflict", err)
	}
	if _, ok := invoices.invoices["HD001"]; !ok {
		t.Error("invoice was deleted despite payments")
	}
}
