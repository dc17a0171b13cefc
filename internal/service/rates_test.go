package service

import (
	"context"
	"testing"
	"time"

	"chargeadmin/internal/apperr"
	"chargeadmin/internal/models"
)

func countApplying(rates *fakeRates, portType string) int {
	n := 0
	for _, r := range rates.rates {
		if r.PortType == portType && r.Status == models.RateStatusApplying {
			n++
		}
	}
	return n
}

func TestCreateRateActivationRetiresPrevious(t *testing.T) {
	rates := newFakeRates(&models.PriceRate{
		ID:          1,
		PortType:    models.PortTypeAC,
		PricePerKWh: 2500,
		Status:      models.RateStatusApplying,
	})
	svc := NewRateService(fakeTx{}, rates, testLogger())

	created, err := svc.Create(context.Background(), CreateRateInput{
		PortType:      models.PortTypeAC,
		PricePerKWh:   3000,
		EffectiveDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Activate:      true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Status != models.RateStatusApplying {
		t.Errorf("new rate status = %q, want Applying", created.Status)
	}
	if got := rates.rates[1].Status; got != models.RateStatusInactive {
		t.Errorf("previous rate status = %q, want Inactive", got)
	}
	if n := countApplying(rates, models.PortTypeAC); n != 1 {
		t.Errorf("applying AC rates = %d, want exactly 1", n)
	}
}

func TestCreateRateWithoutActivationLeavesCurrent(t *testing.T) {
	rates := newFakeRates(&models.PriceRate{
		ID:          1,
		PortType:    models.PortTypeDC,
		PricePerKWh: 5000,
		Status:      models.RateStatusApplying,
	})
	svc := NewRateService(fakeTx{}, rates, testLogger())

	created, err := svc.Create(context.Background(), CreateRateInput{
		PortType:    models.PortTypeDC,
		PricePerKWh: 5500,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Status != models.RateStatusInactive {
		t.Errorf("new rate status = %q, want Inactive", created.Status)
	}
	if got := rates.rates[1].Status; got != models.RateStatusApplying {
		t.Errorf("current rate status = %q, want still Applying", got)
	}
}

func TestCreateRateActivationScopedToPortType(t *testing.T) {
	rates := newFakeRates(&models.PriceRate{
		ID:          1,
		PortType:    models.PortTypeDC,
		PricePerKWh: 5000,
		Status:      models.RateStatusApplying,
	})
	svc := NewRateService(fakeTx{}, rates, testLogger())

	if _, err := svc.Create(context.Background(), CreateRateInput{
		PortType:    models.PortTypeAC,
		PricePerKWh: 3000,
		Activate:    true,
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got := rates.rates[1].Status; got != models.RateStatusApplying {
		t.Errorf("DC rate status = %q, an AC activation must not touch it", got)
	}
}

func TestCreateRateValidation(t *testing.T) {
	svc := NewRateService(fakeTx{}, newFakeRates(), testLogger())

	if _, err := svc.Create(context.Background(), CreateRateInput{PortType: "USB", PricePerKWh: 100}); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("bad port type: got %v, want validation error", err)
	}
	if _, err := svc.Create(context.Background(), CreateRateInput{PortType: models.PortTypeAC, PricePerKWh: 0}); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("zero price: got %v, want validation error", err)
	}
}

func TestUpdateRateActivation(t *testing.T) {
	rates := newFakeRates(
		&models.PriceRate{ID: 1, PortType: models.PortTypeAC, PricePerKWh: 2500, Status: models.RateStatusApplying},
		&models.PriceRate{ID: 2, PortType: models.PortTypeAC, PricePerKWh: 3200, Status: models.RateStatusInactive},
	)
	svc := NewRateService(fakeTx{}, rates, testLogger())

	updated, err := svc.Update(context.Background(), UpdateRateInput{
		ID:          2,
		PricePerKWh: 3200,
		Activate:    true,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != models.RateStatusApplying {
		t.Errorf("updated rate status = %q, want Applying", updated.Status)
	}
	if got := rates.rates[1].Status; got != models.RateStatusInactive {
		t.Errorf("previous rate status = %q, want Inactive", got)
	}
	if n := countApplying(rates, models.PortTypeAC); n != 1 {
		t.Errorf("applying AC rates = %d, want exactly 1", n)
	}
}
