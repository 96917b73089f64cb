package patient

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newPatientTestService() *Service {
	return NewService(NewMemoryRepo(), NewMemoryFluidRepo())
}

func admitted(t *testing.T, svc *Service) *Patient {
	t.Helper()
	p := &Patient{Name: "Fatma Koc", Age: 66, Room: "310", Bed: "B"}
	if err := svc.Admit(context.Background(), p); err != nil {
		t.Fatalf("admit: %v", err)
	}
	return p
}

func TestAdmit_AppliesDefaults(t *testing.T) {
	svc := newPatientTestService()
	p := admitted(t, svc)

	if !strings.HasPrefix(p.ID, "P-") || len(p.ID) != 10 {
		t.Errorf("unexpected generated id %q", p.ID)
	}
	if p.RiskTier != RiskLow {
		t.Errorf("expected Low default tier, got %s", p.RiskTier)
	}
	if p.Thresholds != DefaultThresholds() {
		t.Errorf("expected default thresholds, got %+v", p.Thresholds)
	}
	if p.AdmittedAt.IsZero() {
		t.Error("expected AdmittedAt default")
	}
}

func TestAdmit_Validation(t *testing.T) {
	svc := newPatientTestService()
	cases := []struct {
		name string
		p    *Patient
	}{
		{"missing name", &Patient{Age: 40, Room: "1"}},
		{"zero age", &Patient{Name: "X", Room: "1"}},
		{"missing room", &Patient{Name: "X", Age: 40}},
		{"bad tier", &Patient{Name: "X", Age: 40, Room: "1", RiskTier: "Extreme"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Admit(context.Background(), tc.p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAdmit_KeepsProvidedThresholds(t *testing.T) {
	svc := newPatientTestService()
	th := DefaultThresholds()
	th.SpO2Low = 90
	p := &Patient{Name: "Y", Age: 70, Room: "2", Thresholds: th}
	if err := svc.Admit(context.Background(), p); err != nil {
		t.Fatalf("admit: %v", err)
	}
	if p.Thresholds.SpO2Low != 90 {
		t.Errorf("expected provided thresholds kept, got %g", p.Thresholds.SpO2Low)
	}
}

func TestUpdateDemographics_PartialUpdate(t *testing.T) {
	svc := newPatientTestService()
	p := admitted(t, svc)

	upd, err := svc.UpdateDemographics(context.Background(), p.ID, &Patient{Room: "999"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Room != "999" {
		t.Errorf("expected room updated, got %s", upd.Room)
	}
	if upd.Name != p.Name || upd.Age != p.Age {
		t.Error("unrelated fields must be preserved")
	}
	if upd.RiskTier != p.RiskTier || upd.Thresholds != p.Thresholds {
		t.Error("demographics update must not touch clinical settings")
	}
}

func TestUpdateThresholds_Validation(t *testing.T) {
	svc := newPatientTestService()
	p := admitted(t, svc)

	bad := DefaultThresholds()
	bad.SystolicLow = 170
	if _, err := svc.UpdateThresholds(context.Background(), p.ID, bad); err == nil {
		t.Error("expected inverted bounds to be rejected")
	}

	bad = DefaultThresholds()
	bad.SpO2Low = 0
	if _, err := svc.UpdateThresholds(context.Background(), p.ID, bad); err == nil {
		t.Error("expected zero spo2 bound to be rejected")
	}

	good := DefaultThresholds()
	good.TemperatureHigh = 37.5
	upd, err := svc.UpdateThresholds(context.Background(), p.ID, good)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Thresholds.TemperatureHigh != 37.5 {
		t.Errorf("threshold not applied: %+v", upd.Thresholds)
	}
}

func TestUpdateRiskTier(t *testing.T) {
	svc := newPatientTestService()
	p := admitted(t, svc)

	upd, err := svc.UpdateRiskTier(context.Background(), p.ID, RiskHigh)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.RiskTier != RiskHigh {
		t.Errorf("expected High, got %s", upd.RiskTier)
	}

	if _, err := svc.UpdateRiskTier(context.Background(), p.ID, RiskTier("Severe")); err == nil {
		t.Error("expected invalid tier to be rejected")
	}
	if _, err := svc.UpdateRiskTier(context.Background(), "P-NOPE", RiskLow); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAnamnesis(t *testing.T) {
	svc := newPatientTestService()
	p := admitted(t, svc)

	upd, err := svc.UpdateAnamnesis(context.Background(), p.ID, Anamnesis{
		Complaint: "Chest pain on exertion",
		Allergies: "None known",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Anamnesis == nil || upd.Anamnesis.Complaint != "Chest pain on exertion" {
		t.Errorf("anamnesis not stored: %+v", upd.Anamnesis)
	}
	if upd.Anamnesis.UpdatedAt.IsZero() {
		t.Error("expected anamnesis timestamp to be stamped")
	}
}

func TestRecordFluid(t *testing.T) {
	svc := newPatientTestService()
	p := admitted(t, svc)

	rec := &FluidRecord{PatientID: p.ID, IntakeML: 250}
	if err := svc.RecordFluid(context.Background(), rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.RecordedAt.IsZero() {
		t.Error("expected RecordedAt default")
	}

	if err := svc.RecordFluid(context.Background(), &FluidRecord{PatientID: p.ID}); err == nil {
		t.Error("expected error for zero volumes")
	}
	if err := svc.RecordFluid(context.Background(), &FluidRecord{PatientID: p.ID, IntakeML: -1}); err == nil {
		t.Error("expected error for negative volume")
	}
	if err := svc.RecordFluid(context.Background(), &FluidRecord{PatientID: "P-NOPE", IntakeML: 100}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	list, total, err := svc.ListFluids(context.Background(), p.ID, 10, 0)
	if err != nil {
		t.Fatalf("list fluids: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Errorf("expected 1 record, got total=%d", total)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc := newPatientTestService()

	older := &Patient{Name: "First In", Age: 50, Room: "1"}
	if err := svc.Admit(context.Background(), older); err != nil {
		t.Fatalf("admit: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	newer := &Patient{Name: "Last In", Age: 51, Room: "2"}
	if err := svc.Admit(context.Background(), newer); err != nil {
		t.Fatalf("admit: %v", err)
	}

	list, total, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 patients, got %d", total)
	}
	if list[0].ID != newer.ID {
		t.Errorf("expected newest admission first, got %s", list[0].Name)
	}
}
