package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

type mockRemoteSource struct {
	orders     []*MedicalOrder
	err        error
	fetchCalls int
}

func (m *mockRemoteSource) FetchOrders(_ context.Context, _ string) ([]*MedicalOrder, error) {
	m.fetchCalls++
	if m.err != nil {
		return nil, m.err
	}
	// Return fresh copies the way a decoder would.
	out := make([]*MedicalOrder, len(m.orders))
	for i, o := range m.orders {
		cp := *o
		out[i] = &cp
	}
	return out, nil
}

func newOrdersTestService(src RemoteSource) (*Service, patient.Repository) {
	patients := patient.NewMemoryRepo()
	return NewService(NewMemoryRepo(), patients, src), patients
}

func admitOrderPatient(t *testing.T, patients patient.Repository) *patient.Patient {
	t.Helper()
	p := &patient.Patient{
		ID: "P-ORD1", Name: "Kemal Us", Age: 58, Room: "210",
		AdmittedAt: time.Now().UTC(),
		RiskTier:   patient.RiskMedium,
		Thresholds: patient.DefaultThresholds(),
	}
	if err := patients.Upsert(context.Background(), p); err != nil {
		t.Fatalf("upsert patient: %v", err)
	}
	return p
}

func TestCreate_AssignsLocalPrefixAndDefaults(t *testing.T) {
	svc, patients := newOrdersTestService(nil)
	p := admitOrderPatient(t, patients)

	o := &MedicalOrder{PatientID: p.ID, Medication: "Paracetamol", Frequency: "3x1", Route: "PO"}
	warning, err := svc.Create(context.Background(), o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning {
		t.Error("no dosage given, expected no warning")
	}
	if !strings.HasPrefix(o.ID, LocalIDPrefix) {
		t.Errorf("expected %s prefix, got %s", LocalIDPrefix, o.ID)
	}
	if o.Dosage != "-" {
		t.Errorf("expected dosage placeholder, got %q", o.Dosage)
	}
	if o.Status != StatusActive {
		t.Errorf("expected Active default, got %s", o.Status)
	}
	if o.StartedAt.IsZero() {
		t.Error("expected StartedAt to default")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, patients := newOrdersTestService(nil)
	p := admitOrderPatient(t, patients)

	if _, err := svc.Create(context.Background(), &MedicalOrder{PatientID: p.ID}); err == nil {
		t.Error("expected error for missing medication")
	}
	if _, err := svc.Create(context.Background(), &MedicalOrder{PatientID: p.ID, Medication: "X", Status: "Paused"}); err == nil {
		t.Error("expected error for invalid status")
	}
	if _, err := svc.Create(context.Background(), &MedicalOrder{PatientID: "P-NOPE", Medication: "X"}); !errors.Is(err, patient.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDosageExceedsSafeRange(t *testing.T) {
	tests := []struct {
		dosage string
		want   bool
	}{
		{"500mg", false},
		{"1999mg", false},
		{"2000mg", true},
		{"2500 mg", true},
		{"1g", false},
		{"1.5g", false},
		{"2g", true},
		{"3 g", true},
		{"-", false},
		{"", false},
		{"two tablets", false},
	}
	for _, tt := range tests {
		if got := DosageExceedsSafeRange(tt.dosage); got != tt.want {
			t.Errorf("DosageExceedsSafeRange(%q) = %v, want %v", tt.dosage, got, tt.want)
		}
	}
}

func TestCreate_DosageWarningDoesNotBlock(t *testing.T) {
	svc, patients := newOrdersTestService(nil)
	p := admitOrderPatient(t, patients)

	o := &MedicalOrder{PatientID: p.ID, Medication: "Ceftriaxone", Dosage: "2g", Frequency: "2x1", Route: "IV"}
	warning, err := svc.Create(context.Background(), o)
	if err != nil {
		t.Fatalf("a warned order must still be stored: %v", err)
	}
	if !warning {
		t.Error("expected dosage warning for 2g")
	}

	list, total, err := svc.List(context.Background(), p.ID, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Errorf("expected stored order, got total=%d", total)
	}
}

func TestSyncRemote_MergesOnlyNew(t *testing.T) {
	src := &mockRemoteSource{orders: []*MedicalOrder{
		{ID: RemoteIDPrefix + "1", Medication: "Enoxaparin", Dosage: "40mg", Frequency: "1x1", Route: "SC"},
		{ID: RemoteIDPrefix + "2", Medication: "Pantoprazole", Dosage: "40mg", Frequency: "1x1", Route: "IV"},
	}}
	svc, patients := newOrdersTestService(src)
	p := admitOrderPatient(t, patients)

	if _, err := svc.Create(context.Background(), &MedicalOrder{
		PatientID: p.ID, Medication: "Paracetamol", Frequency: "3x1", Route: "PO",
	}); err != nil {
		t.Fatalf("create local: %v", err)
	}

	added, err := svc.SyncRemote(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 remote orders added, got %d", len(added))
	}
	for _, o := range added {
		if o.PatientID != p.ID {
			t.Errorf("added order %s missing patient id", o.ID)
		}
		if !o.IsRemote() {
			t.Errorf("added order %s should be remote", o.ID)
		}
	}

	_, total, err := svc.List(context.Background(), p.ID, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 orders after sync, got %d", total)
	}
}

func TestSyncRemote_SecondSyncAddsNothing(t *testing.T) {
	src := &mockRemoteSource{orders: []*MedicalOrder{
		{ID: RemoteIDPrefix + "1", Medication: "Enoxaparin"},
	}}
	svc, patients := newOrdersTestService(src)
	p := admitOrderPatient(t, patients)

	if _, err := svc.SyncRemote(context.Background(), p.ID); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	added, err := svc.SyncRemote(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if len(added) != 0 {
		t.Errorf("expected idempotent sync, got %d additions", len(added))
	}

	_, total, _ := svc.List(context.Background(), p.ID, 10, 0)
	if total != 1 {
		t.Errorf("expected 1 order, got %d", total)
	}
}

func TestSyncRemote_FetchFailureLeavesStateIntact(t *testing.T) {
	src := &mockRemoteSource{err: errors.New("feed timeout")}
	svc, patients := newOrdersTestService(src)
	p := admitOrderPatient(t, patients)

	if _, err := svc.Create(context.Background(), &MedicalOrder{
		PatientID: p.ID, Medication: "Paracetamol", Frequency: "3x1", Route: "PO",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.SyncRemote(context.Background(), p.ID)
	if err == nil {
		t.Fatal("expected fetch failure to surface")
	}
	if !strings.Contains(err.Error(), "fetch remote orders") {
		t.Errorf("unexpected error text: %v", err)
	}

	_, total, _ := svc.List(context.Background(), p.ID, 10, 0)
	if total != 1 {
		t.Errorf("failed sync must not change stored orders, got %d", total)
	}
}

func TestSyncRemote_NotConfigured(t *testing.T) {
	svc, patients := newOrdersTestService(nil)
	p := admitOrderPatient(t, patients)

	if _, err := svc.SyncRemote(context.Background(), p.ID); err == nil {
		t.Error("expected error when no remote source is configured")
	}
}

func TestUpdateStatusAndDelete(t *testing.T) {
	svc, patients := newOrdersTestService(nil)
	p := admitOrderPatient(t, patients)

	o := &MedicalOrder{PatientID: p.ID, Medication: "Paracetamol", Frequency: "3x1", Route: "PO"}
	if _, err := svc.Create(context.Background(), o); err != nil {
		t.Fatalf("create: %v", err)
	}

	upd, err := svc.UpdateStatus(context.Background(), p.ID, o.ID, StatusDiscontinued)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if upd.Status != StatusDiscontinued {
		t.Errorf("expected Discontinued, got %s", upd.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), p.ID, o.ID, OrderStatus("Paused")); err == nil {
		t.Error("expected invalid status error")
	}
	if _, err := svc.UpdateStatus(context.Background(), p.ID, "ord-missing", StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), p.ID, o.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
