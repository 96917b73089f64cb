package vitals

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

func TestRefresher_LogsOverdueTransitionOnce(t *testing.T) {
	patients := patient.NewMemoryRepo()
	readings := NewMemoryRepo()

	p := &patient.Patient{
		ID: "P-1", Name: "Ali Vural", Age: 70, Room: "101",
		AdmittedAt: time.Now().UTC(),
		RiskTier:   patient.RiskHigh,
		Thresholds: patient.DefaultThresholds(),
	}
	if err := patients.Upsert(context.Background(), p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	stale := &VitalReading{
		PatientID: p.ID, TakenAt: time.Now().UTC().Add(-3 * time.Hour),
		Systolic: 120, Diastolic: 80, HeartRate: 70, Temperature: 36.7,
		SpO2: 98, RespiratoryRate: 15,
	}
	if err := readings.Append(context.Background(), stale); err != nil {
		t.Fatalf("append: %v", err)
	}

	var buf bytes.Buffer
	r := NewRefresher(patients, readings, zerolog.New(&buf))

	r.refresh(context.Background())
	r.refresh(context.Background())
	r.refresh(context.Background())

	got := strings.Count(buf.String(), "measurement overdue")
	if got != 1 {
		t.Errorf("expected exactly one overdue transition log, got %d\n%s", got, buf.String())
	}
}

func TestRefresher_NoLogWhileOnTime(t *testing.T) {
	patients := patient.NewMemoryRepo()
	readings := NewMemoryRepo()

	p := &patient.Patient{
		ID: "P-2", Name: "Zeynep Arslan", Age: 40, Room: "102",
		AdmittedAt: time.Now().UTC(),
		RiskTier:   patient.RiskLow,
		Thresholds: patient.DefaultThresholds(),
	}
	if err := patients.Upsert(context.Background(), p); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	fresh := &VitalReading{
		PatientID: p.ID, TakenAt: time.Now().UTC(),
		Systolic: 120, Diastolic: 80, HeartRate: 70, Temperature: 36.7,
		SpO2: 98, RespiratoryRate: 15,
	}
	if err := readings.Append(context.Background(), fresh); err != nil {
		t.Fatalf("append: %v", err)
	}

	var buf bytes.Buffer
	r := NewRefresher(patients, readings, zerolog.New(&buf))
	r.refresh(context.Background())

	if strings.Contains(buf.String(), "measurement overdue") {
		t.Errorf("unexpected overdue log for on-time patient:\n%s", buf.String())
	}
}

func TestRefresher_StartStopsOnCancel(t *testing.T) {
	patients := patient.NewMemoryRepo()
	readings := NewMemoryRepo()

	r := NewRefresher(patients, readings, zerolog.Nop())
	r.Interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancel")
	}
}
