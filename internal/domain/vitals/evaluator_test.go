package vitals

import (
	"strings"
	"testing"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

func TestAlerts_NilReading(t *testing.T) {
	if got := Alerts(nil, patient.DefaultThresholds()); got != nil {
		t.Errorf("expected nil for nil reading, got %v", got)
	}
}

func TestAlerts_AllWithinRange(t *testing.T) {
	v := &VitalReading{
		Systolic: 120, Diastolic: 80, HeartRate: 72,
		Temperature: 36.8, SpO2: 98, RespiratoryRate: 16,
	}
	if got := Alerts(v, patient.DefaultThresholds()); len(got) != 0 {
		t.Errorf("expected no alerts, got %v", got)
	}
}

func TestAlerts_MultipleBreachesEmbedValues(t *testing.T) {
	th := patient.DefaultThresholds()
	th.SystolicHigh = 160
	th.SpO2Low = 92

	v := &VitalReading{
		Systolic: 165, Diastolic: 80, HeartRate: 72,
		Temperature: 36.8, SpO2: 90, RespiratoryRate: 16,
	}

	got := Alerts(v, th)
	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %v", len(got), got)
	}
	if got[0] != "High systolic pressure (165)" {
		t.Errorf("unexpected first alert: %q", got[0])
	}
	if got[1] != "Low SpO2 (90%)" {
		t.Errorf("unexpected second alert: %q", got[1])
	}
}

func TestAlerts_BoundEqualIsSafe(t *testing.T) {
	th := patient.DefaultThresholds()
	v := &VitalReading{
		Systolic:    th.SystolicHigh,
		Diastolic:   th.DiastolicLow,
		HeartRate:   th.HeartRateHigh,
		Temperature: th.TemperatureLow,
		SpO2:        th.SpO2Low,
	}
	if got := Alerts(v, th); len(got) != 0 {
		t.Errorf("values exactly at a bound must not alert, got %v", got)
	}
}

func TestAlerts_FixedOrder(t *testing.T) {
	th := patient.ThresholdSet{
		SystolicHigh: 100, SystolicLow: 90,
		DiastolicHigh: 80, DiastolicLow: 70,
		HeartRateHigh: 90, HeartRateLow: 80,
		TemperatureHigh: 37, TemperatureLow: 36.5,
		SpO2Low: 99,
	}
	// Breach every high bound plus SpO2 at once.
	v := &VitalReading{
		Systolic: 150, Diastolic: 95, HeartRate: 120,
		Temperature: 39.2, SpO2: 85,
	}

	got := Alerts(v, th)
	wantPrefixes := []string{
		"High systolic pressure",
		"High diastolic pressure",
		"High heart rate",
		"High temperature",
		"Low SpO2",
	}
	if len(got) != len(wantPrefixes) {
		t.Fatalf("expected %d alerts, got %d: %v", len(wantPrefixes), len(got), got)
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(got[i], prefix) {
			t.Errorf("alert %d = %q, want prefix %q", i, got[i], prefix)
		}
	}
}

func TestAlerts_TemperatureFormatting(t *testing.T) {
	th := patient.DefaultThresholds()
	v := &VitalReading{
		Systolic: 120, Diastolic: 80, HeartRate: 72,
		Temperature: 38.5, SpO2: 98,
	}
	got := Alerts(v, th)
	if len(got) != 1 {
		t.Fatalf("expected 1 alert, got %v", got)
	}
	if got[0] != "High temperature (38.5°C)" {
		t.Errorf("unexpected alert text: %q", got[0])
	}
}

func TestAlerts_LowBreaches(t *testing.T) {
	th := patient.DefaultThresholds()
	v := &VitalReading{
		Systolic: 85, Diastolic: 45, HeartRate: 42,
		Temperature: 35.0, SpO2: 98,
	}
	got := Alerts(v, th)
	want := []string{
		"Low systolic pressure (85)",
		"Low diastolic pressure (45)",
		"Low heart rate (42)",
		"Low temperature (35.0°C)",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d alerts, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("alert %d = %q, want %q", i, got[i], want[i])
		}
	}
}
