package vitals

import (
	"context"
	"fmt"
	"time"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

type Service struct {
	readings Repository
	patients patient.Repository
	gate     *DispatchGate
}

func NewService(readings Repository, patients patient.Repository, gate *DispatchGate) *Service {
	return &Service{readings: readings, patients: patients, gate: gate}
}

// CommitResult is the outcome of one committed reading: the stored record
// plus the alerts that fired against the thresholds in effect at commit time.
type CommitResult struct {
	Reading *VitalReading `json:"reading"`
	Alerts  []string      `json:"alerts"`
}

// CommitReading validates and appends one reading, then runs the dispatch
// gate. The append always completes before the notifier is consulted, so a
// notification failure can never leave the store in a partial state.
func (s *Service) CommitReading(ctx context.Context, v *VitalReading) (*CommitResult, error) {
	if v.PatientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	p, err := s.patients.GetByID(ctx, v.PatientID)
	if err != nil {
		return nil, err
	}
	if err := validateReading(v); err != nil {
		return nil, err
	}
	if v.TakenAt.IsZero() {
		v.TakenAt = time.Now().UTC()
	}

	if err := s.readings.Append(ctx, v); err != nil {
		return nil, fmt.Errorf("append reading: %w", err)
	}

	alerts := s.gate.ReadingCommitted(ctx, p, v)
	return &CommitResult{Reading: v, Alerts: alerts}, nil
}

func (s *Service) ListReadings(ctx context.Context, patientID string, limit, offset int) ([]*VitalReading, int, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, 0, err
	}
	return s.readings.ListByPatient(ctx, patientID, limit, offset)
}

// Status returns the measurement-schedule classification for one patient.
func (s *Service) Status(ctx context.Context, patientID string) (ScheduleStatus, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return ScheduleStatus{}, err
	}
	last, err := s.readings.Latest(ctx, patientID)
	if err != nil {
		return ScheduleStatus{}, fmt.Errorf("load latest reading: %w", err)
	}
	return Schedule(last, p.RiskTier, time.Now().UTC()), nil
}

// PatientSummary is one dashboard row: the patient plus their computed alert
// and schedule state.
type PatientSummary struct {
	Patient     *patient.Patient `json:"patient"`
	LastReading *VitalReading    `json:"last_reading,omitempty"`
	Alerts      []string         `json:"alerts"`
	Schedule    ScheduleStatus   `json:"schedule"`
}

// Dashboard recomputes alerts and schedule state for a page of patients. It
// is re-read on every render tick, so it must stay cheap and side-effect
// free: evaluation here never dispatches notifications.
func (s *Service) Dashboard(ctx context.Context, limit, offset int) ([]*PatientSummary, int, error) {
	patients, total, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now().UTC()
	summaries := make([]*PatientSummary, 0, len(patients))
	for _, p := range patients {
		last, err := s.readings.Latest(ctx, p.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("load latest reading for %s: %w", p.ID, err)
		}
		summaries = append(summaries, &PatientSummary{
			Patient:     p,
			LastReading: last,
			Alerts:      Alerts(last, p.Thresholds),
			Schedule:    Schedule(last, p.RiskTier, now),
		})
	}
	return summaries, total, nil
}

func validateReading(v *VitalReading) error {
	if v.Systolic <= 0 || v.Diastolic <= 0 {
		return fmt.Errorf("blood pressure values must be positive")
	}
	if v.Diastolic >= v.Systolic {
		return fmt.Errorf("diastolic (%g) must be below systolic (%g)", v.Diastolic, v.Systolic)
	}
	if v.HeartRate <= 0 {
		return fmt.Errorf("heart rate must be positive")
	}
	if v.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive")
	}
	if v.SpO2 <= 0 || v.SpO2 > 100 {
		return fmt.Errorf("spo2 (%g) must be within (0, 100]", v.SpO2)
	}
	if v.RespiratoryRate <= 0 {
		return fmt.Errorf("respiratory rate must be positive")
	}
	return nil
}
