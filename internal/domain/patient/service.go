package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
	fluids   FluidRepository
}

func NewService(patients Repository, fluids FluidRepository) *Service {
	return &Service{patients: patients, fluids: fluids}
}

// Repo exposes the underlying patient store for collaborators wired in main.
func (s *Service) Repo() Repository {
	return s.patients
}

// Admit registers a new patient with default thresholds and an empty history.
func (s *Service) Admit(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age <= 0 {
		return fmt.Errorf("age must be positive")
	}
	if strings.TrimSpace(p.Room) == "" {
		return fmt.Errorf("room is required")
	}
	if p.ID == "" {
		p.ID = "P-" + strings.ToUpper(uuid.New().String()[:8])
	}
	if p.RiskTier == "" {
		p.RiskTier = RiskLow
	}
	if !ValidRiskTiers[p.RiskTier] {
		return fmt.Errorf("invalid risk tier: %s", p.RiskTier)
	}
	if (p.Thresholds == ThresholdSet{}) {
		p.Thresholds = DefaultThresholds()
	}
	if err := validateThresholds(p.Thresholds); err != nil {
		return err
	}
	if p.AdmittedAt.IsZero() {
		p.AdmittedAt = time.Now().UTC()
	}
	return s.patients.Upsert(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// UpdateDemographics replaces the identifying fields, leaving thresholds,
// risk tier, and clinical history untouched.
func (s *Service) UpdateDemographics(ctx context.Context, id string, upd *Patient) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(upd.Name) != "" {
		p.Name = upd.Name
	}
	if upd.Age > 0 {
		p.Age = upd.Age
	}
	if upd.Gender != "" {
		p.Gender = upd.Gender
	}
	if upd.Diagnosis != "" {
		p.Diagnosis = upd.Diagnosis
	}
	if upd.Room != "" {
		p.Room = upd.Room
	}
	if upd.Bed != "" {
		p.Bed = upd.Bed
	}
	if upd.PhotoURL != nil {
		p.PhotoURL = upd.PhotoURL
	}
	if err := s.patients.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateThresholds swaps in a new threshold set. Past readings are never
// re-evaluated; the new bounds apply from the next evaluation on.
func (s *Service) UpdateThresholds(ctx context.Context, id string, t ThresholdSet) (*Patient, error) {
	if err := validateThresholds(t); err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Thresholds = t
	if err := s.patients.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateRiskTier(ctx context.Context, id string, tier RiskTier) (*Patient, error) {
	if !ValidRiskTiers[tier] {
		return nil, fmt.Errorf("invalid risk tier: %s", tier)
	}
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.RiskTier = tier
	if err := s.patients.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateAnamnesis(ctx context.Context, id string, a Anamnesis) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now().UTC()
	p.Anamnesis = &a
	if err := s.patients.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordFluid appends one intake/output entry for the patient.
func (s *Service) RecordFluid(ctx context.Context, rec *FluidRecord) error {
	if rec.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if _, err := s.patients.GetByID(ctx, rec.PatientID); err != nil {
		return err
	}
	if rec.IntakeML < 0 || rec.OutputML < 0 {
		return fmt.Errorf("fluid volumes must not be negative")
	}
	if rec.IntakeML == 0 && rec.OutputML == 0 {
		return fmt.Errorf("either intake or output volume is required")
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	return s.fluids.Create(ctx, rec)
}

func (s *Service) ListFluids(ctx context.Context, patientID string, limit, offset int) ([]*FluidRecord, int, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, 0, err
	}
	return s.fluids.ListByPatient(ctx, patientID, limit, offset)
}

func validateThresholds(t ThresholdSet) error {
	if t.SystolicLow >= t.SystolicHigh {
		return fmt.Errorf("systolic low bound (%g) must be below high bound (%g)", t.SystolicLow, t.SystolicHigh)
	}
	if t.DiastolicLow >= t.DiastolicHigh {
		return fmt.Errorf("diastolic low bound (%g) must be below high bound (%g)", t.DiastolicLow, t.DiastolicHigh)
	}
	if t.HeartRateLow >= t.HeartRateHigh {
		return fmt.Errorf("heart rate low bound (%g) must be below high bound (%g)", t.HeartRateLow, t.HeartRateHigh)
	}
	if t.TemperatureLow >= t.TemperatureHigh {
		return fmt.Errorf("temperature low bound (%g) must be below high bound (%g)", t.TemperatureLow, t.TemperatureHigh)
	}
	if t.SpO2Low <= 0 || t.SpO2Low > 100 {
		return fmt.Errorf("spo2 low bound (%g) must be within (0, 100]", t.SpO2Low)
	}
	return nil
}
