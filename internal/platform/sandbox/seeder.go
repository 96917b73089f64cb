// Package sandbox seeds a small demo ward so a fresh deployment has
// patients, vitals, fluids, and orders to show without any manual entry.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitallink/vitallink/internal/domain/orders"
	"github.com/vitallink/vitallink/internal/domain/patient"
	"github.com/vitallink/vitallink/internal/domain/vitals"
)

// Seeder writes demo ward data through the repositories directly, bypassing
// the services so historical out-of-range readings do not fire notifications
// at startup.
type Seeder struct {
	patients patient.Repository
	fluids   patient.FluidRepository
	readings vitals.Repository
	orders   orders.Repository
	logger   zerolog.Logger
}

func NewSeeder(
	patients patient.Repository,
	fluids patient.FluidRepository,
	readings vitals.Repository,
	ords orders.Repository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		patients: patients,
		fluids:   fluids,
		readings: readings,
		orders:   ords,
		logger:   logger,
	}
}

// Seed inserts the demo ward. It is a no-op when any patients already
// exist, so restarting a seeded server never duplicates data.
func (s *Seeder) Seed(ctx context.Context) error {
	_, total, err := s.patients.List(ctx, 1, 0)
	if err != nil {
		return fmt.Errorf("check existing patients: %w", err)
	}
	if total > 0 {
		s.logger.Debug().Int("patients", total).Msg("demo seed skipped, data already present")
		return nil
	}

	now := time.Now().UTC()
	for _, d := range demoWard(now) {
		if err := s.patients.Upsert(ctx, d.patient); err != nil {
			return fmt.Errorf("seed patient %s: %w", d.patient.ID, err)
		}
		for _, v := range d.readings {
			if err := s.readings.Append(ctx, v); err != nil {
				return fmt.Errorf("seed reading %s: %w", v.ID, err)
			}
		}
		for _, f := range d.fluids {
			if err := s.fluids.Create(ctx, f); err != nil {
				return fmt.Errorf("seed fluid %s: %w", f.ID, err)
			}
		}
		for _, o := range d.orders {
			if err := s.orders.Create(ctx, o); err != nil {
				return fmt.Errorf("seed order %s: %w", o.ID, err)
			}
		}
	}

	s.logger.Info().Msg("demo ward seeded")
	return nil
}

type demoPatient struct {
	patient  *patient.Patient
	readings []*vitals.VitalReading
	fluids   []*patient.FluidRecord
	orders   []*orders.MedicalOrder
}

func strptr(s string) *string { return &s }

func demoWard(now time.Time) []demoPatient {
	ahmet := &patient.Patient{
		ID:         "P-1001",
		Name:       "Ahmet Yilmaz",
		Age:        54,
		Gender:     "Male",
		Diagnosis:  "Post-op appendectomy",
		Room:       "201",
		Bed:        "A",
		AdmittedAt: now.Add(-48 * time.Hour),
		RiskTier:   patient.RiskLow,
		Thresholds: patient.DefaultThresholds(),
		Anamnesis: &patient.Anamnesis{
			Complaint:          "Severe right lower quadrant pain, nausea.",
			History:            "Presented to the ER with abdominal pain that started two days earlier.",
			PastMedicalHistory: "Hypertension (5 years)",
			FamilyHistory:      "Father: history of MI",
			Medications:        "Ramipril 5mg once daily",
			Allergies:          "Penicillin",
			Habits:             "Smoker (10 pack-years)",
			UpdatedAt:          now.Add(-48 * time.Hour),
		},
		CreatedAt: now.Add(-48 * time.Hour),
		UpdatedAt: now.Add(-48 * time.Hour),
	}

	elifThresholds := patient.DefaultThresholds()
	elifThresholds.SpO2Low = 90
	elifThresholds.TemperatureHigh = 37.8
	elif := &patient.Patient{
		ID:         "P-1002",
		Name:       "Elif Kaya",
		Age:        72,
		Gender:     "Female",
		Diagnosis:  "Pneumonia",
		Room:       "202",
		Bed:        "B",
		AdmittedAt: now.Add(-96 * time.Hour),
		RiskTier:   patient.RiskHigh,
		Thresholds: elifThresholds,
		CreatedAt:  now.Add(-96 * time.Hour),
		UpdatedAt:  now.Add(-96 * time.Hour),
	}

	mehmet := &patient.Patient{
		ID:         "P-1003",
		Name:       "Mehmet Demir",
		Age:        45,
		Gender:     "Male",
		Diagnosis:  "Observation, hypertension",
		Room:       "203",
		Bed:        "A",
		AdmittedAt: now.Add(-5 * time.Hour),
		RiskTier:   patient.RiskMedium,
		Thresholds: patient.DefaultThresholds(),
		CreatedAt:  now.Add(-5 * time.Hour),
		UpdatedAt:  now.Add(-5 * time.Hour),
	}

	return []demoPatient{
		{
			patient: ahmet,
			readings: []*vitals.VitalReading{
				{
					ID: "V-1001-1", PatientID: ahmet.ID, TakenAt: now.Add(-24 * time.Hour),
					Systolic: 125, Diastolic: 82, HeartRate: 78, Temperature: 36.6,
					SpO2: 98, RespiratoryRate: 16, CreatedAt: now.Add(-24 * time.Hour),
				},
				{
					ID: "V-1001-2", PatientID: ahmet.ID, TakenAt: now.Add(-12 * time.Hour),
					Systolic: 128, Diastolic: 85, HeartRate: 80, Temperature: 37.0,
					SpO2: 97, RespiratoryRate: 18, CreatedAt: now.Add(-12 * time.Hour),
				},
			},
			fluids: []*patient.FluidRecord{
				{
					ID: "F-1001-1", PatientID: ahmet.ID, IntakeML: 250,
					Note: strptr("Oral water intake"), RecordedAt: now.Add(-2 * time.Hour),
					CreatedAt: now.Add(-2 * time.Hour),
				},
			},
			orders: []*orders.MedicalOrder{
				{
					ID: orders.LocalIDPrefix + "1001-1", PatientID: ahmet.ID,
					Medication: "Paracetamol", Dosage: "500mg", Frequency: "3x1",
					Route: "IV", Status: orders.StatusActive,
					StartedAt: now.Add(-24 * time.Hour), Note: strptr("As needed for pain"),
					CreatedAt: now.Add(-24 * time.Hour),
				},
				{
					ID: orders.LocalIDPrefix + "1001-2", PatientID: ahmet.ID,
					Medication: "Ceftriaxone", Dosage: "1g", Frequency: "2x1",
					Route: "IV", Status: orders.StatusActive,
					StartedAt: now.Add(-24 * time.Hour),
					CreatedAt: now.Add(-24 * time.Hour),
				},
			},
		},
		{
			patient: elif,
			readings: []*vitals.VitalReading{
				{
					ID: "V-1002-1", PatientID: elif.ID, TakenAt: now.Add(-48 * time.Hour),
					Systolic: 145, Diastolic: 95, HeartRate: 92, Temperature: 38.5,
					SpO2: 92, RespiratoryRate: 22, CreatedAt: now.Add(-48 * time.Hour),
				},
				{
					ID: "V-1002-2", PatientID: elif.ID, TakenAt: now.Add(-24 * time.Hour),
					Systolic: 140, Diastolic: 90, HeartRate: 88, Temperature: 38.1,
					SpO2: 94, RespiratoryRate: 20, CreatedAt: now.Add(-24 * time.Hour),
				},
				{
					ID: "V-1002-3", PatientID: elif.ID, TakenAt: now.Add(-2 * time.Hour),
					Systolic: 135, Diastolic: 85, HeartRate: 84, Temperature: 37.5,
					SpO2: 96, RespiratoryRate: 19, CreatedAt: now.Add(-2 * time.Hour),
				},
			},
		},
		{
			patient: mehmet,
			readings: []*vitals.VitalReading{
				{
					ID: "V-1003-1", PatientID: mehmet.ID, TakenAt: now.Add(-4 * time.Hour),
					Systolic: 150, Diastolic: 95, HeartRate: 85, Temperature: 36.8,
					SpO2: 98, RespiratoryRate: 17, CreatedAt: now.Add(-4 * time.Hour),
				},
			},
		},
	}
}
