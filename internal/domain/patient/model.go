package patient

import (
	"time"
)

// RiskTier is the coarse clinical priority classification that drives how
// often a patient's vitals must be measured.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// ValidRiskTiers enumerates the tiers a clinician may assign.
var ValidRiskTiers = map[RiskTier]bool{
	RiskLow:    true,
	RiskMedium: true,
	RiskHigh:   true,
}

// ThresholdSet holds the per-patient safe-range bounds used to flag vital
// readings. SpO2 only has a low bound; hyperoxia is not modeled.
type ThresholdSet struct {
	SystolicHigh    float64 `db:"systolic_high" json:"systolic_high"`
	SystolicLow     float64 `db:"systolic_low" json:"systolic_low"`
	DiastolicHigh   float64 `db:"diastolic_high" json:"diastolic_high"`
	DiastolicLow    float64 `db:"diastolic_low" json:"diastolic_low"`
	HeartRateHigh   float64 `db:"heart_rate_high" json:"heart_rate_high"`
	HeartRateLow    float64 `db:"heart_rate_low" json:"heart_rate_low"`
	TemperatureHigh float64 `db:"temperature_high" json:"temperature_high"`
	TemperatureLow  float64 `db:"temperature_low" json:"temperature_low"`
	SpO2Low         float64 `db:"spo2_low" json:"spo2_low"`
}

// DefaultThresholds returns the ward-standard bounds applied on admission
// until a clinician tunes them for the patient.
func DefaultThresholds() ThresholdSet {
	return ThresholdSet{
		SystolicHigh:    160,
		SystolicLow:     90,
		DiastolicHigh:   100,
		DiastolicLow:    50,
		HeartRateHigh:   110,
		HeartRateLow:    50,
		TemperatureHigh: 38.0,
		TemperatureLow:  35.5,
		SpO2Low:         92,
	}
}

// Anamnesis is the free-text clinical history recorded at the bedside.
type Anamnesis struct {
	Complaint          string    `json:"complaint"`
	History            string    `json:"history"`
	PastMedicalHistory string    `json:"past_medical_history"`
	FamilyHistory      string    `json:"family_history"`
	Medications        string    `json:"medications"`
	Allergies          string    `json:"allergies"`
	Habits             string    `json:"habits"`
	SystemReview       *string   `json:"system_review,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Patient is the aggregate root for one admitted patient. Vital readings,
// fluid records, and medical orders are kept in their own collections keyed
// by patient ID rather than embedded here, so engine calls never hold aliases
// into a shared slice.
type Patient struct {
	ID         string       `db:"id" json:"id"`
	Name       string       `db:"name" json:"name"`
	Age        int          `db:"age" json:"age"`
	Gender     string       `db:"gender" json:"gender"`
	Diagnosis  string       `db:"diagnosis" json:"diagnosis"`
	Room       string       `db:"room" json:"room"`
	Bed        string       `db:"bed" json:"bed"`
	AdmittedAt time.Time    `db:"admitted_at" json:"admitted_at"`
	RiskTier   RiskTier     `db:"risk_tier" json:"risk_tier"`
	Thresholds ThresholdSet `db:"thresholds" json:"thresholds"`
	PhotoURL   *string      `db:"photo_url" json:"photo_url,omitempty"`
	Anamnesis  *Anamnesis   `db:"anamnesis" json:"anamnesis,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate freely before upserting.
func (p *Patient) Clone() *Patient {
	cp := *p
	if p.PhotoURL != nil {
		u := *p.PhotoURL
		cp.PhotoURL = &u
	}
	if p.Anamnesis != nil {
		a := *p.Anamnesis
		if p.Anamnesis.SystemReview != nil {
			sr := *p.Anamnesis.SystemReview
			a.SystemReview = &sr
		}
		cp.Anamnesis = &a
	}
	return &cp
}

// FluidRecord is one timestamped intake/output volume entry. It carries no
// threshold logic; it is tracked for balance charting only.
type FluidRecord struct {
	ID         string    `db:"id" json:"id"`
	PatientID  string    `db:"patient_id" json:"patient_id"`
	IntakeML   float64   `db:"intake_ml" json:"intake_ml"`
	OutputML   float64   `db:"output_ml" json:"output_ml"`
	Type       *string   `db:"type" json:"type,omitempty"`
	Note       *string   `db:"note" json:"note,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
