package vitals

import (
	"time"
)

// VitalReading is one immutable set of vital-sign measurements. Readings are
// append-only; once committed they are never edited, and the alerts computed
// for them at commit time are never recomputed against later threshold edits.
type VitalReading struct {
	ID              string    `db:"id" json:"id"`
	PatientID       string    `db:"patient_id" json:"patient_id"`
	TakenAt         time.Time `db:"taken_at" json:"taken_at"`
	Systolic        float64   `db:"systolic" json:"systolic"`
	Diastolic       float64   `db:"diastolic" json:"diastolic"`
	HeartRate       float64   `db:"heart_rate" json:"heart_rate"`
	Temperature     float64   `db:"temperature" json:"temperature"`
	SpO2            float64   `db:"spo2" json:"spo2"`
	RespiratoryRate float64   `db:"respiratory_rate" json:"respiratory_rate"`
	Note            *string   `db:"note" json:"note,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
