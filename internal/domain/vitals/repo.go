package vitals

import (
	"context"
)

// Repository holds the append-only reading log for each patient. Latest
// returns (nil, nil) for a patient with no readings yet; the absence of a
// reading is a defined state, not an error.
type Repository interface {
	Append(ctx context.Context, v *VitalReading) error
	Latest(ctx context.Context, patientID string) (*VitalReading, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*VitalReading, int, error)
}
