package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a patient ID has no entry in the store.
var ErrNotFound = errors.New("patient not found")

// Repository is the patient store collaborator. Upsert replaces the whole
// record for the patient's ID; readers always get an independent copy.
type Repository interface {
	Upsert(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}

type FluidRepository interface {
	Create(ctx context.Context, r *FluidRecord) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*FluidRecord, int, error)
}
