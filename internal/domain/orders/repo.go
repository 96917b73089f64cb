package orders

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an order ID has no entry for the patient.
var ErrNotFound = errors.New("order not found")

// Repository holds each patient's order list, newest first.
type Repository interface {
	Create(ctx context.Context, o *MedicalOrder) error
	GetByID(ctx context.Context, patientID, orderID string) (*MedicalOrder, error)
	UpdateStatus(ctx context.Context, patientID, orderID string, status OrderStatus) (*MedicalOrder, error)
	Delete(ctx context.Context, patientID, orderID string) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*MedicalOrder, int, error)
}
