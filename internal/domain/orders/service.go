package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitallink/vitallink/internal/domain/patient"
)

// RemoteSource is the external order feed collaborator (the hospital order
// system). It may be slow; callers must tolerate latency around 1.5s and must
// surface failure instead of merging partial data.
type RemoteSource interface {
	FetchOrders(ctx context.Context, patientID string) ([]*MedicalOrder, error)
}

// maxMergePage bounds the existing-order list loaded for reconciliation.
const maxMergePage = 1000

type Service struct {
	orders   Repository
	patients patient.Repository
	source   RemoteSource
}

func NewService(orders Repository, patients patient.Repository, source RemoteSource) *Service {
	return &Service{orders: orders, patients: patients, source: source}
}

// Create stores a locally entered order. The returned flag reports whether
// the dosage tripped the safety heuristic; the order is stored either way.
// The warning is advisory, surfaced at the entry form, and kept out of the
// evaluation engine.
func (s *Service) Create(ctx context.Context, o *MedicalOrder) (dosageWarning bool, err error) {
	if o.PatientID == "" {
		return false, fmt.Errorf("patient_id is required")
	}
	if _, err := s.patients.GetByID(ctx, o.PatientID); err != nil {
		return false, err
	}
	if strings.TrimSpace(o.Medication) == "" {
		return false, fmt.Errorf("medication is required")
	}
	if o.ID == "" {
		o.ID = LocalIDPrefix + uuid.New().String()
	}
	if o.Dosage == "" {
		o.Dosage = "-"
	}
	if o.Status == "" {
		o.Status = StatusActive
	}
	if !validStatuses[o.Status] {
		return false, fmt.Errorf("invalid status: %s", o.Status)
	}
	if o.StartedAt.IsZero() {
		o.StartedAt = time.Now().UTC()
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return false, err
	}
	return DosageExceedsSafeRange(o.Dosage), nil
}

func (s *Service) List(ctx context.Context, patientID string, limit, offset int) ([]*MedicalOrder, int, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, 0, err
	}
	return s.orders.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, patientID, orderID string, status OrderStatus) (*MedicalOrder, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.orders.UpdateStatus(ctx, patientID, orderID, status)
}

func (s *Service) Delete(ctx context.Context, patientID, orderID string) error {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return err
	}
	return s.orders.Delete(ctx, patientID, orderID)
}

// SyncRemote fetches the remote order batch for the patient and stores the
// ones not seen before. A failed fetch changes nothing and is returned to the
// caller; it is never folded into an empty-but-successful merge.
func (s *Service) SyncRemote(ctx context.Context, patientID string) ([]*MedicalOrder, error) {
	if s.source == nil {
		return nil, fmt.Errorf("remote order source not configured")
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	fetched, err := s.source.FetchOrders(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("fetch remote orders: %w", err)
	}

	existing, _, err := s.orders.ListByPatient(ctx, patientID, maxMergePage, 0)
	if err != nil {
		return nil, fmt.Errorf("load current orders: %w", err)
	}

	added := MergeRemote(existing, fetched)
	for _, o := range added {
		o.PatientID = patientID
		if o.Status == "" {
			o.Status = StatusActive
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return nil, fmt.Errorf("store remote order %s: %w", o.ID, err)
		}
	}
	return added, nil
}

// DosageExceedsSafeRange flags dosage strings at or above 2 g / 2000 mg. A
// crude numeric heuristic carried over from the order-entry form; it never
// blocks an order, it only prompts the clinician to double-check.
func DosageExceedsSafeRange(dosage string) bool {
	lower := strings.ToLower(dosage)
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, lower)
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return false
	}
	isGram := strings.Contains(lower, "g") && !strings.Contains(lower, "mg")
	if isGram {
		return value >= 2
	}
	return value >= 2000
}
