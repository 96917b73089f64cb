package vitals

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu       sync.RWMutex
	readings map[string][]*VitalReading
}

func NewMemoryRepo() Repository {
	return &memoryRepo{readings: make(map[string][]*VitalReading)}
}

func (r *memoryRepo) Append(_ context.Context, v *VitalReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	v.CreatedAt = time.Now().UTC()
	cp := *v
	r.readings[v.PatientID] = append(r.readings[v.PatientID], &cp)
	return nil
}

func (r *memoryRepo) Latest(_ context.Context, patientID string) (*VitalReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.readings[patientID]
	if len(list) == 0 {
		return nil, nil
	}
	// Ordering is by timestamp, not insertion, though appends arrive in
	// timestamp order in practice.
	latest := list[0]
	for _, v := range list[1:] {
		if v.TakenAt.After(latest.TakenAt) {
			latest = v
		}
	}
	cp := *latest
	return &cp, nil
}

func (r *memoryRepo) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*VitalReading, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.readings[patientID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	page := make([]*VitalReading, 0, end-offset)
	for _, v := range all[offset:end] {
		cp := *v
		page = append(page, &cp)
	}
	return page, total, nil
}
