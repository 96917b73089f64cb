package patient

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepo is the default single-node patient store. All engine calls read
// values out of it and write replacements back in; nothing mutates a stored
// record in place.
type memoryRepo struct {
	mu       sync.RWMutex
	patients map[string]*Patient
}

func NewMemoryRepo() Repository {
	return &memoryRepo{patients: make(map[string]*Patient)}
}

func (r *memoryRepo) Upsert(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.patients[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.patients[p.ID] = p.Clone()
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (r *memoryRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		all = append(all, p)
	}
	// Newest admissions first, stable across ticks.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	page := make([]*Patient, 0, end-offset)
	for _, p := range all[offset:end] {
		page = append(page, p.Clone())
	}
	return page, total, nil
}

type memoryFluidRepo struct {
	mu      sync.RWMutex
	records map[string][]*FluidRecord
}

func NewMemoryFluidRepo() FluidRepository {
	return &memoryFluidRepo{records: make(map[string][]*FluidRecord)}
}

func (r *memoryFluidRepo) Create(_ context.Context, rec *FluidRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = time.Now().UTC()
	cp := *rec
	// Newest entries first, matching bedside charting order.
	r.records[rec.PatientID] = append([]*FluidRecord{&cp}, r.records[rec.PatientID]...)
	return nil
}

func (r *memoryFluidRepo) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*FluidRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.records[patientID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	page := make([]*FluidRecord, 0, end-offset)
	for _, rec := range all[offset:end] {
		cp := *rec
		page = append(page, &cp)
	}
	return page, total, nil
}
