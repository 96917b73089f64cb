package orders

import (
	"context"
	"sync"
	"time"
)

type memoryRepo struct {
	mu     sync.RWMutex
	orders map[string][]*MedicalOrder
}

func NewMemoryRepo() Repository {
	return &memoryRepo{orders: make(map[string][]*MedicalOrder)}
}

func (r *memoryRepo) Create(_ context.Context, o *MedicalOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.CreatedAt = time.Now().UTC()
	cp := *o
	// Newest orders first, matching the bedside list.
	r.orders[o.PatientID] = append([]*MedicalOrder{&cp}, r.orders[o.PatientID]...)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, patientID, orderID string) (*MedicalOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders[patientID] {
		if o.ID == orderID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) UpdateStatus(_ context.Context, patientID, orderID string, status OrderStatus) (*MedicalOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders[patientID] {
		if o.ID == orderID {
			o.Status = status
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) Delete(_ context.Context, patientID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.orders[patientID]
	for i, o := range list {
		if o.ID == orderID {
			r.orders[patientID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryRepo) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*MedicalOrder, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.orders[patientID]
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	page := make([]*MedicalOrder, 0, end-offset)
	for _, o := range all[offset:end] {
		cp := *o
		page = append(page, &cp)
	}
	return page, total, nil
}
