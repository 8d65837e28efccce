package visit

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for tests and local
// development.
type MemoryRepository struct {
	mu            sync.RWMutex
	visits        map[int64]Visit
	records       map[int64]MedicalRecord
	prescriptions map[int64]Prescription
	nextID        int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		visits:        make(map[int64]Visit),
		records:       make(map[int64]MedicalRecord),
		prescriptions: make(map[int64]Prescription),
	}
}

func (m *MemoryRepository) nextIDLocked() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemoryRepository) GetByID(ctx context.Context, id int64) (*Visit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.visits[id]
	if !ok {
		return nil, ErrVisitNotFound
	}
	return &v, nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]Visit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Visit, 0, len(m.visits))
	for _, v := range m.visits {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VisitTime.Equal(out[j].VisitTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].VisitTime.Before(out[j].VisitTime)
	})
	return out, nil
}

func (m *MemoryRepository) Create(ctx context.Context, v Visit) (*Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v.ID = m.nextIDLocked()
	v.CreatedAt = time.Now()
	m.visits[v.ID] = v
	return &v, nil
}

func (m *MemoryRepository) DeleteCascade(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.visits[id]; !ok {
		return ErrVisitNotFound
	}

	for rid, rec := range m.records {
		if rec.VisitID == id {
			delete(m.records, rid)
		}
	}
	for pid, p := range m.prescriptions {
		if p.VisitID == id {
			delete(m.prescriptions, pid)
		}
	}
	delete(m.visits, id)
	return nil
}

func (m *MemoryRepository) AddMedicalRecord(ctx context.Context, rec MedicalRecord) (*MedicalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.visits[rec.VisitID]; !ok {
		return nil, ErrVisitNotFound
	}

	rec.ID = m.nextIDLocked()
	rec.CreatedAt = time.Now()
	m.records[rec.ID] = rec
	return &rec, nil
}

func (m *MemoryRepository) AddPrescription(ctx context.Context, p Prescription) (*Prescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.visits[p.VisitID]; !ok {
		return nil, ErrVisitNotFound
	}

	p.ID = m.nextIDLocked()
	p.CreatedAt = time.Now()
	for i := range p.Items {
		p.Items[i].ID = m.nextIDLocked()
		p.Items[i].PrescriptionID = p.ID
	}
	m.prescriptions[p.ID] = p
	return &p, nil
}

func (m *MemoryRepository) ListMedicalRecords(ctx context.Context, visitID int64) ([]MedicalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []MedicalRecord
	for _, rec := range m.records {
		if rec.VisitID == visitID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryRepository) ListPrescriptions(ctx context.Context, visitID int64) ([]Prescription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Prescription
	for _, p := range m.prescriptions {
		if p.VisitID == visitID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
