package admission

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for tests and local
// development.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[int64]Admission
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]Admission)}
}

func (m *MemoryRepository) GetByID(ctx context.Context, id int64) (*Admission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, ErrAdmissionNotFound
	}
	return &a, nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]Admission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Admission, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AdmittedAt.Equal(out[j].AdmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AdmittedAt.Before(out[j].AdmittedAt)
	})
	return out, nil
}

func (m *MemoryRepository) Create(ctx context.Context, a Admission) (*Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	a.ID = m.nextID
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	m.byID[a.ID] = a
	return &a, nil
}

func (m *MemoryRepository) Update(ctx context.Context, a Admission) (*Admission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.byID[a.ID]
	if !ok {
		return nil, ErrAdmissionNotFound
	}

	a.PatientID = prev.PatientID
	a.RoomID = prev.RoomID
	a.AttendingDoctorID = prev.AttendingDoctorID
	a.CreatedAt = prev.CreatedAt
	a.UpdatedAt = time.Now()

	m.byID[a.ID] = a
	return &a, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return ErrAdmissionNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MemoryRepository) CountActive(ctx context.Context, roomID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, a := range m.byID {
		if a.RoomID == roomID && a.Status == StatusAdmitted {
			count++
		}
	}
	return count, nil
}
