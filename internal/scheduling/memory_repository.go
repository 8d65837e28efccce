package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"
)

type interval struct {
	id    int64
	start time.Time
	end   time.Time
}

// MemoryRepository is an in-memory Repository for tests and local
// development. A per-doctor sorted interval set serves the overlap query;
// because the scheduler keeps SCHEDULED intervals disjoint, lookup only has
// to inspect the immediate neighbors of the binary-search position.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[int64]Appointment
	nextID int64
	// calendar holds the SCHEDULED intervals per doctor, sorted by start.
	calendar map[int64][]interval
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:     make(map[int64]Appointment),
		calendar: make(map[int64][]interval),
	}
}

func (m *MemoryRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Appointment, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (m *MemoryRepository) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	a.ID = m.nextID
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	m.byID[a.ID] = a
	if a.Status == StatusScheduled {
		m.indexLocked(a)
	}

	return &a, nil
}

func (m *MemoryRepository) Update(ctx context.Context, a Appointment) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.byID[a.ID]
	if !ok {
		return nil, ErrAppointmentNotFound
	}

	a.PatientID = prev.PatientID
	a.DoctorID = prev.DoctorID
	a.DepartmentID = prev.DepartmentID
	a.CreatedAt = prev.CreatedAt
	a.UpdatedAt = time.Now()

	if prev.Status == StatusScheduled {
		m.unindexLocked(prev)
	}
	if a.Status == StatusScheduled {
		m.indexLocked(a)
	}

	m.byID[a.ID] = a
	return &a, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.byID[id]
	if !ok {
		return ErrAppointmentNotFound
	}

	if a.Status == StatusScheduled {
		m.unindexLocked(a)
	}
	delete(m.byID, id)
	return nil
}

func (m *MemoryRepository) ExistsOverlapping(ctx context.Context, doctorID int64, status Status, start, end time.Time, excludeID *int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if status != StatusScheduled {
		// Only SCHEDULED intervals are indexed.
		for _, a := range m.byID {
			if a.DoctorID != doctorID || a.Status != status {
				continue
			}
			if excludeID != nil && a.ID == *excludeID {
				continue
			}
			if a.StartTime.Before(end) && a.EndTime.After(start) {
				return true, nil
			}
		}
		return false, nil
	}

	ivs := m.calendar[doctorID]

	// First interval starting at or after the query end; nothing from there
	// on can overlap a half-open window.
	idx := sort.Search(len(ivs), func(i int) bool {
		return !ivs[i].start.Before(end)
	})

	for i := idx - 1; i >= 0; i-- {
		if !ivs[i].end.After(start) {
			break
		}
		if excludeID != nil && ivs[i].id == *excludeID {
			continue
		}
		return true, nil
	}

	return false, nil
}

func (m *MemoryRepository) indexLocked(a Appointment) {
	ivs := m.calendar[a.DoctorID]
	iv := interval{id: a.ID, start: a.StartTime, end: a.EndTime}

	pos := sort.Search(len(ivs), func(i int) bool {
		return ivs[i].start.After(iv.start) ||
			(ivs[i].start.Equal(iv.start) && ivs[i].id > iv.id)
	})

	ivs = append(ivs, interval{})
	copy(ivs[pos+1:], ivs[pos:])
	ivs[pos] = iv
	m.calendar[a.DoctorID] = ivs
}

func (m *MemoryRepository) unindexLocked(a Appointment) {
	ivs := m.calendar[a.DoctorID]
	for i, iv := range ivs {
		if iv.id == a.ID {
			m.calendar[a.DoctorID] = append(ivs[:i], ivs[i+1:]...)
			return
		}
	}
}
