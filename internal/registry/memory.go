package registry

import (
	"context"
	"sort"
	"sync"
)

// MemoryReader is an in-memory Reader used in tests and local development.
type MemoryReader struct {
	mu          sync.RWMutex
	patients    map[int64]Patient
	doctors     map[int64]Doctor
	departments map[int64]Department
	rooms       map[int64]Room
	nextID      int64
}

func NewMemoryReader() *MemoryReader {
	return &MemoryReader{
		patients:    make(map[int64]Patient),
		doctors:     make(map[int64]Doctor),
		departments: make(map[int64]Department),
		rooms:       make(map[int64]Room),
	}
}

func (m *MemoryReader) nextIDLocked() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemoryReader) AddPatient(p Patient) Patient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextIDLocked()
	}
	m.patients[p.ID] = p
	return p
}

func (m *MemoryReader) AddDoctor(d Doctor) Doctor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == 0 {
		d.ID = m.nextIDLocked()
	}
	m.doctors[d.ID] = d
	return d
}

func (m *MemoryReader) AddDepartment(d Department) Department {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == 0 {
		d.ID = m.nextIDLocked()
	}
	m.departments[d.ID] = d
	return d
}

func (m *MemoryReader) AddRoom(r Room) Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.nextIDLocked()
	}
	m.rooms[r.ID] = r
	return r
}

func (m *MemoryReader) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (m *MemoryReader) GetDoctor(ctx context.Context, id int64) (*Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return &d, nil
}

func (m *MemoryReader) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.departments[id]
	if !ok {
		return nil, ErrDepartmentNotFound
	}
	return &d, nil
}

func (m *MemoryReader) GetRoom(ctx context.Context, id int64) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &r, nil
}

func (m *MemoryReader) ListPatients(ctx context.Context) ([]Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryReader) ListDoctors(ctx context.Context) ([]Doctor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryReader) ListDepartments(ctx context.Context) ([]Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Department, 0, len(m.departments))
	for _, d := range m.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryReader) ListRooms(ctx context.Context) ([]Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
