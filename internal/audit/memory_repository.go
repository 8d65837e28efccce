package audit

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepository keeps entries in memory, for tests and local development.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Insert(ctx context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	e.ID = m.nextID
	m.entries = append(m.entries, e)
	return nil
}

// Entries returns a snapshot of everything recorded, oldest first.
func (m *MemoryRepository) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MemoryRepository) Search(ctx context.Context, f Filter, s Sort, page, size int) ([]Entry, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []Entry
	for _, e := range m.entries {
		if f.UsernameContains != "" &&
			!strings.Contains(strings.ToLower(e.Username), strings.ToLower(f.UsernameContains)) {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.EntityName != "" && e.EntityName != f.EntityName {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && e.CreatedAt.After(*f.To) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		less := entryLess(matched[i], matched[j], s.Field)
		if s.Desc {
			return !less && !entryEqual(matched[i], matched[j], s.Field)
		}
		return less
	})

	total := int64(len(matched))

	start := page * size
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func entryLess(a, b Entry, field string) bool {
	switch field {
	case "username":
		return a.Username < b.Username
	case "action":
		return a.Action < b.Action
	case "entity_name":
		return a.EntityName < b.EntityName
	case "entity_id":
		return a.EntityID < b.EntityID
	case "id":
		return a.ID < b.ID
	default: // created_at
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func entryEqual(a, b Entry, field string) bool {
	switch field {
	case "username":
		return a.Username == b.Username
	case "action":
		return a.Action == b.Action
	case "entity_name":
		return a.EntityName == b.EntityName
	case "entity_id":
		return a.EntityID == b.EntityID
	case "id":
		return a.ID == b.ID
	default:
		return a.CreatedAt.Equal(b.CreatedAt) && a.ID == b.ID
	}
}
