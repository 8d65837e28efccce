package audit

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/identity"
)

func newTestRecorder(repo Repository) *Recorder {
	return NewRecorder(repo, zerolog.Nop())
}

func TestRecord_UsesPrincipalFromContext(t *testing.T) {
	repo := NewMemoryRepository()
	rec := newTestRecorder(repo)

	ctx := identity.WithPrincipal(context.Background(), identity.Principal{Username: "drgrey"})
	rec.Record(ctx, "CREATE", "Appointment", 42, "Appointment created (patientId=1, doctorId=2)")

	entries := repo.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "drgrey", entries[0].Username)
	assert.Equal(t, "CREATE", entries[0].Action)
	assert.Equal(t, "Appointment", entries[0].EntityName)
	assert.EqualValues(t, 42, entries[0].EntityID)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestRecord_FallsBackToSystemActor(t *testing.T) {
	repo := NewMemoryRepository()
	rec := newTestRecorder(repo)

	rec.Record(context.Background(), "DELETE", "Admission", 7, "Admission deleted")

	entries := repo.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, identity.SystemActor, entries[0].Username)
}

type failingRepo struct {
	*MemoryRepository
}

func (f *failingRepo) Insert(ctx context.Context, e Entry) error {
	return assert.AnError
}

func TestRecord_SwallowsInsertFailure(t *testing.T) {
	rec := newTestRecorder(&failingRepo{NewMemoryRepository()})

	// Must not panic or surface the storage error to the caller.
	rec.Record(context.Background(), "UPDATE", "Appointment", 1, "details")
}

func seedEntries(t *testing.T, repo *MemoryRepository) {
	t.Helper()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []Entry{
		{Username: "alice", Action: "CREATE", EntityName: "Appointment", EntityID: 1, CreatedAt: base},
		{Username: "bob", Action: "UPDATE", EntityName: "Appointment", EntityID: 1, CreatedAt: base.Add(time.Minute)},
		{Username: "alice", Action: "CREATE", EntityName: "Admission", EntityID: 2, CreatedAt: base.Add(2 * time.Minute)},
		{Username: "carol", Action: "DISCHARGE", EntityName: "Admission", EntityID: 2, CreatedAt: base.Add(3 * time.Minute)},
		{Username: "alice", Action: "CREATE", EntityName: "Visit", EntityID: 3, CreatedAt: base.Add(4 * time.Minute)},
	}
	for _, e := range rows {
		require.NoError(t, repo.Insert(context.Background(), e))
	}
}

func TestSearch_ActionFilterAndDefaultSort(t *testing.T) {
	repo := NewMemoryRepository()
	rec := newTestRecorder(repo)
	seedEntries(t, repo)

	page, err := rec.Search(context.Background(), Filter{Action: "CREATE"}, 0, 10, "")
	require.NoError(t, err)

	// Total reflects all matches, newest first by default.
	assert.EqualValues(t, 3, page.TotalCount)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Visit", page.Items[0].EntityName)
	assert.Equal(t, "Admission", page.Items[1].EntityName)
	assert.Equal(t, "Appointment", page.Items[2].EntityName)
	for _, e := range page.Items {
		assert.Equal(t, "CREATE", e.Action)
	}
}

func TestSearch_UsernameContainsIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository()
	rec := newTestRecorder(repo)
	seedEntries(t, repo)

	page, err := rec.Search(context.Background(), Filter{UsernameContains: "ALI"}, 0, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
}

func TestSearch_TimeWindow(t *testing.T) {
	repo := NewMemoryRepository()
	rec := newTestRecorder(repo)
	seedEntries(t, repo)

	from := time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 12, 3, 0, 0, time.UTC)

	page, err := rec.Search(context.Background(), Filter{From: &from, To: &to}, 0, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
}

func TestSearch_PaginationKeepsTotal(t *testing.T) {
	repo := NewMemoryRepository()
	rec := newTestRecorder(repo)
	seedEntries(t, repo)

	page, err := rec.Search(context.Background(), Filter{}, 1, 2, "")
	require.NoError(t, err)

	assert.EqualValues(t, 5, page.TotalCount)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Size)
}

func TestSearch_ExplicitAscendingSort(t *testing.T) {
	repo := NewMemoryRepository()
	rec := newTestRecorder(repo)
	seedEntries(t, repo)

	page, err := rec.Search(context.Background(), Filter{}, 0, 10, "createdAt,asc")
	require.NoError(t, err)

	require.Len(t, page.Items, 5)
	assert.Equal(t, "alice", page.Items[0].Username)
	assert.Equal(t, "alice", page.Items[4].Username)
	assert.True(t, page.Items[0].CreatedAt.Before(page.Items[4].CreatedAt))
}

func TestParseSort(t *testing.T) {
	// Defaults and fallbacks all land on createdAt descending.
	for _, raw := range []string{"", "   ", "bogusField,asc", "createdAt,sideways", "createdAt"} {
		s := parseSort(raw)
		assert.Equal(t, "created_at", s.Field, "raw=%q", raw)
		assert.True(t, s.Desc, "raw=%q", raw)
	}

	s := parseSort("username,ASC")
	assert.Equal(t, "username", s.Field)
	assert.False(t, s.Desc)

	s = parseSort("entityId,desc")
	assert.Equal(t, "entity_id", s.Field)
	assert.True(t, s.Desc)
}
