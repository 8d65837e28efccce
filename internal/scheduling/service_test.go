package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/audit"
	"hospital-ops/internal/registry"
)

// passLocker runs the critical section inline; lock contention paths are
// covered by the redis locker itself.
type passLocker struct{}

func (passLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc      *Service
	repo     *MemoryRepository
	reg      *registry.MemoryReader
	auditLog *audit.MemoryRepository

	patient registry.Patient
	doctor  registry.Doctor
	dept    registry.Department
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := registry.NewMemoryReader()
	dept := reg.AddDepartment(registry.Department{Name: "Cardiology"})
	doctor := reg.AddDoctor(registry.Doctor{
		FirstName:      "Meredith",
		LastName:       "Grey",
		Specialization: "Cardiology",
		DepartmentID:   &dept.ID,
	})
	patient := reg.AddPatient(registry.Patient{FirstName: "John", LastName: "Doe"})

	repo := NewMemoryRepository()
	auditLog := audit.NewMemoryRepository()
	rec := audit.NewRecorder(auditLog, zerolog.Nop())

	return &fixture{
		svc:      NewService(repo, reg, rec, passLocker{}, zerolog.Nop()),
		repo:     repo,
		reg:      reg,
		auditLog: auditLog,
		patient:  patient,
		doctor:   doctor,
		dept:     dept,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func (f *fixture) create(t *testing.T, start, end time.Time) *Detail {
	t.Helper()
	d, err := f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return d
}

func TestCreate_RejectsEmptyOrInvertedWindow(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ start, end time.Time }{
		{at(10, 0), at(10, 0)},
		{at(10, 30), at(10, 0)},
	} {
		_, err := f.svc.Create(context.Background(), CreateInput{
			PatientID: f.patient.ID,
			DoctorID:  f.doctor.ID,
			StartTime: tc.start,
			EndTime:   tc.end,
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	}

	assert.Empty(t, f.auditLog.Entries(), "failed create must not audit")
}

func TestCreate_UnknownReferencesFail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		PatientID: 999, DoctorID: f.doctor.ID, StartTime: at(10, 0), EndTime: at(10, 30),
	})
	assert.ErrorIs(t, err, registry.ErrPatientNotFound)

	_, err = f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID, DoctorID: 999, StartTime: at(10, 0), EndTime: at(10, 30),
	})
	assert.ErrorIs(t, err, registry.ErrDoctorNotFound)

	badDept := int64(999)
	_, err = f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID, DepartmentID: &badDept,
		StartTime: at(10, 0), EndTime: at(10, 30),
	})
	assert.ErrorIs(t, err, registry.ErrDepartmentNotFound)
}

func TestCreate_DefaultsToDoctorsDepartment(t *testing.T) {
	f := newFixture(t)

	d := f.create(t, at(10, 0), at(10, 30))
	require.NotNil(t, d.Department)
	assert.Equal(t, f.dept.ID, d.Department.ID)
	assert.Equal(t, StatusScheduled, d.Status)
}

func TestCreate_NoDepartmentAnywhereIsAllowed(t *testing.T) {
	f := newFixture(t)
	freelancer := f.reg.AddDoctor(registry.Doctor{FirstName: "Gregory", LastName: "House"})

	d, err := f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID,
		DoctorID:  freelancer.ID,
		StartTime: at(9, 0),
		EndTime:   at(9, 30),
	})
	require.NoError(t, err)
	assert.Nil(t, d.Department)
	assert.Nil(t, d.DepartmentID)
}

func TestCreate_OverlapScenarios(t *testing.T) {
	f := newFixture(t)

	// 10:00-10:30 books fine.
	f.create(t, at(10, 0), at(10, 30))

	// 10:15-10:45 collides.
	_, err := f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID,
		StartTime: at(10, 15), EndTime: at(10, 45),
	})
	require.ErrorIs(t, err, ErrDoctorBusy)
	assert.Contains(t, err.Error(), "Doctor has another appointment in this time range")

	// 10:30-11:00 touches the boundary and is allowed.
	f.create(t, at(10, 30), at(11, 0))

	// A fully contained window collides with the first booking.
	_, err = f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID,
		StartTime: at(10, 5), EndTime: at(10, 10),
	})
	assert.ErrorIs(t, err, ErrDoctorBusy)
}

func TestCreate_OtherDoctorUnaffected(t *testing.T) {
	f := newFixture(t)
	other := f.reg.AddDoctor(registry.Doctor{FirstName: "Derek", LastName: "Shepherd"})

	f.create(t, at(10, 0), at(10, 30))

	_, err := f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID, DoctorID: other.ID,
		StartTime: at(10, 0), EndTime: at(10, 30),
	})
	assert.NoError(t, err)
}

func TestCreate_CancelledAppointmentsDoNotBlock(t *testing.T) {
	f := newFixture(t)

	d := f.create(t, at(10, 0), at(10, 30))

	_, err := f.svc.Update(context.Background(), d.ID, UpdateInput{
		StartTime: d.StartTime, EndTime: d.EndTime, Status: StatusCancelled,
	})
	require.NoError(t, err)

	// The slot is free again.
	f.create(t, at(10, 0), at(10, 30))
}

func TestUpdate_MayKeepOwnSlot(t *testing.T) {
	f := newFixture(t)

	d := f.create(t, at(10, 0), at(10, 30))

	// Re-saving the same window must not conflict with itself.
	upd, err := f.svc.Update(context.Background(), d.ID, UpdateInput{
		StartTime: at(10, 0), EndTime: at(10, 30), Status: StatusScheduled, Note: "follow-up",
	})
	require.NoError(t, err)
	assert.Equal(t, "follow-up", upd.Note)
}

func TestUpdate_ConflictWithOtherAppointment(t *testing.T) {
	f := newFixture(t)

	f.create(t, at(10, 0), at(10, 30))
	second := f.create(t, at(11, 0), at(11, 30))

	_, err := f.svc.Update(context.Background(), second.ID, UpdateInput{
		StartTime: at(10, 15), EndTime: at(10, 45), Status: StatusScheduled,
	})
	assert.ErrorIs(t, err, ErrDoctorBusy)

	// The stored appointment is unchanged after the rejected update.
	got, err := f.svc.GetByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, got.StartTime.Equal(at(11, 0)))
}

func TestUpdate_InertStatusSkipsOverlapCheck(t *testing.T) {
	f := newFixture(t)

	f.create(t, at(10, 0), at(10, 30))
	second := f.create(t, at(11, 0), at(11, 30))

	// Completing into an occupied window is fine: COMPLETED is inert.
	upd, err := f.svc.Update(context.Background(), second.ID, UpdateInput{
		StartTime: at(10, 0), EndTime: at(10, 30), Status: StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, upd.Status)
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture(t)
	d := f.create(t, at(10, 0), at(10, 30))

	_, err := f.svc.Update(context.Background(), d.ID, UpdateInput{
		StartTime: at(10, 30), EndTime: at(10, 0), Status: StatusScheduled,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = f.svc.Update(context.Background(), d.ID, UpdateInput{
		StartTime: at(10, 0), EndTime: at(10, 30), Status: Status("RESCHEDULED"),
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.Update(context.Background(), 999, UpdateInput{
		StartTime: at(10, 0), EndTime: at(10, 30), Status: StatusScheduled,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	d := f.create(t, at(10, 0), at(10, 30))

	require.NoError(t, f.svc.Delete(context.Background(), d.ID))

	_, err := f.svc.GetByID(context.Background(), d.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), d.ID), ErrAppointmentNotFound)

	// The freed window is bookable again.
	f.create(t, at(10, 0), at(10, 30))
}

func TestAuditTrail_OnePerMutation(t *testing.T) {
	f := newFixture(t)

	d := f.create(t, at(10, 0), at(10, 30))
	_, err := f.svc.Update(context.Background(), d.ID, UpdateInput{
		StartTime: at(10, 0), EndTime: at(10, 30), Status: StatusCancelled,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(context.Background(), d.ID))

	entries := f.auditLog.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, "CREATE", entries[0].Action)
	assert.Equal(t, "UPDATE", entries[1].Action)
	assert.Contains(t, entries[1].Details, "status=CANCELLED")
	assert.Equal(t, "DELETE", entries[2].Action)
	for _, e := range entries {
		assert.Equal(t, "Appointment", e.EntityName)
		assert.Equal(t, d.ID, e.EntityID)
	}
}

func TestReads_DoNotAudit(t *testing.T) {
	f := newFixture(t)
	d := f.create(t, at(10, 0), at(10, 30))
	before := len(f.auditLog.Entries())

	_, err := f.svc.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	_, err = f.svc.List(context.Background())
	require.NoError(t, err)

	assert.Len(t, f.auditLog.Entries(), before)
}

func TestOverlapInvariant_HoldsAfterMixedOperations(t *testing.T) {
	f := newFixture(t)

	windows := [][2]time.Time{
		{at(9, 0), at(9, 30)},
		{at(9, 30), at(10, 0)},
		{at(10, 0), at(11, 0)},
		{at(13, 0), at(13, 45)},
	}
	var ids []int64
	for _, w := range windows {
		ids = append(ids, f.create(t, w[0], w[1]).ID)
	}

	// Attempt a batch of conflicting writes; all must be rejected.
	for _, w := range [][2]time.Time{
		{at(9, 15), at(9, 45)},
		{at(10, 30), at(10, 45)},
		{at(8, 0), at(14, 0)},
	} {
		_, err := f.svc.Create(context.Background(), CreateInput{
			PatientID: f.patient.ID, DoctorID: f.doctor.ID, StartTime: w[0], EndTime: w[1],
		})
		assert.ErrorIs(t, err, ErrDoctorBusy)
	}

	require.NoError(t, f.svc.Delete(context.Background(), ids[1]))
	f.create(t, at(9, 30), at(10, 0))

	// Pairwise disjointness over all SCHEDULED appointments.
	all, err := f.repo.List(context.Background())
	require.NoError(t, err)
	var scheduled []Appointment
	for _, a := range all {
		if a.Status == StatusScheduled {
			scheduled = append(scheduled, a)
		}
	}
	for i := range scheduled {
		for j := i + 1; j < len(scheduled); j++ {
			a, b := scheduled[i], scheduled[j]
			disjoint := !a.EndTime.After(b.StartTime) || !b.EndTime.After(a.StartTime)
			assert.True(t, disjoint, "appointments %d and %d overlap", a.ID, b.ID)
		}
	}
}
