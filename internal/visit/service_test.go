package visit

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-ops/internal/audit"
	"hospital-ops/internal/registry"
	"hospital-ops/internal/scheduling"
)

type fixture struct {
	svc       *Service
	repo      *MemoryRepository
	reg       *registry.MemoryReader
	appts     *scheduling.MemoryRepository
	auditLog  *audit.MemoryRepository
	patient   registry.Patient
	doctor    registry.Doctor
	visitTime time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := registry.NewMemoryReader()
	patient := reg.AddPatient(registry.Patient{FirstName: "John", LastName: "Doe"})
	doctor := reg.AddDoctor(registry.Doctor{FirstName: "Lisa", LastName: "Cuddy"})

	repo := NewMemoryRepository()
	appts := scheduling.NewMemoryRepository()
	auditLog := audit.NewMemoryRepository()
	rec := audit.NewRecorder(auditLog, zerolog.Nop())

	return &fixture{
		svc:       NewService(repo, reg, appts, rec, zerolog.Nop()),
		repo:      repo,
		reg:       reg,
		appts:     appts,
		auditLog:  auditLog,
		patient:   patient,
		doctor:    doctor,
		visitTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) createVisit(t *testing.T) *Detail {
	t.Helper()
	d, err := f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		VisitTime: f.visitTime,
		Complaint: "headache",
		Diagnosis: "migraine",
	})
	require.NoError(t, err)
	return d
}

func TestCreate_ResolvesReferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{PatientID: 999, DoctorID: f.doctor.ID, VisitTime: f.visitTime})
	assert.ErrorIs(t, err, registry.ErrPatientNotFound)

	badAppt := int64(999)
	_, err = f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID, AppointmentID: &badAppt, VisitTime: f.visitTime,
	})
	assert.ErrorIs(t, err, scheduling.ErrAppointmentNotFound)
}

func TestCreate_WithAppointmentReference(t *testing.T) {
	f := newFixture(t)

	appt, err := f.appts.Create(context.Background(), scheduling.Appointment{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		StartTime: f.visitTime,
		EndTime:   f.visitTime.Add(30 * time.Minute),
		Status:    scheduling.StatusScheduled,
	})
	require.NoError(t, err)

	d, err := f.svc.Create(context.Background(), CreateInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID, AppointmentID: &appt.ID, VisitTime: f.visitTime,
	})
	require.NoError(t, err)
	require.NotNil(t, d.AppointmentID)

	entries := f.auditLog.Entries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Details, "appointmentId=")
}

func TestChildren_AttachToVisit(t *testing.T) {
	f := newFixture(t)
	d := f.createVisit(t)

	_, err := f.svc.AddMedicalRecord(context.Background(), d.ID, MedicalRecordInput{
		RecordType: "LAB", Content: "CBC normal",
	})
	require.NoError(t, err)

	days := 5
	_, err = f.svc.AddPrescription(context.Background(), d.ID, PrescriptionInput{
		Note: "after meals",
		Items: []PrescriptionItemInput{
			{DrugName: "Ibuprofen", Dosage: "400mg", Frequency: "2x daily", DurationDays: &days},
		},
	})
	require.NoError(t, err)

	got, err := f.svc.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, got.MedicalRecords, 1)
	require.Len(t, got.Prescriptions, 1)
	require.Len(t, got.Prescriptions[0].Items, 1)
	assert.Equal(t, "Ibuprofen", got.Prescriptions[0].Items[0].DrugName)

	// Unknown visit is rejected for both child kinds.
	_, err = f.svc.AddMedicalRecord(context.Background(), 999, MedicalRecordInput{RecordType: "NOTE"})
	assert.ErrorIs(t, err, ErrVisitNotFound)
	_, err = f.svc.AddPrescription(context.Background(), 999, PrescriptionInput{})
	assert.ErrorIs(t, err, ErrVisitNotFound)
}

func TestDelete_CascadesToChildren(t *testing.T) {
	f := newFixture(t)
	d := f.createVisit(t)

	_, err := f.svc.AddMedicalRecord(context.Background(), d.ID, MedicalRecordInput{RecordType: "NOTE", Content: "n"})
	require.NoError(t, err)
	_, err = f.svc.AddPrescription(context.Background(), d.ID, PrescriptionInput{
		Items: []PrescriptionItemInput{{DrugName: "Aspirin"}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), d.ID))

	_, err = f.svc.GetByID(context.Background(), d.ID)
	assert.ErrorIs(t, err, ErrVisitNotFound)

	records, err := f.repo.ListMedicalRecords(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	prescriptions, err := f.repo.ListPrescriptions(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Empty(t, prescriptions)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), d.ID), ErrVisitNotFound)
}

func TestAuditTrail(t *testing.T) {
	f := newFixture(t)
	d := f.createVisit(t)

	_, err := f.svc.AddMedicalRecord(context.Background(), d.ID, MedicalRecordInput{RecordType: "LAB", Content: "x"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(context.Background(), d.ID))

	entries := f.auditLog.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Visit", entries[0].EntityName)
	assert.Equal(t, "MedicalRecord", entries[1].EntityName)
	assert.Equal(t, "DELETE", entries[2].Action)
}
