package admission

import (
	"time"

	"hospital-ops/internal/registry"
)

type Status string

const (
	StatusAdmitted   Status = "ADMITTED"
	StatusDischarged Status = "DISCHARGED"
)

// Admission is one inpatient stay in a room. Only ADMITTED stays count
// against the room's capacity.
type Admission struct {
	ID                int64
	PatientID         int64
	RoomID            int64
	AttendingDoctorID *int64
	AdmittedAt        time.Time
	DischargedAt      *time.Time
	Status            Status
	Note              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Detail is an admission hydrated with the referenced registry rows.
type Detail struct {
	Admission
	Patient         *registry.Patient
	Room            *registry.Room
	AttendingDoctor *registry.Doctor
}
