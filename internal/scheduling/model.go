package scheduling

import (
	"time"

	"hospital-ops/internal/registry"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booked [StartTime, EndTime) window for one doctor.
// Only SCHEDULED appointments participate in the no-double-booking
// invariant; completed and cancelled ones never block new bookings.
type Appointment struct {
	ID           int64
	PatientID    int64
	DoctorID     int64
	DepartmentID *int64
	StartTime    time.Time
	EndTime      time.Time
	Status       Status
	Note         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Detail is an appointment hydrated with the referenced registry rows.
type Detail struct {
	Appointment
	Patient    *registry.Patient
	Doctor     *registry.Doctor
	Department *registry.Department
}
