package visit

import (
	"time"

	"hospital-ops/internal/registry"
)

// Visit is one clinical encounter. It owns its medical records and
// prescriptions: deleting a visit deletes the children in the same
// transaction.
type Visit struct {
	ID            int64
	PatientID     int64
	DoctorID      int64
	AppointmentID *int64
	VisitTime     time.Time
	Complaint     string
	Diagnosis     string
	CreatedAt     time.Time
}

type MedicalRecord struct {
	ID         int64
	VisitID    int64
	RecordType string // LAB, IMAGING, NOTE, ...
	Content    string
	CreatedAt  time.Time
}

type PrescriptionItem struct {
	ID             int64
	PrescriptionID int64
	DrugName       string
	Dosage         string
	Frequency      string
	DurationDays   *int
	Instructions   string
}

type Prescription struct {
	ID        int64
	VisitID   int64
	Note      string
	CreatedAt time.Time
	Items     []PrescriptionItem
}

// Detail is a visit hydrated with registry rows and owned children.
type Detail struct {
	Visit
	Patient        *registry.Patient
	Doctor         *registry.Doctor
	MedicalRecords []MedicalRecord
	Prescriptions  []Prescription
}
