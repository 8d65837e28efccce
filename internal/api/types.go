package api

import (
	"time"

	"hospital-ops/internal/admission"
	"hospital-ops/internal/audit"
	"hospital-ops/internal/registry"
	"hospital-ops/internal/scheduling"
	"hospital-ops/internal/visit"
)

// Requests

type CreateAppointmentRequest struct {
	PatientID    int64     `json:"patient_id"`
	DoctorID     int64     `json:"doctor_id"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Note         string    `json:"note,omitempty"`
}

type UpdateAppointmentRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
}

type CreateAdmissionRequest struct {
	PatientID         int64     `json:"patient_id"`
	RoomID            int64     `json:"room_id"`
	AttendingDoctorID *int64    `json:"attending_doctor_id,omitempty"`
	AdmittedAt        time.Time `json:"admitted_at"`
	Note              string    `json:"note,omitempty"`
}

type DischargeAdmissionRequest struct {
	DischargedAt time.Time `json:"discharged_at"`
	Note         *string   `json:"note,omitempty"`
}

type CreateVisitRequest struct {
	PatientID     int64     `json:"patient_id"`
	DoctorID      int64     `json:"doctor_id"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	VisitTime     time.Time `json:"visit_time"`
	Complaint     string    `json:"complaint,omitempty"`
	Diagnosis     string    `json:"diagnosis,omitempty"`
}

type CreateMedicalRecordRequest struct {
	RecordType string `json:"record_type"`
	Content    string `json:"content"`
}

type PrescriptionItemRequest struct {
	DrugName     string `json:"drug_name"`
	Dosage       string `json:"dosage,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	DurationDays *int   `json:"duration_days,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type CreatePrescriptionRequest struct {
	Note  string                    `json:"note,omitempty"`
	Items []PrescriptionItemRequest `json:"items"`
}

// Responses. Summary shapes are deliberate denormalizations: appointment
// and admission payloads carry just enough of the referenced entities to
// render without extra lookups.

type PatientSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type DoctorSummary struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Specialization string `json:"specialization,omitempty"`
}

type DepartmentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RoomResponse struct {
	ID         int64  `json:"id"`
	RoomNumber string `json:"room_number"`
	Floor      int    `json:"floor"`
	RoomType   string `json:"room_type"`
	Capacity   *int   `json:"capacity,omitempty"`
}

type PatientResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
}

type DoctorResponse struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Specialization string `json:"specialization,omitempty"`
	DepartmentID   *int64 `json:"department_id,omitempty"`
}

type AppointmentResponse struct {
	ID         int64               `json:"id"`
	Patient    PatientSummary      `json:"patient"`
	Doctor     DoctorSummary       `json:"doctor"`
	Department *DepartmentResponse `json:"department,omitempty"`
	StartTime  time.Time           `json:"start_time"`
	EndTime    time.Time           `json:"end_time"`
	Status     string              `json:"status"`
	Note       string              `json:"note,omitempty"`
}

type AdmissionResponse struct {
	ID              int64          `json:"id"`
	Patient         PatientSummary `json:"patient"`
	Room            RoomResponse   `json:"room"`
	AttendingDoctor *DoctorSummary `json:"attending_doctor,omitempty"`
	AdmittedAt      time.Time      `json:"admitted_at"`
	DischargedAt    *time.Time     `json:"discharged_at,omitempty"`
	Status          string         `json:"status"`
	Note            string         `json:"note,omitempty"`
}

type MedicalRecordResponse struct {
	ID         int64     `json:"id"`
	VisitID    int64     `json:"visit_id"`
	RecordType string    `json:"record_type"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type PrescriptionItemResponse struct {
	ID           int64  `json:"id"`
	DrugName     string `json:"drug_name"`
	Dosage       string `json:"dosage,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	DurationDays *int   `json:"duration_days,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type PrescriptionResponse struct {
	ID        int64                      `json:"id"`
	VisitID   int64                      `json:"visit_id"`
	Note      string                     `json:"note,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	Items     []PrescriptionItemResponse `json:"items"`
}

type VisitResponse struct {
	ID             int64                   `json:"id"`
	Patient        PatientSummary          `json:"patient"`
	Doctor         DoctorSummary           `json:"doctor"`
	AppointmentID  *int64                  `json:"appointment_id,omitempty"`
	VisitTime      time.Time               `json:"visit_time"`
	Complaint      string                  `json:"complaint,omitempty"`
	Diagnosis      string                  `json:"diagnosis,omitempty"`
	MedicalRecords []MedicalRecordResponse `json:"medical_records"`
	Prescriptions  []PrescriptionResponse  `json:"prescriptions"`
}

type AuditLogResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	EntityName string    `json:"entity_name"`
	EntityID   int64     `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
	Details    string    `json:"details,omitempty"`
}

type AuditSearchResponse struct {
	Items      []AuditLogResponse `json:"items"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
}

// Mapping

func toPatientSummary(p *registry.Patient) PatientSummary {
	return PatientSummary{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName}
}

func toDoctorSummary(d *registry.Doctor) DoctorSummary {
	return DoctorSummary{ID: d.ID, FirstName: d.FirstName, LastName: d.LastName, Specialization: d.Specialization}
}

func toDepartmentResponse(d *registry.Department) *DepartmentResponse {
	if d == nil {
		return nil
	}
	return &DepartmentResponse{ID: d.ID, Name: d.Name}
}

func toRoomResponse(r *registry.Room) RoomResponse {
	return RoomResponse{ID: r.ID, RoomNumber: r.RoomNumber, Floor: r.Floor, RoomType: r.RoomType, Capacity: r.Capacity}
}

func toPatientResponse(p registry.Patient) PatientResponse {
	return PatientResponse{
		ID: p.ID, FirstName: p.FirstName, LastName: p.LastName,
		BirthDate: p.BirthDate, Phone: p.Phone, Address: p.Address,
	}
}

func toDoctorResponse(d registry.Doctor) DoctorResponse {
	return DoctorResponse{
		ID: d.ID, FirstName: d.FirstName, LastName: d.LastName,
		Specialization: d.Specialization, DepartmentID: d.DepartmentID,
	}
}

func toAppointmentResponse(d *scheduling.Detail) AppointmentResponse {
	return AppointmentResponse{
		ID:         d.ID,
		Patient:    toPatientSummary(d.Patient),
		Doctor:     toDoctorSummary(d.Doctor),
		Department: toDepartmentResponse(d.Department),
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		Status:     string(d.Status),
		Note:       d.Note,
	}
}

func toAdmissionResponse(d *admission.Detail) AdmissionResponse {
	resp := AdmissionResponse{
		ID:           d.ID,
		Patient:      toPatientSummary(d.Patient),
		Room:         toRoomResponse(d.Room),
		AdmittedAt:   d.AdmittedAt,
		DischargedAt: d.DischargedAt,
		Status:       string(d.Status),
		Note:         d.Note,
	}
	if d.AttendingDoctor != nil {
		ds := toDoctorSummary(d.AttendingDoctor)
		resp.AttendingDoctor = &ds
	}
	return resp
}

func toMedicalRecordResponse(rec visit.MedicalRecord) MedicalRecordResponse {
	return MedicalRecordResponse{
		ID: rec.ID, VisitID: rec.VisitID, RecordType: rec.RecordType,
		Content: rec.Content, CreatedAt: rec.CreatedAt,
	}
}

func toPrescriptionResponse(p visit.Prescription) PrescriptionResponse {
	resp := PrescriptionResponse{
		ID: p.ID, VisitID: p.VisitID, Note: p.Note, CreatedAt: p.CreatedAt,
		Items: make([]PrescriptionItemResponse, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		resp.Items = append(resp.Items, PrescriptionItemResponse{
			ID: it.ID, DrugName: it.DrugName, Dosage: it.Dosage,
			Frequency: it.Frequency, DurationDays: it.DurationDays, Instructions: it.Instructions,
		})
	}
	return resp
}

func toVisitResponse(d *visit.Detail) VisitResponse {
	resp := VisitResponse{
		ID:             d.ID,
		Patient:        toPatientSummary(d.Patient),
		Doctor:         toDoctorSummary(d.Doctor),
		AppointmentID:  d.AppointmentID,
		VisitTime:      d.VisitTime,
		Complaint:      d.Complaint,
		Diagnosis:      d.Diagnosis,
		MedicalRecords: make([]MedicalRecordResponse, 0, len(d.MedicalRecords)),
		Prescriptions:  make([]PrescriptionResponse, 0, len(d.Prescriptions)),
	}
	for _, rec := range d.MedicalRecords {
		resp.MedicalRecords = append(resp.MedicalRecords, toMedicalRecordResponse(rec))
	}
	for _, p := range d.Prescriptions {
		resp.Prescriptions = append(resp.Prescriptions, toPrescriptionResponse(p))
	}
	return resp
}

func toAuditLogResponse(e audit.Entry) AuditLogResponse {
	return AuditLogResponse{
		ID: e.ID, Username: e.Username, Action: e.Action,
		EntityName: e.EntityName, EntityID: e.EntityID,
		CreatedAt: e.CreatedAt, Details: e.Details,
	}
}
