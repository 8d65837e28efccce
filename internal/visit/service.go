package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hospital-ops/internal/audit"
	"hospital-ops/internal/registry"
	"hospital-ops/internal/scheduling"
)

type CreateInput struct {
	PatientID     int64
	DoctorID      int64
	AppointmentID *int64
	VisitTime     time.Time
	Complaint     string
	Diagnosis     string
}

type MedicalRecordInput struct {
	RecordType string
	Content    string
}

type PrescriptionItemInput struct {
	DrugName     string
	Dosage       string
	Frequency    string
	DurationDays *int
	Instructions string
}

type PrescriptionInput struct {
	Note  string
	Items []PrescriptionItemInput
}

// AppointmentResolver is the narrow slice of the scheduler the visit service
// needs to validate an appointment reference.
type AppointmentResolver interface {
	GetByID(ctx context.Context, id int64) (*scheduling.Appointment, error)
}

type Service struct {
	repo         Repository
	registry     registry.Reader
	appointments AppointmentResolver
	audit        *audit.Recorder
	log          zerolog.Logger
}

func NewService(repo Repository, reg registry.Reader, appts AppointmentResolver, rec *audit.Recorder, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		registry:     reg,
		appointments: appts,
		audit:        rec,
		log:          log,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Detail, error) {
	patient, err := s.registry.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", err, in.PatientID)
	}

	doctor, err := s.registry.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", err, in.DoctorID)
	}

	if in.AppointmentID != nil {
		if _, err := s.appointments.GetByID(ctx, *in.AppointmentID); err != nil {
			return nil, fmt.Errorf("%w: %d", err, *in.AppointmentID)
		}
	}

	created, err := s.repo.Create(ctx, Visit{
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		AppointmentID: in.AppointmentID,
		VisitTime:     in.VisitTime,
		Complaint:     in.Complaint,
		Diagnosis:     in.Diagnosis,
	})
	if err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}

	details := fmt.Sprintf("Visit created (patientId=%d, doctorId=%d)", patient.ID, doctor.ID)
	if in.AppointmentID != nil {
		details = fmt.Sprintf("Visit created (patientId=%d, doctorId=%d, appointmentId=%d)", patient.ID, doctor.ID, *in.AppointmentID)
	}
	s.audit.Record(ctx, "CREATE", "Visit", created.ID, details)

	return &Detail{Visit: *created, Patient: patient, Doctor: doctor}, nil
}

func (s *Service) AddMedicalRecord(ctx context.Context, visitID int64, in MedicalRecordInput) (*MedicalRecord, error) {
	if _, err := s.repo.GetByID(ctx, visitID); err != nil {
		return nil, fmt.Errorf("%w: %d", err, visitID)
	}

	rec, err := s.repo.AddMedicalRecord(ctx, MedicalRecord{
		VisitID:    visitID,
		RecordType: in.RecordType,
		Content:    in.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("add medical record: %w", err)
	}

	s.audit.Record(ctx, "CREATE", "MedicalRecord", rec.ID,
		fmt.Sprintf("Medical record created (visitId=%d, type=%s)", visitID, rec.RecordType))

	return rec, nil
}

func (s *Service) AddPrescription(ctx context.Context, visitID int64, in PrescriptionInput) (*Prescription, error) {
	if _, err := s.repo.GetByID(ctx, visitID); err != nil {
		return nil, fmt.Errorf("%w: %d", err, visitID)
	}

	p := Prescription{VisitID: visitID, Note: in.Note}
	for _, item := range in.Items {
		p.Items = append(p.Items, PrescriptionItem{
			DrugName:     item.DrugName,
			Dosage:       item.Dosage,
			Frequency:    item.Frequency,
			DurationDays: item.DurationDays,
			Instructions: item.Instructions,
		})
	}

	saved, err := s.repo.AddPrescription(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("add prescription: %w", err)
	}

	s.audit.Record(ctx, "CREATE", "Prescription", saved.ID,
		fmt.Sprintf("Prescription created (visitId=%d, items=%d)", visitID, len(saved.Items)))

	return saved, nil
}

// Delete removes a visit and everything it owns in one transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %d", err, id)
	}

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}

	s.audit.Record(ctx, "DELETE", "Visit", id,
		fmt.Sprintf("Visit deleted (patientId=%d, doctorId=%d)", v.PatientID, v.DoctorID))

	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Detail, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", err, id)
	}
	return s.detail(ctx, v)
}

func (s *Service) List(ctx context.Context) ([]Detail, error) {
	visits, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}

	details := make([]Detail, 0, len(visits))
	for i := range visits {
		d, err := s.detail(ctx, &visits[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *Service) detail(ctx context.Context, v *Visit) (*Detail, error) {
	patient, err := s.registry.GetPatient(ctx, v.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	doctor, err := s.registry.GetDoctor(ctx, v.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	records, err := s.repo.ListMedicalRecords(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("load medical records: %w", err)
	}

	prescriptions, err := s.repo.ListPrescriptions(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("load prescriptions: %w", err)
	}

	return &Detail{
		Visit:          *v,
		Patient:        patient,
		Doctor:         doctor,
		MedicalRecords: records,
		Prescriptions:  prescriptions,
	}, nil
}
