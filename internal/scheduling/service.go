package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hospital-ops/internal/audit"
	"hospital-ops/internal/redisclient"
	"hospital-ops/internal/registry"
)

var (
	ErrInvalidTimeRange = errors.New("endTime must be after startTime")
	ErrInvalidStatus    = errors.New("invalid appointment status")
	ErrDoctorBusy       = errors.New("Doctor has another appointment in this time range")
	ErrScheduleBusy     = errors.New("doctor schedule is being modified, please retry")
)

type CreateInput struct {
	PatientID    int64
	DoctorID     int64
	DepartmentID *int64
	StartTime    time.Time
	EndTime      time.Time
	Note         string
}

type UpdateInput struct {
	StartTime time.Time
	EndTime   time.Time
	Status    Status
	Note      string
}

// Service orchestrates appointment booking. The overlap check and the write
// run under a per-doctor lock so two concurrent requests cannot both observe
// a free window and both book it.
type Service struct {
	repo     Repository
	registry registry.Reader
	audit    *audit.Recorder
	locker   redisclient.Locker
	log      zerolog.Logger
}

func NewService(repo Repository, reg registry.Reader, rec *audit.Recorder, locker redisclient.Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: reg,
		audit:    rec,
		locker:   locker,
		log:      log,
	}
}

func doctorLockKey(doctorID int64) string {
	return fmt.Sprintf("lock:doctor:%d", doctorID)
}

// Create books a new SCHEDULED appointment.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Detail, error) {
	if err := validateTimeRange(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	patient, err := s.registry.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, wrapNotFound(err, in.PatientID)
	}

	doctor, err := s.registry.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, wrapNotFound(err, in.DoctorID)
	}

	dept, err := s.resolveDepartment(ctx, in.DepartmentID, doctor)
	if err != nil {
		return nil, err
	}

	a := Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    StatusScheduled,
		Note:      in.Note,
	}
	if dept != nil {
		a.DepartmentID = &dept.ID
	}

	var created *Appointment

	err = s.locker.WithLock(ctx, doctorLockKey(doctor.ID), func(lockCtx context.Context) error {
		overlap, err := s.repo.ExistsOverlapping(lockCtx, doctor.ID, StatusScheduled, in.StartTime, in.EndTime, nil)
		if err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if overlap {
			return ErrDoctorBusy
		}

		created, err = s.repo.Create(lockCtx, a)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	s.audit.Record(ctx, "CREATE", "Appointment", created.ID,
		fmt.Sprintf("Appointment created (patientId=%d, doctorId=%d)", patient.ID, doctor.ID))

	return &Detail{Appointment: *created, Patient: patient, Doctor: doctor, Department: dept}, nil
}

// Update applies a new window, status and note. The overlap invariant is
// re-checked (excluding the appointment itself) only when the resulting
// status is SCHEDULED; inert statuses update unconditionally.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Detail, error) {
	if err := validateTimeRange(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}

	next := *current
	next.StartTime = in.StartTime
	next.EndTime = in.EndTime
	next.Status = in.Status
	next.Note = in.Note

	var updated *Appointment

	if in.Status == StatusScheduled {
		err = s.locker.WithLock(ctx, doctorLockKey(current.DoctorID), func(lockCtx context.Context) error {
			overlap, err := s.repo.ExistsOverlapping(lockCtx, current.DoctorID, StatusScheduled, in.StartTime, in.EndTime, &id)
			if err != nil {
				return fmt.Errorf("check overlap: %w", err)
			}
			if overlap {
				return ErrDoctorBusy
			}

			updated, err = s.repo.Update(lockCtx, next)
			if err != nil {
				return fmt.Errorf("update appointment: %w", err)
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, redisclient.ErrLockNotAcquired) {
				return nil, ErrScheduleBusy
			}
			return nil, err
		}
	} else {
		updated, err = s.repo.Update(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("update appointment: %w", err)
		}
	}

	s.audit.Record(ctx, "UPDATE", "Appointment", updated.ID,
		fmt.Sprintf("Appointment updated (status=%s)", updated.Status))

	return s.detail(ctx, updated)
}

// Delete removes an appointment permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return wrapNotFound(err, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.audit.Record(ctx, "DELETE", "Appointment", id,
		fmt.Sprintf("Appointment deleted (doctorId=%d, patientId=%d)", a.DoctorID, a.PatientID))

	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return s.detail(ctx, a)
}

func (s *Service) List(ctx context.Context) ([]Detail, error) {
	appts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	details := make([]Detail, 0, len(appts))
	for i := range appts {
		d, err := s.detail(ctx, &appts[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *Service) resolveDepartment(ctx context.Context, departmentID *int64, doctor *registry.Doctor) (*registry.Department, error) {
	if departmentID != nil {
		dept, err := s.registry.GetDepartment(ctx, *departmentID)
		if err != nil {
			return nil, wrapNotFound(err, *departmentID)
		}
		return dept, nil
	}

	// Default to the doctor's own department, which may be unset.
	if doctor.DepartmentID == nil {
		return nil, nil
	}
	return s.registry.GetDepartment(ctx, *doctor.DepartmentID)
}

func (s *Service) detail(ctx context.Context, a *Appointment) (*Detail, error) {
	patient, err := s.registry.GetPatient(ctx, a.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	doctor, err := s.registry.GetDoctor(ctx, a.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	var dept *registry.Department
	if a.DepartmentID != nil {
		dept, err = s.registry.GetDepartment(ctx, *a.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("load department: %w", err)
		}
	}

	return &Detail{Appointment: *a, Patient: patient, Doctor: doctor, Department: dept}, nil
}

func validateTimeRange(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

func wrapNotFound(err error, id int64) error {
	return fmt.Errorf("%w: %d", err, id)
}
