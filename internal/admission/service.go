package admission

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
	ErrRoomFull             = errors.New("Room is full (capacity reached)")
	ErrAlreadyDischarged    = errors.New("Admission is already discharged")
	ErrDischargeBeforeAdmit = errors.New("dischargedAt cannot be before admittedAt")
	ErrRoomBusy             = errors.New("room is being admitted to, please retry")
)

type CreateInput struct {
	PatientID         int64
	RoomID            int64
	AttendingDoctorID *int64
	AdmittedAt        time.Time
	Note              string
}

type DischargeInput struct {
	DischargedAt time.Time
	// Note replaces the stored note only when non-nil; nil keeps it.
	Note *string
}

// Service orchestrates admissions. The occupancy count and the insert run
// under a per-room lock so concurrent requests for the last bed cannot both
// pass the capacity check.
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

func roomLockKey(roomID int64) string {
	return fmt.Sprintf("lock:room:%d", roomID)
}

// Create admits a patient into a room, enforcing the room's capacity when it
// has one. A nil capacity means unlimited.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Detail, error) {
	patient, err := s.registry.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, wrapNotFound(err, in.PatientID)
	}

	room, err := s.registry.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, wrapNotFound(err, in.RoomID)
	}

	var doctor *registry.Doctor
	if in.AttendingDoctorID != nil {
		doctor, err = s.registry.GetDoctor(ctx, *in.AttendingDoctorID)
		if err != nil {
			return nil, wrapNotFound(err, *in.AttendingDoctorID)
		}
	}

	a := Admission{
		PatientID:  patient.ID,
		RoomID:     room.ID,
		AdmittedAt: in.AdmittedAt,
		Status:     StatusAdmitted,
		Note:       in.Note,
	}
	if doctor != nil {
		a.AttendingDoctorID = &doctor.ID
	}

	var created *Admission

	err = s.locker.WithLock(ctx, roomLockKey(room.ID), func(lockCtx context.Context) error {
		if room.Capacity != nil {
			active, err := s.repo.CountActive(lockCtx, room.ID)
			if err != nil {
				return fmt.Errorf("count active admissions: %w", err)
			}
			if active >= int64(*room.Capacity) {
				return ErrRoomFull
			}
		}

		created, err = s.repo.Create(lockCtx, a)
		if err != nil {
			return fmt.Errorf("create admission: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrRoomBusy
		}
		return nil, err
	}

	s.audit.Record(ctx, "CREATE", "Admission", created.ID,
		fmt.Sprintf("Admission created (patientId=%d, roomId=%d)", patient.ID, room.ID))

	return &Detail{Admission: *created, Patient: patient, Room: room, AttendingDoctor: doctor}, nil
}

// Discharge ends a stay exactly once. Status and dischargedAt are always
// overwritten; the note is replaced only when the request carries one, a nil
// note keeps the stored note.
func (s *Service) Discharge(ctx context.Context, id int64, in DischargeInput) (*Detail, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}

	if current.Status == StatusDischarged {
		return nil, ErrAlreadyDischarged
	}
	if in.DischargedAt.Before(current.AdmittedAt) {
		return nil, ErrDischargeBeforeAdmit
	}

	next := *current
	next.Status = StatusDischarged
	dischargedAt := in.DischargedAt
	next.DischargedAt = &dischargedAt
	if in.Note != nil {
		next.Note = *in.Note
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("discharge admission: %w", err)
	}

	s.audit.Record(ctx, "DISCHARGE", "Admission", updated.ID,
		fmt.Sprintf("Admission discharged (patientId=%d, roomId=%d)", updated.PatientID, updated.RoomID))

	return s.detail(ctx, updated)
}

// Delete removes an admission permanently, regardless of status.
func (s *Service) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return wrapNotFound(err, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete admission: %w", err)
	}

	s.audit.Record(ctx, "DELETE", "Admission", id,
		fmt.Sprintf("Admission deleted (patientId=%d, roomId=%d)", a.PatientID, a.RoomID))

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
	admissions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admissions: %w", err)
	}

	details := make([]Detail, 0, len(admissions))
	for i := range admissions {
		d, err := s.detail(ctx, &admissions[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func (s *Service) detail(ctx context.Context, a *Admission) (*Detail, error) {
	patient, err := s.registry.GetPatient(ctx, a.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	room, err := s.registry.GetRoom(ctx, a.RoomID)
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}

	var doctor *registry.Doctor
	if a.AttendingDoctorID != nil {
		doctor, err = s.registry.GetDoctor(ctx, *a.AttendingDoctorID)
		if err != nil {
			return nil, fmt.Errorf("load attending doctor: %w", err)
		}
	}

	return &Detail{Admission: *a, Patient: patient, Room: room, AttendingDoctor: doctor}, nil
}

func wrapNotFound(err error, id int64) error {
	return fmt.Errorf("%w: %d", err, id)
}
