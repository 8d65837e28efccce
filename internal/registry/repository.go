package registry

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound    = errors.New("Patient not found")
	ErrDoctorNotFound     = errors.New("Doctor not found")
	ErrDepartmentNotFound = errors.New("Department not found")
	ErrRoomNotFound       = errors.New("Room not found")
)

// Reader is the read-only contract the orchestrators consume. Registry rows
// are written by the seed tool and admin surfaces, never by this core.
type Reader interface {
	GetPatient(ctx context.Context, id int64) (*Patient, error)
	GetDoctor(ctx context.Context, id int64) (*Doctor, error)
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	GetRoom(ctx context.Context, id int64) (*Room, error)

	ListPatients(ctx context.Context) ([]Patient, error)
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	ListRooms(ctx context.Context) ([]Room, error)
}
