package visit

import (
	"context"
	"errors"
)

var ErrVisitNotFound = errors.New("Visit not found")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Visit, error)
	List(ctx context.Context) ([]Visit, error)

	Create(ctx context.Context, v Visit) (*Visit, error)

	// DeleteCascade removes the visit together with its medical records,
	// prescriptions and prescription items, atomically.
	DeleteCascade(ctx context.Context, id int64) error

	AddMedicalRecord(ctx context.Context, rec MedicalRecord) (*MedicalRecord, error)
	AddPrescription(ctx context.Context, p Prescription) (*Prescription, error)

	ListMedicalRecords(ctx context.Context, visitID int64) ([]MedicalRecord, error)
	ListPrescriptions(ctx context.Context, visitID int64) ([]Prescription, error)
}
