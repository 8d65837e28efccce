package admission

import (
	"context"
	"errors"
)

var ErrAdmissionNotFound = errors.New("Admission not found")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Admission, error)
	List(ctx context.Context) ([]Admission, error)

	Create(ctx context.Context, a Admission) (*Admission, error)
	Update(ctx context.Context, a Admission) (*Admission, error)
	Delete(ctx context.Context, id int64) error

	// CountActive returns the number of ADMITTED admissions for the room.
	CountActive(ctx context.Context, roomID int64) (int64, error)
}
