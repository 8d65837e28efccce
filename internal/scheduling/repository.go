package scheduling

import (
	"context"
	"errors"
	"time"
)

var ErrAppointmentNotFound = errors.New("Appointment not found")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)

	Create(ctx context.Context, a Appointment) (*Appointment, error)
	Update(ctx context.Context, a Appointment) (*Appointment, error)
	Delete(ctx context.Context, id int64) error

	// ExistsOverlapping reports whether any appointment for the doctor in
	// the given status overlaps [start, end), half-open: touching endpoints
	// do not overlap. excludeID removes one appointment from the comparison
	// set so an in-place edit cannot conflict with itself.
	ExistsOverlapping(ctx context.Context, doctorID int64, status Status, start, end time.Time, excludeID *int64) (bool, error)
}
