package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.DepartmentID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Note,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, department_id, start_time, end_time, status, note, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) List(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, department_id, start_time, end_time, status, note, created_at, updated_at
		FROM appointments
		ORDER BY start_time, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (patient_id, doctor_id, department_id, start_time, end_time, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, patient_id, doctor_id, department_id, start_time, end_time, status, note, created_at, updated_at
	`, a.PatientID, a.DoctorID, a.DepartmentID, a.StartTime, a.EndTime, a.Status, a.Note)

	return scanAppointment(row)
}

func (r *PgRepository) Update(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET start_time = $2,
		    end_time = $3,
		    status = $4,
		    note = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, patient_id, doctor_id, department_id, start_time, end_time, status, note, created_at, updated_at
	`, a.ID, a.StartTime, a.EndTime, a.Status, a.Note)

	return scanAppointment(row)
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ExistsOverlapping runs the overlap predicate (s1 < e2 AND e1 > s2) as a
// single EXISTS query so the full appointment set never leaves the database.
func (r *PgRepository) ExistsOverlapping(ctx context.Context, doctorID int64, status Status, start, end time.Time, excludeID *int64) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM appointments
			WHERE doctor_id = $1
			  AND status = $2
			  AND start_time < $4
			  AND end_time > $3
			  AND ($5::bigint IS NULL OR id <> $5)
		)
	`, doctorID, status, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check overlapping appointment: %w", err)
	}

	return exists, nil
}
