package admission

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.RoomID,
		&a.AttendingDoctorID,
		&a.AdmittedAt,
		&a.DischargedAt,
		&a.Status,
		&a.Note,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdmissionNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Admission, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, room_id, attending_doctor_id, admitted_at, discharged_at, status, note, created_at, updated_at
		FROM admissions
		WHERE id = $1
	`, id)
	return scanAdmission(row)
}

func (r *PgRepository) List(ctx context.Context) ([]Admission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, room_id, attending_doctor_id, admitted_at, discharged_at, status, note, created_at, updated_at
		FROM admissions
		ORDER BY admitted_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Admission
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, a Admission) (*Admission, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO admissions (patient_id, room_id, attending_doctor_id, admitted_at, discharged_at, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, patient_id, room_id, attending_doctor_id, admitted_at, discharged_at, status, note, created_at, updated_at
	`, a.PatientID, a.RoomID, a.AttendingDoctorID, a.AdmittedAt, a.DischargedAt, a.Status, a.Note)

	return scanAdmission(row)
}

func (r *PgRepository) Update(ctx context.Context, a Admission) (*Admission, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE admissions
		SET admitted_at = $2,
		    discharged_at = $3,
		    status = $4,
		    note = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, patient_id, room_id, attending_doctor_id, admitted_at, discharged_at, status, note, created_at, updated_at
	`, a.ID, a.AdmittedAt, a.DischargedAt, a.Status, a.Note)

	return scanAdmission(row)
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete admission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdmissionNotFound
	}
	return nil
}

func (r *PgRepository) CountActive(ctx context.Context, roomID int64) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM admissions
		WHERE room_id = $1
		  AND status = $2
	`, roomID, StatusAdmitted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active admissions: %w", err)
	}

	return count, nil
}
