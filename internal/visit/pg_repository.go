package visit

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

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit

	err := row.Scan(
		&v.ID,
		&v.PatientID,
		&v.DoctorID,
		&v.AppointmentID,
		&v.VisitTime,
		&v.Complaint,
		&v.Diagnosis,
		&v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}

	return &v, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id int64) (*Visit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, appointment_id, visit_time, complaint, diagnosis, created_at
		FROM visits
		WHERE id = $1
	`, id)
	return scanVisit(row)
}

func (r *PgRepository) List(ctx context.Context) ([]Visit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, appointment_id, visit_time, complaint, diagnosis, created_at
		FROM visits
		ORDER BY visit_time, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}

	return result, rows.Err()
}

func (r *PgRepository) Create(ctx context.Context, v Visit) (*Visit, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO visits (patient_id, doctor_id, appointment_id, visit_time, complaint, diagnosis, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, patient_id, doctor_id, appointment_id, visit_time, complaint, diagnosis, created_at
	`, v.PatientID, v.DoctorID, v.AppointmentID, v.VisitTime, v.Complaint, v.Diagnosis)

	return scanVisit(row)
}

// DeleteCascade deletes children before the parent inside one transaction so
// a visit can never be removed while its records survive.
func (r *PgRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete visit: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM prescription_items
		WHERE prescription_id IN (SELECT id FROM prescriptions WHERE visit_id = $1)
	`, id); err != nil {
		return fmt.Errorf("delete prescription items: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM prescriptions WHERE visit_id = $1`, id); err != nil {
		return fmt.Errorf("delete prescriptions: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM medical_records WHERE visit_id = $1`, id); err != nil {
		return fmt.Errorf("delete medical records: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrVisitNotFound
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) AddMedicalRecord(ctx context.Context, rec MedicalRecord) (*MedicalRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO medical_records (visit_id, record_type, content, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, visit_id, record_type, content, created_at
	`, rec.VisitID, rec.RecordType, rec.Content)

	var out MedicalRecord
	if err := row.Scan(&out.ID, &out.VisitID, &out.RecordType, &out.Content, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert medical record: %w", err)
	}
	return &out, nil
}

func (r *PgRepository) AddPrescription(ctx context.Context, p Prescription) (*Prescription, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add prescription: %w", err)
	}
	defer tx.Rollback(ctx)

	var out Prescription
	err = tx.QueryRow(ctx, `
		INSERT INTO prescriptions (visit_id, note, created_at)
		VALUES ($1, $2, now())
		RETURNING id, visit_id, note, created_at
	`, p.VisitID, p.Note).Scan(&out.ID, &out.VisitID, &out.Note, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert prescription: %w", err)
	}

	for _, item := range p.Items {
		var saved PrescriptionItem
		err = tx.QueryRow(ctx, `
			INSERT INTO prescription_items (prescription_id, drug_name, dosage, frequency, duration_days, instructions)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, prescription_id, drug_name, dosage, frequency, duration_days, instructions
		`, out.ID, item.DrugName, item.Dosage, item.Frequency, item.DurationDays, item.Instructions).Scan(
			&saved.ID, &saved.PrescriptionID, &saved.DrugName, &saved.Dosage, &saved.Frequency, &saved.DurationDays, &saved.Instructions,
		)
		if err != nil {
			return nil, fmt.Errorf("insert prescription item: %w", err)
		}
		out.Items = append(out.Items, saved)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit prescription: %w", err)
	}
	return &out, nil
}

func (r *PgRepository) ListMedicalRecords(ctx context.Context, visitID int64) ([]MedicalRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, visit_id, record_type, content, created_at
		FROM medical_records
		WHERE visit_id = $1
		ORDER BY id
	`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MedicalRecord
	for rows.Next() {
		var rec MedicalRecord
		if err := rows.Scan(&rec.ID, &rec.VisitID, &rec.RecordType, &rec.Content, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	return result, rows.Err()
}

func (r *PgRepository) ListPrescriptions(ctx context.Context, visitID int64) ([]Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, visit_id, note, created_at
		FROM prescriptions
		WHERE visit_id = $1
		ORDER BY id
	`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Prescription
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.VisitID, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.listItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}

	return result, nil
}

func (r *PgRepository) listItems(ctx context.Context, prescriptionID int64) ([]PrescriptionItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, prescription_id, drug_name, dosage, frequency, duration_days, instructions
		FROM prescription_items
		WHERE prescription_id = $1
		ORDER BY id
	`, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PrescriptionItem
	for rows.Next() {
		var it PrescriptionItem
		if err := rows.Scan(&it.ID, &it.PrescriptionID, &it.DrugName, &it.Dosage, &it.Frequency, &it.DurationDays, &it.Instructions); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}
