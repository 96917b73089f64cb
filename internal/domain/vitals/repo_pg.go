package vitals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const readingCols = `id, patient_id, taken_at, systolic, diastolic, heart_rate, temperature, spo2, respiratory_rate, note, created_at`

func scanReading(row pgx.Row) (*VitalReading, error) {
	var v VitalReading
	err := row.Scan(&v.ID, &v.PatientID, &v.TakenAt, &v.Systolic, &v.Diastolic,
		&v.HeartRate, &v.Temperature, &v.SpO2, &v.RespiratoryRate, &v.Note, &v.CreatedAt)
	return &v, err
}

func (r *repoPG) Append(ctx context.Context, v *VitalReading) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	v.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vital_reading (id, patient_id, taken_at, systolic, diastolic, heart_rate, temperature, spo2, respiratory_rate, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		v.ID, v.PatientID, v.TakenAt, v.Systolic, v.Diastolic, v.HeartRate,
		v.Temperature, v.SpO2, v.RespiratoryRate, v.Note, v.CreatedAt)
	return err
}

func (r *repoPG) Latest(ctx context.Context, patientID string) (*VitalReading, error) {
	v, err := scanReading(r.pool.QueryRow(ctx,
		`SELECT `+readingCols+` FROM vital_reading WHERE patient_id = $1 ORDER BY taken_at DESC LIMIT 1`, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*VitalReading, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vital_reading WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+readingCols+` FROM vital_reading WHERE patient_id = $1 ORDER BY taken_at ASC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*VitalReading
	for rows.Next() {
		v, err := scanReading(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}
