package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const orderCols = `id, patient_id, medication, dosage, frequency, route, status, started_at, note, created_at`

func scanOrder(row pgx.Row) (*MedicalOrder, error) {
	var o MedicalOrder
	err := row.Scan(&o.ID, &o.PatientID, &o.Medication, &o.Dosage, &o.Frequency,
		&o.Route, &o.Status, &o.StartedAt, &o.Note, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &o, err
}

func (r *repoPG) Create(ctx context.Context, o *MedicalOrder) error {
	o.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medical_order (id, patient_id, medication, dosage, frequency, route, status, started_at, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.PatientID, o.Medication, o.Dosage, o.Frequency, o.Route, o.Status, o.StartedAt, o.Note, o.CreatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, patientID, orderID string) (*MedicalOrder, error) {
	return scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderCols+` FROM medical_order WHERE patient_id = $1 AND id = $2`, patientID, orderID))
}

func (r *repoPG) UpdateStatus(ctx context.Context, patientID, orderID string, status OrderStatus) (*MedicalOrder, error) {
	return scanOrder(r.pool.QueryRow(ctx, `
		UPDATE medical_order SET status = $3 WHERE patient_id = $1 AND id = $2
		RETURNING `+orderCols, patientID, orderID, status))
}

func (r *repoPG) Delete(ctx context.Context, patientID, orderID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medical_order WHERE patient_id = $1 AND id = $2`, patientID, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*MedicalOrder, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medical_order WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderCols+` FROM medical_order WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MedicalOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, rows.Err()
}
