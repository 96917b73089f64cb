package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, name, age, gender, diagnosis, room, bed, admitted_at, risk_tier, thresholds, photo_url, anamnesis, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Diagnosis, &p.Room, &p.Bed,
		&p.AdmittedAt, &p.RiskTier, &p.Thresholds, &p.PhotoURL, &p.Anamnesis, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *patientRepoPG) Upsert(ctx context.Context, p *Patient) error {
	now := time.Now().UTC()
	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, name, age, gender, diagnosis, room, bed, admitted_at, risk_tier, thresholds, photo_url, anamnesis, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, age=EXCLUDED.age, gender=EXCLUDED.gender,
			diagnosis=EXCLUDED.diagnosis, room=EXCLUDED.room, bed=EXCLUDED.bed,
			admitted_at=EXCLUDED.admitted_at, risk_tier=EXCLUDED.risk_tier,
			thresholds=EXCLUDED.thresholds, photo_url=EXCLUDED.photo_url,
			anamnesis=EXCLUDED.anamnesis, updated_at=EXCLUDED.updated_at`,
		p.ID, p.Name, p.Age, p.Gender, p.Diagnosis, p.Room, p.Bed, p.AdmittedAt,
		p.RiskTier, p.Thresholds, p.PhotoURL, p.Anamnesis, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

type fluidRepoPG struct{ pool *pgxpool.Pool }

func NewFluidRepoPG(pool *pgxpool.Pool) FluidRepository {
	return &fluidRepoPG{pool: pool}
}

const fluidCols = `id, patient_id, intake_ml, output_ml, type, note, recorded_at, created_at`

func (r *fluidRepoPG) Create(ctx context.Context, rec *FluidRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO fluid_record (id, patient_id, intake_ml, output_ml, type, note, recorded_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.PatientID, rec.IntakeML, rec.OutputML, rec.Type, rec.Note, rec.RecordedAt, rec.CreatedAt)
	return err
}

func (r *fluidRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*FluidRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fluid_record WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+fluidCols+` FROM fluid_record WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*FluidRecord
	for rows.Next() {
		var rec FluidRecord
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.IntakeML, &rec.OutputML, &rec.Type, &rec.Note, &rec.RecordedAt, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &rec)
	}
	return items, total, rows.Err()
}
