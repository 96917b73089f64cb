package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Migration is a single schema change applied exactly once, in version order.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the full ordered schema. Applied versions are tracked in
// _migrations, so adding a new entry at the end is enough to roll it out.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "patients",
		SQL: `
CREATE TABLE IF NOT EXISTS patient (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	age         INT NOT NULL,
	gender      TEXT NOT NULL DEFAULT '',
	diagnosis   TEXT NOT NULL DEFAULT '',
	room        TEXT NOT NULL,
	bed         TEXT NOT NULL DEFAULT '',
	admitted_at TIMESTAMPTZ NOT NULL,
	risk_tier   TEXT NOT NULL DEFAULT 'Low',
	thresholds  JSONB NOT NULL,
	photo_url   TEXT,
	anamnesis   JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_patient_created_at ON patient (created_at DESC);`,
	},
	{
		Version: 2,
		Name:    "vital_readings",
		SQL: `
CREATE TABLE IF NOT EXISTS vital_reading (
	id               TEXT PRIMARY KEY,
	patient_id       TEXT NOT NULL REFERENCES patient(id) ON DELETE CASCADE,
	taken_at         TIMESTAMPTZ NOT NULL,
	systolic         DOUBLE PRECISION NOT NULL,
	diastolic        DOUBLE PRECISION NOT NULL,
	heart_rate       DOUBLE PRECISION NOT NULL,
	temperature      DOUBLE PRECISION NOT NULL,
	spo2             DOUBLE PRECISION NOT NULL,
	respiratory_rate DOUBLE PRECISION NOT NULL,
	note             TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_vital_reading_patient_taken
	ON vital_reading (patient_id, taken_at DESC);`,
	},
	{
		Version: 3,
		Name:    "fluid_records",
		SQL: `
CREATE TABLE IF NOT EXISTS fluid_record (
	id          TEXT PRIMARY KEY,
	patient_id  TEXT NOT NULL REFERENCES patient(id) ON DELETE CASCADE,
	intake_ml   DOUBLE PRECISION NOT NULL DEFAULT 0,
	output_ml   DOUBLE PRECISION NOT NULL DEFAULT 0,
	type        TEXT,
	note        TEXT,
	recorded_at TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_fluid_record_patient
	ON fluid_record (patient_id, recorded_at DESC);`,
	},
	{
		Version: 4,
		Name:    "medical_orders",
		SQL: `
CREATE TABLE IF NOT EXISTS medical_order (
	id         TEXT PRIMARY KEY,
	patient_id TEXT NOT NULL REFERENCES patient(id) ON DELETE CASCADE,
	medication TEXT NOT NULL,
	dosage     TEXT NOT NULL DEFAULT '-',
	frequency  TEXT NOT NULL,
	route      TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'Active',
	started_at TIMESTAMPTZ NOT NULL,
	note       TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_medical_order_patient
	ON medical_order (patient_id, created_at DESC);`,
	},
}

// Migrator applies the embedded schema migrations against a pool.
type Migrator struct {
	pool *pgxpool.Pool
}

func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool}
}

// Migrations returns the embedded migration set in version order.
func Migrations() []Migration {
	return migrations
}

func (m *Migrator) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.pool.Query(ctx, "SELECT version FROM _migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// Up applies every pending migration in order, each inside its own
// transaction so a failure leaves earlier versions committed.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, mig := range migrations {
		if applied[mig.Version] {
			continue
		}

		tx, err := m.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", mig.Version, err)
		}

		if _, err := tx.Exec(ctx, mig.SQL); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("apply migration %d (%s): %w", mig.Version, mig.Name, err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO _migrations (version, name) VALUES ($1, $2)",
			mig.Version, mig.Name); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("record migration %d: %w", mig.Version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %d: %w", mig.Version, err)
		}

		log.Info().Int("version", mig.Version).Str("name", mig.Name).Msg("applied migration")
	}

	return nil
}

// Status reports each embedded migration version with whether it has
// been applied.
func (m *Migrator) Status(ctx context.Context) (map[int]bool, error) {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	status := make(map[int]bool, len(migrations))
	for _, mig := range migrations {
		status[mig.Version] = applied[mig.Version]
	}
	return status, nil
}
