package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The warehouses table is append-only: the pipeline inserts, the API
// reads, nothing mutates existing rows.
const warehousesSchema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS warehouses (
    id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    dvf_mutation_id  TEXT NOT NULL,
    address          TEXT,
    postal_code      TEXT,
    commune          TEXT,
    department       TEXT,
    surface_m2       DOUBLE PRECISION,
    price_eur        DOUBLE PRECISION,
    transaction_date DATE,
    latitude         DOUBLE PRECISION,
    longitude        DOUBLE PRECISION,
    property_type    TEXT,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS warehouses_transaction_date_idx
    ON warehouses (transaction_date DESC NULLS LAST);
`

// EnsureSchema creates the warehouses table and its index if they do
// not exist yet. Idempotent, safe to run at every process start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, warehousesSchema); err != nil {
		return fmt.Errorf("failed to ensure warehouses schema: %w", err)
	}
	return nil
}
