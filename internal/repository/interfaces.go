package repository

import (
	"context"

	"github.com/dvfdata/warehouse-api/internal/domain"
)

// WarehouseRepository defines the store capability consumed by the
// ingestion pipeline (InsertMany) and the read API (the rest). The
// store is append-only from the pipeline's point of view.
type WarehouseRepository interface {
	// InsertMany bulk-appends a batch and returns the number of rows
	// actually persisted, which the store may reduce under its own
	// constraints.
	InsertMany(ctx context.Context, records []domain.WarehouseRecord) (int, error)

	// ListPage returns one page ordered by transaction_date descending
	// with nulls last, plus the total row count.
	ListPage(ctx context.Context, limit int, offset int) ([]domain.Warehouse, int, error)

	// Count returns the total number of stored warehouses.
	Count(ctx context.Context) (int, error)

	// SelectPriceSurface returns the price and surface columns for
	// every stored warehouse, for aggregate statistics.
	SelectPriceSurface(ctx context.Context) ([]domain.PriceSurfaceSample, error)
}
