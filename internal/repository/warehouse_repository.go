package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvfdata/warehouse-api/internal/domain"
)

// warehouseRepository implements WarehouseRepository on pgxpool.
type warehouseRepository struct {
	pool *pgxpool.Pool
}

// NewWarehouseRepository creates a Postgres-backed warehouse repository.
func NewWarehouseRepository(pool *pgxpool.Pool) WarehouseRepository {
	return &warehouseRepository{pool: pool}
}

var copyColumns = []string{
	"dvf_mutation_id",
	"address",
	"postal_code",
	"commune",
	"department",
	"surface_m2",
	"price_eur",
	"transaction_date",
	"latitude",
	"longitude",
	"property_type",
}

// InsertMany appends the batch in one COPY operation and returns the
// row count reported by the database.
func (r *warehouseRepository) InsertMany(ctx context.Context, records []domain.WarehouseRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	count, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"warehouses"},
		copyColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			record := records[i]
			return []any{
				record.DVFMutationID,
				record.Address,
				record.PostalCode,
				record.Commune,
				record.Department,
				record.SurfaceM2,
				record.PriceEUR,
				dateValue(record.TransactionDate),
				record.Latitude,
				record.Longitude,
				record.PropertyType,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert warehouses: %w", err)
	}

	return int(count), nil
}

// ListPage returns one page ordered by transaction date descending
// with nulls last. The total comes from a window function; an empty
// page (offset past the end) falls back to a plain count so the total
// stays exact.
func (r *warehouseRepository) ListPage(ctx context.Context, limit int, offset int) ([]domain.Warehouse, int, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, address, postal_code, commune, department, surface_m2, price_eur,
		        transaction_date, latitude, longitude, COUNT(*) OVER() AS total_count
		 FROM warehouses
		 ORDER BY transaction_date DESC NULLS LAST
		 LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := []domain.Warehouse{}
	total := 0
	for rows.Next() {
		var (
			warehouse       domain.Warehouse
			address         pgtype.Text
			postalCode      pgtype.Text
			commune         pgtype.Text
			department      pgtype.Text
			surfaceM2       pgtype.Float8
			priceEUR        pgtype.Float8
			transactionDate pgtype.Date
			latitude        pgtype.Float8
			longitude       pgtype.Float8
			totalCount      int64
		)
		if err := rows.Scan(
			&warehouse.ID,
			&address,
			&postalCode,
			&commune,
			&department,
			&surfaceM2,
			&priceEUR,
			&transactionDate,
			&latitude,
			&longitude,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan warehouse: %w", err)
		}

		warehouse.Address = textPtr(address)
		warehouse.PostalCode = textPtr(postalCode)
		warehouse.Commune = textPtr(commune)
		warehouse.Department = textPtr(department)
		warehouse.SurfaceM2 = floatPtr(surfaceM2)
		warehouse.PriceEUR = floatPtr(priceEUR)
		warehouse.TransactionDate = datePtr(transactionDate)
		warehouse.Latitude = floatPtr(latitude)
		warehouse.Longitude = floatPtr(longitude)

		total = int(totalCount)
		warehouses = append(warehouses, warehouse)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate warehouses: %w", err)
	}

	if len(warehouses) == 0 {
		count, err := r.Count(ctx)
		if err != nil {
			return nil, 0, err
		}
		total = count
	}

	return warehouses, total, nil
}

func (r *warehouseRepository) Count(ctx context.Context) (int, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count warehouses: %w", err)
	}
	return int(count), nil
}

func (r *warehouseRepository) SelectPriceSurface(ctx context.Context) ([]domain.PriceSurfaceSample, error) {
	rows, err := r.pool.Query(ctx, `SELECT price_eur, surface_m2 FROM warehouses`)
	if err != nil {
		return nil, fmt.Errorf("failed to select price and surface: %w", err)
	}
	defer rows.Close()

	samples := []domain.PriceSurfaceSample{}
	for rows.Next() {
		var (
			price   pgtype.Float8
			surface pgtype.Float8
		)
		if err := rows.Scan(&price, &surface); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, domain.PriceSurfaceSample{
			PriceEUR:  floatPtr(price),
			SurfaceM2: floatPtr(surface),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", err)
	}

	return samples, nil
}

// dateValue prepares an optional ISO date string for a DATE column.
// The pipeline passes dates through unvalidated, so an unparseable
// value is handed to the database as-is and rejected there.
func dateValue(value *string) any {
	if value == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return *value
	}
	return t
}

func textPtr(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

func floatPtr(value pgtype.Float8) *float64 {
	if !value.Valid {
		return nil
	}
	f := value.Float64
	return &f
}

func datePtr(value pgtype.Date) *string {
	if !value.Valid {
		return nil
	}
	s := value.Time.Format("2006-01-02")
	return &s
}
