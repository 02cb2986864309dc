package domain

import (
	"github.com/google/uuid"
)

// WarehouseRecord is the normalized, store-bound shape produced by the
// ingestion pipeline. A record only exists for rows that passed the
// eligibility filter, so DVFMutationID is always non-empty. Optional
// fields are nil when the source column was missing, empty, or (for
// numerics) failed to parse.
type WarehouseRecord struct {
	DVFMutationID   string   `json:"dvf_mutation_id"`
	Address         string   `json:"address"`
	PostalCode      *string  `json:"postal_code"`
	Commune         *string  `json:"commune"`
	Department      *string  `json:"department"`
	SurfaceM2       *float64 `json:"surface_m2"`
	PriceEUR        *float64 `json:"price_eur"`
	TransactionDate *string  `json:"transaction_date"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	PropertyType    *string  `json:"property_type"`
}

// Warehouse is the API-facing view of a stored record. The store
// generates the id; dvf_mutation_id and property_type are not exposed.
type Warehouse struct {
	ID              uuid.UUID `json:"id"`
	Address         *string   `json:"address"`
	PostalCode      *string   `json:"postal_code"`
	Commune         *string   `json:"commune"`
	Department      *string   `json:"department"`
	SurfaceM2       *float64  `json:"surface_m2"`
	PriceEUR        *float64  `json:"price_eur"`
	TransactionDate *string   `json:"transaction_date"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
}

// WarehouseListResponse is the paginated listing payload. Limit and
// offset echo the clamped values actually applied.
type WarehouseListResponse struct {
	Items  []Warehouse `json:"items"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// StatsResponse aggregates over the full store.
type StatsResponse struct {
	Count        int     `json:"count"`
	AvgPrice     float64 `json:"avg_price"`
	TotalSurface float64 `json:"total_surface"`
}

// PriceSurfaceSample carries the two columns the stats aggregator
// reads. Either value may be nil.
type PriceSurfaceSample struct {
	PriceEUR  *float64
	SurfaceM2 *float64
}
