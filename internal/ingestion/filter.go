package ingestion

import (
	"strconv"
)

const (
	// WarehousePropertyType is the DVF type_local value for industrial,
	// commercial, or similar premises. The match is exact: case and
	// accents matter.
	WarehousePropertyType = "Local industriel. commercial ou assimilé"

	// MinSurfaceM2 is the inclusive lower bound on built surface.
	MinSurfaceM2 = 10000

	// MaxBatchSize caps how many records a single run collects.
	MaxBatchSize = 100
)

// RawRow maps a DVF source column name to its raw string value. Any
// column may be missing or empty.
type RawRow map[string]string

// IsEligible reports whether a raw row qualifies as a target warehouse
// transaction. The price only needs to be present, not numeric; the
// transformer degrades a non-numeric price to a nil field later.
// Malformed input never produces an error, only a rejection.
func IsEligible(row RawRow) bool {
	if row["id_mutation"] == "" {
		return false
	}
	if row["type_local"] != WarehousePropertyType {
		return false
	}
	surface, err := strconv.ParseFloat(row["surface_reelle_bati"], 64)
	if err != nil || surface < MinSurfaceM2 {
		return false
	}
	return row["valeur_fonciere"] != ""
}
