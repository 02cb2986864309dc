package ingestion

import (
	"strconv"
	"strings"

	"github.com/dvfdata/warehouse-api/internal/domain"
)

// Transform maps a raw DVF row to a normalized warehouse record.
// It returns nil only when id_mutation is missing or empty; this is
// re-checked here so the function stays safe on rows that never went
// through IsEligible. Pure: no side effects, never panics.
func Transform(row RawRow) *domain.WarehouseRecord {
	id := row["id_mutation"]
	if id == "" {
		return nil
	}

	address := strings.TrimSpace(row["adresse_numero"] + " " + row["adresse_nom_voie"])

	return &domain.WarehouseRecord{
		DVFMutationID:   id,
		Address:         address,
		PostalCode:      optionalString(row["code_postal"]),
		Commune:         optionalString(row["nom_commune"]),
		Department:      optionalString(row["code_departement"]),
		SurfaceM2:       parseOptionalFloat(row["surface_reelle_bati"]),
		PriceEUR:        parseOptionalFloat(row["valeur_fonciere"]),
		TransactionDate: optionalString(row["date_mutation"]),
		Latitude:        parseOptionalFloat(row["latitude"]),
		Longitude:       parseOptionalFloat(row["longitude"]),
		PropertyType:    optionalString(row["type_local"]),
	}
}

// parseOptionalFloat is the shared numeric parser for all optional
// float columns: empty or unparseable input degrades to nil rather
// than an error.
func parseOptionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
