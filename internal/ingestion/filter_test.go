package ingestion

import "testing"

func eligibleRow() RawRow {
	return RawRow{
		"id_mutation":         "2024-1",
		"type_local":          WarehousePropertyType,
		"surface_reelle_bati": "15000",
		"valeur_fonciere":     "1000000",
	}
}

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(RawRow)
		want   bool
	}{
		{
			name:   "qualifying row",
			mutate: func(RawRow) {},
			want:   true,
		},
		{
			name:   "missing id_mutation",
			mutate: func(r RawRow) { delete(r, "id_mutation") },
			want:   false,
		},
		{
			name:   "empty id_mutation",
			mutate: func(r RawRow) { r["id_mutation"] = "" },
			want:   false,
		},
		{
			name:   "wrong property type",
			mutate: func(r RawRow) { r["type_local"] = "Maison" },
			want:   false,
		},
		{
			name:   "property type differs by case",
			mutate: func(r RawRow) { r["type_local"] = "local industriel. commercial ou assimilé" },
			want:   false,
		},
		{
			name:   "property type differs by accent",
			mutate: func(r RawRow) { r["type_local"] = "Local industriel. commercial ou assimile" },
			want:   false,
		},
		{
			name:   "surface exactly at the boundary",
			mutate: func(r RawRow) { r["surface_reelle_bati"] = "10000" },
			want:   true,
		},
		{
			name:   "surface just below the boundary",
			mutate: func(r RawRow) { r["surface_reelle_bati"] = "9999.99" },
			want:   false,
		},
		{
			name:   "surface missing",
			mutate: func(r RawRow) { delete(r, "surface_reelle_bati") },
			want:   false,
		},
		{
			name:   "surface not numeric",
			mutate: func(r RawRow) { r["surface_reelle_bati"] = "large" },
			want:   false,
		},
		{
			name:   "price missing",
			mutate: func(r RawRow) { delete(r, "valeur_fonciere") },
			want:   false,
		},
		{
			name:   "price empty",
			mutate: func(r RawRow) { r["valeur_fonciere"] = "" },
			want:   false,
		},
		{
			name: "price present but not numeric still passes",
			mutate: func(r RawRow) {
				r["valeur_fonciere"] = "n/a"
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := eligibleRow()
			tt.mutate(row)
			if got := IsEligible(row); got != tt.want {
				t.Fatalf("IsEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}
