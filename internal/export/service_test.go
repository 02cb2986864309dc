package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/dvfdata/warehouse-api/internal/domain"
	"github.com/dvfdata/warehouse-api/internal/repository"
)

type stubRepo struct {
	items []domain.Warehouse
}

func (s *stubRepo) InsertMany(ctx context.Context, records []domain.WarehouseRecord) (int, error) {
	return 0, nil
}

func (s *stubRepo) ListPage(ctx context.Context, limit int, offset int) ([]domain.Warehouse, int, error) {
	if offset >= len(s.items) {
		return []domain.Warehouse{}, len(s.items), nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	return s.items[offset:end], len(s.items), nil
}

func (s *stubRepo) Count(ctx context.Context) (int, error) {
	return len(s.items), nil
}

func (s *stubRepo) SelectPriceSurface(ctx context.Context) ([]domain.PriceSurfaceSample, error) {
	return nil, nil
}

var _ repository.WarehouseRepository = (*stubRepo)(nil)

func sampleWarehouses() []domain.Warehouse {
	address := "42 Rue de la Paix"
	commune := "Meaux"
	date := "2024-03-15"
	surface := 15000.0
	price := 1000000.0

	return []domain.Warehouse{
		{
			ID:              uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Address:         &address,
			Commune:         &commune,
			SurfaceM2:       &surface,
			PriceEUR:        &price,
			TransactionDate: &date,
		},
		{
			ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	service := NewService(&stubRepo{items: sampleWarehouses()}, WithPageSize(1))

	var buf bytes.Buffer
	if err := service.WriteCSV(context.Background(), &buf); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][1] != "address" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][1] != "42 Rue de la Paix" {
		t.Fatalf("address = %q", records[1][1])
	}
	if records[1][5] != "15000" {
		t.Fatalf("surface = %q", records[1][5])
	}
	if records[2][1] != "" {
		t.Fatalf("expected empty address for sparse row, got %q", records[2][1])
	}
}

func TestWriteXLSX(t *testing.T) {
	service := NewService(&stubRepo{items: sampleWarehouses()})

	var buf bytes.Buffer
	if err := service.WriteXLSX(context.Background(), &buf); err != nil {
		t.Fatalf("WriteXLSX returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("output is not a valid workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "42 Rue de la Paix" {
		t.Fatalf("address = %q", rows[1][1])
	}
	if rows[1][7] != "2024-03-15" {
		t.Fatalf("transaction_date = %q", rows[1][7])
	}
}

func TestWriteCSVEmptyStore(t *testing.T) {
	service := NewService(&stubRepo{})

	var buf bytes.Buffer
	if err := service.WriteCSV(context.Background(), &buf); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d records", len(records))
	}
}
