// Package export renders the stored warehouses as downloadable CSV or
// XLSX files.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/dvfdata/warehouse-api/internal/domain"
	"github.com/dvfdata/warehouse-api/internal/repository"
)

// Keep header order exact: consumers import these files elsewhere.
var exportHeader = []string{
	"id",
	"address",
	"postal_code",
	"commune",
	"department",
	"surface_m2",
	"price_eur",
	"transaction_date",
	"latitude",
	"longitude",
}

const defaultPageSize = 500

// Service pages through the repository and writes every stored
// warehouse to the requested format.
type Service struct {
	repo     repository.WarehouseRepository
	pageSize int
}

// Option customizes the export service.
type Option func(*Service)

// WithPageSize overrides how many rows are fetched per repository page.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewService wires an export service against a repository.
func NewService(repo repository.WarehouseRepository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) collect(ctx context.Context) ([]domain.Warehouse, error) {
	var all []domain.Warehouse
	offset := 0
	for {
		page, total, err := s.repo.ListPage(ctx, s.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to page warehouses: %w", err)
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			return all, nil
		}
	}
}

// WriteCSV streams all warehouses as CSV.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer) error {
	warehouses, err := s.collect(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, warehouse := range warehouses {
		if err := cw.Write(csvRow(warehouse)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes all warehouses to a single-sheet workbook.
func (s *Service) WriteXLSX(ctx context.Context, w io.Writer) error {
	warehouses, err := s.collect(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	header := make([]any, len(exportHeader))
	for i, name := range exportHeader {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, warehouse := range warehouses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := xlsxRow(warehouse)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func csvRow(w domain.Warehouse) []string {
	return []string{
		w.ID.String(),
		stringOrEmpty(w.Address),
		stringOrEmpty(w.PostalCode),
		stringOrEmpty(w.Commune),
		stringOrEmpty(w.Department),
		floatOrEmpty(w.SurfaceM2),
		floatOrEmpty(w.PriceEUR),
		stringOrEmpty(w.TransactionDate),
		floatOrEmpty(w.Latitude),
		floatOrEmpty(w.Longitude),
	}
}

func xlsxRow(w domain.Warehouse) []any {
	row := make([]any, 0, len(exportHeader))
	row = append(row, w.ID.String())
	row = append(row, stringOrEmpty(w.Address))
	row = append(row, stringOrEmpty(w.PostalCode))
	row = append(row, stringOrEmpty(w.Commune))
	row = append(row, stringOrEmpty(w.Department))
	for _, f := range []*float64{w.SurfaceM2, w.PriceEUR} {
		if f != nil {
			row = append(row, *f)
		} else {
			row = append(row, "")
		}
	}
	row = append(row, stringOrEmpty(w.TransactionDate))
	for _, f := range []*float64{w.Latitude, w.Longitude} {
		if f != nil {
			row = append(row, *f)
		} else {
			row = append(row, "")
		}
	}
	return row
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func floatOrEmpty(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
