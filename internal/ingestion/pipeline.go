// Package ingestion implements the one-shot DVF ingestion pipeline:
// fetch a gzipped departmental extract, parse it, filter and transform
// qualifying warehouse transactions, and bulk-load at most 100 records
// into the warehouse store.
package ingestion

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dvfdata/warehouse-api/internal/domain"
	"github.com/dvfdata/warehouse-api/internal/repository"
)

// DefaultDepartment is Seine-et-Marne, the reference dataset.
const DefaultDepartment = "77"

// Summary reports the counts of one pipeline run.
type Summary struct {
	RowsParsed   int `json:"rows_parsed"`
	RowsSelected int `json:"rows_selected"`
	RowsInserted int `json:"rows_inserted"`
}

// Pipeline orchestrates one sequential ingestion run. It is not safe
// to run twice concurrently against the same store; callers own that
// exclusion.
type Pipeline struct {
	store       repository.WarehouseRepository
	client      *http.Client
	urlTemplate string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithHTTPClient overrides the HTTP client used for the download.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) {
		if client != nil {
			p.client = client
		}
	}
}

// WithURLTemplate overrides the dataset location. The template must
// contain a single %s for the department code.
func WithURLTemplate(template string) Option {
	return func(p *Pipeline) {
		if strings.TrimSpace(template) != "" {
			p.urlTemplate = template
		}
	}
}

// NewPipeline wires a pipeline against the given store.
func NewPipeline(store repository.WarehouseRepository, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:       store,
		client:      &http.Client{Timeout: 10 * time.Minute},
		urlTemplate: DatasetURLTemplate,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline for one department. Any fetch,
// decode, or parse failure aborts the run before anything is
// inserted; row-level defects are silently skipped. Temporary files
// are removed on every path.
func (p *Pipeline) Run(ctx context.Context, department string) (Summary, error) {
	var summary Summary

	log.Printf("downloading DVF data for department %s", department)
	csvPath, err := p.fetchDataset(ctx, department)
	if err != nil {
		return summary, err
	}
	defer os.Remove(csvPath)

	log.Printf("parsing %s", csvPath)
	file, err := os.Open(csvPath)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer file.Close()

	rows, err := ParseRows(file)
	if err != nil {
		return summary, err
	}
	summary.RowsParsed = len(rows)
	log.Printf("parsed %d rows", summary.RowsParsed)

	batch := SelectWarehouses(rows)
	summary.RowsSelected = len(batch)
	log.Printf("filtered to %d warehouses", summary.RowsSelected)

	if len(batch) > 0 {
		inserted, err := p.store.InsertMany(ctx, batch)
		if err != nil {
			return summary, fmt.Errorf("%w: %v", ErrStore, err)
		}
		summary.RowsInserted = inserted
	}
	log.Printf("inserted %d records", summary.RowsInserted)

	return summary, nil
}

// SelectWarehouses applies the eligibility filter and transformer to
// rows in source order and collects at most MaxBatchSize records.
// Scanning stops as soon as the bound is reached, so rows past the
// cutoff are never evaluated: with more than 100 qualifying rows the
// batch is always the first 100 in file order.
func SelectWarehouses(rows []RawRow) []domain.WarehouseRecord {
	batch := make([]domain.WarehouseRecord, 0, MaxBatchSize)
	for _, row := range rows {
		if !IsEligible(row) {
			continue
		}
		record := Transform(row)
		if record == nil {
			continue
		}
		batch = append(batch, *record)
		if len(batch) >= MaxBatchSize {
			break
		}
	}
	return batch
}
