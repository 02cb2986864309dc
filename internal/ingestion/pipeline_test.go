package ingestion

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dvfdata/warehouse-api/internal/domain"
	"github.com/dvfdata/warehouse-api/internal/repository"
)

type stubStore struct {
	inserted  []domain.WarehouseRecord
	insertErr error
}

func (s *stubStore) InsertMany(ctx context.Context, records []domain.WarehouseRecord) (int, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.inserted = append(s.inserted, records...)
	return len(records), nil
}

func (s *stubStore) ListPage(ctx context.Context, limit int, offset int) ([]domain.Warehouse, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (s *stubStore) Count(ctx context.Context) (int, error) {
	return 0, errors.New("not implemented")
}

func (s *stubStore) SelectPriceSurface(ctx context.Context) ([]domain.PriceSurfaceSample, error) {
	return nil, errors.New("not implemented")
}

var _ repository.WarehouseRepository = (*stubStore)(nil)

const csvHeader = "id_mutation,adresse_numero,adresse_nom_voie,code_postal,nom_commune,code_departement,surface_reelle_bati,valeur_fonciere,date_mutation,latitude,longitude,type_local"

func gzipped(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(payload)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func datasetServer(t *testing.T, body []byte, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPipelineRunEndToEnd(t *testing.T) {
	data := csvHeader + "\n" +
		`1,42,Rue de la Paix,77100,Meaux,77,15000,1000000,2024-03-15,48.96,2.88,` + WarehousePropertyType + "\n" +
		`2,7,Rue Basse,77100,Meaux,77,15000,1000000,2024-03-16,48.96,2.88,Maison` + "\n"

	server := datasetServer(t, gzipped(t, data), http.StatusOK)
	store := &stubStore{}
	pipeline := NewPipeline(store, WithURLTemplate(server.URL+"/%s.csv.gz"))

	summary, err := pipeline.Run(context.Background(), "77")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	if summary.RowsParsed != 2 {
		t.Fatalf("rows_parsed = %d, want 2", summary.RowsParsed)
	}
	if summary.RowsSelected != 1 {
		t.Fatalf("rows_selected = %d, want 1", summary.RowsSelected)
	}
	if summary.RowsInserted != 1 {
		t.Fatalf("rows_inserted = %d, want 1", summary.RowsInserted)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.inserted))
	}
	if store.inserted[0].DVFMutationID != "1" {
		t.Fatalf("dvf_mutation_id = %q, want %q", store.inserted[0].DVFMutationID, "1")
	}
}

func TestPipelineStopsAtBatchBound(t *testing.T) {
	var builder strings.Builder
	builder.WriteString(csvHeader + "\n")
	for i := 1; i <= 150; i++ {
		builder.WriteString(fmt.Sprintf("%d,,Rue Haute,77100,Meaux,77,12000,500000,2024-01-02,,,%s\n", i, WarehousePropertyType))
	}

	server := datasetServer(t, gzipped(t, builder.String()), http.StatusOK)
	store := &stubStore{}
	pipeline := NewPipeline(store, WithURLTemplate(server.URL+"/%s.csv.gz"))

	summary, err := pipeline.Run(context.Background(), "77")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	if summary.RowsParsed != 150 {
		t.Fatalf("rows_parsed = %d, want 150", summary.RowsParsed)
	}
	if summary.RowsSelected != MaxBatchSize {
		t.Fatalf("rows_selected = %d, want %d", summary.RowsSelected, MaxBatchSize)
	}
	if len(store.inserted) != MaxBatchSize {
		t.Fatalf("stored %d records, want %d", len(store.inserted), MaxBatchSize)
	}

	// Always the first 100 in source order.
	if store.inserted[0].DVFMutationID != "1" {
		t.Fatalf("first record id = %q, want %q", store.inserted[0].DVFMutationID, "1")
	}
	if store.inserted[MaxBatchSize-1].DVFMutationID != "100" {
		t.Fatalf("last record id = %q, want %q", store.inserted[MaxBatchSize-1].DVFMutationID, "100")
	}
}

func TestPipelineFetchError(t *testing.T) {
	server := datasetServer(t, nil, http.StatusNotFound)
	store := &stubStore{}
	pipeline := NewPipeline(store, WithURLTemplate(server.URL+"/%s.csv.gz"))

	_, err := pipeline.Run(context.Background(), "77")
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("store must stay untouched on fetch failure")
	}
}

func TestPipelineDecodeError(t *testing.T) {
	server := datasetServer(t, []byte("this is not gzip"), http.StatusOK)
	store := &stubStore{}
	pipeline := NewPipeline(store, WithURLTemplate(server.URL+"/%s.csv.gz"))

	_, err := pipeline.Run(context.Background(), "77")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("store must stay untouched on decode failure")
	}
}

func TestPipelineParseError(t *testing.T) {
	// Second data row has a column count mismatch.
	data := "id_mutation,type_local\n1,Maison\n2,Maison,extra\n"
	server := datasetServer(t, gzipped(t, data), http.StatusOK)
	store := &stubStore{}
	pipeline := NewPipeline(store, WithURLTemplate(server.URL+"/%s.csv.gz"))

	_, err := pipeline.Run(context.Background(), "77")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("store must stay untouched on parse failure")
	}
}

func TestPipelineStoreError(t *testing.T) {
	data := csvHeader + "\n" +
		`1,,Rue Haute,77100,Meaux,77,12000,500000,2024-01-02,,,` + WarehousePropertyType + "\n"

	server := datasetServer(t, gzipped(t, data), http.StatusOK)
	store := &stubStore{insertErr: errors.New("duplicate key")}
	pipeline := NewPipeline(store, WithURLTemplate(server.URL+"/%s.csv.gz"))

	summary, err := pipeline.Run(context.Background(), "77")
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if summary.RowsInserted != 0 {
		t.Fatalf("rows_inserted = %d, want 0", summary.RowsInserted)
	}
}

func TestPipelineSkipsEmptyBatchInsert(t *testing.T) {
	data := csvHeader + "\n" +
		`1,,Rue Haute,77100,Meaux,77,12000,500000,2024-01-02,,,Maison` + "\n"

	server := datasetServer(t, gzipped(t, data), http.StatusOK)
	store := &stubStore{insertErr: errors.New("insert must not be called")}
	pipeline := NewPipeline(store, WithURLTemplate(server.URL+"/%s.csv.gz"))

	summary, err := pipeline.Run(context.Background(), "77")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if summary.RowsSelected != 0 || summary.RowsInserted != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestParseRowsMissingHeader(t *testing.T) {
	_, err := ParseRows(strings.NewReader(""))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse for empty input, got %v", err)
	}
}

func TestParseRowsStripsByteOrderMark(t *testing.T) {
	rows, err := ParseRows(strings.NewReader("\xEF\xBB\xBFid_mutation,type_local\n1,Maison\n"))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["id_mutation"] != "1" {
		t.Fatalf("id_mutation = %q, want %q", rows[0]["id_mutation"], "1")
	}
}
