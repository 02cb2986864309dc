package main

import (
	"context"
	"log"
	"os"

	"github.com/dvfdata/warehouse-api/internal/config"
	"github.com/dvfdata/warehouse-api/internal/db"
	"github.com/dvfdata/warehouse-api/internal/ingestion"
	"github.com/dvfdata/warehouse-api/internal/repository"
)

// Usage: ingest [department]
// Downloads the DVF extract for the department (default 77), filters
// it to large warehouse sales, and loads them into the store.
func main() {
	department := ingestion.DefaultDepartment
	if len(os.Args) > 1 {
		department = os.Args[1]
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn.Pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	warehouseRepo := repository.NewWarehouseRepository(conn.Pool)

	var opts []ingestion.Option
	if cfg.Ingest.URLTemplate != "" {
		opts = append(opts, ingestion.WithURLTemplate(cfg.Ingest.URLTemplate))
	}
	pipeline := ingestion.NewPipeline(warehouseRepo, opts...)

	summary, err := pipeline.Run(ctx, department)
	if err != nil {
		log.Fatalf("Ingestion failed: %v", err)
	}

	log.Printf("done: parsed=%d selected=%d inserted=%d",
		summary.RowsParsed, summary.RowsSelected, summary.RowsInserted)
}
