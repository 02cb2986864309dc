package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/dvfdata/warehouse-api/internal/api"
	"github.com/dvfdata/warehouse-api/internal/config"
	"github.com/dvfdata/warehouse-api/internal/db"
	"github.com/dvfdata/warehouse-api/internal/export"
	"github.com/dvfdata/warehouse-api/internal/metrics"
	"github.com/dvfdata/warehouse-api/internal/middleware"
	"github.com/dvfdata/warehouse-api/internal/repository"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn.Pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	warehouseRepo := repository.NewWarehouseRepository(conn.Pool)

	mux := http.NewServeMux()

	apiHandler := api.NewHandler(warehouseRepo)
	apiHandler.Register(mux)

	exportService := export.NewService(warehouseRepo)
	mux.Handle("/api/warehouses/export", export.NewHTTPHandler(exportService))

	m := metrics.New()
	mux.Handle("/metrics", metrics.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := middleware.LoggingMiddleware(
		middleware.Metrics(m)(
			corsHandler.Handler(mux),
		),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting warehouse API server on %s", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
