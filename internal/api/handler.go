// Package api exposes the warehouse read surface: health, paginated
// listing, and aggregate statistics.
package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/dvfdata/warehouse-api/internal/domain"
	"github.com/dvfdata/warehouse-api/internal/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Handler serves the read endpoints over a warehouse repository.
type Handler struct {
	repo repository.WarehouseRepository
}

// NewHandler wires the read API against a repository.
func NewHandler(repo repository.WarehouseRepository) *Handler {
	return &Handler{repo: repo}
}

// Register mounts the read routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/api/warehouses", h.handleList)
	mux.HandleFunc("/api/stats", h.handleStats)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleList returns one page of warehouses. Out-of-range pagination
// is clamped, never rejected: limit to [1,100], offset to >= 0.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := clamp(queryInt(r, "limit", defaultLimit), 1, maxLimit)
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.repo.ListPage(r.Context(), limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, domain.WarehouseListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// handleStats aggregates over the full store: mean of non-null prices
// and sum of non-null surfaces, both rounded to 2 decimals, 0.0 when
// there is nothing to aggregate.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.repo.Count(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	samples, err := h.repo.SelectPriceSurface(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var priceSum, surfaceSum float64
	priced := 0
	for _, sample := range samples {
		if sample.PriceEUR != nil {
			priceSum += *sample.PriceEUR
			priced++
		}
		if sample.SurfaceM2 != nil {
			surfaceSum += *sample.SurfaceM2
		}
	}

	stats := domain.StatsResponse{Count: count}
	if priced > 0 {
		stats.AvgPrice = round2(priceSum / float64(priced))
	}
	stats.TotalSurface = round2(surfaceSum)

	writeJSON(w, http.StatusOK, stats)
}

// queryInt reads an integer query parameter, falling back to the
// default when absent or not an integer.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
