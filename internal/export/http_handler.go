package export

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Handler exposes the export service as a GET endpoint with a format
// query parameter (csv or xlsx).
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a download endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}

	stamp := time.Now().UTC().Format("20060102-150405")

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="warehouses-%s.csv"`, stamp))
		if err := h.service.WriteCSV(r.Context(), w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="warehouses-%s.xlsx"`, stamp))
		if err := h.service.WriteXLSX(r.Context(), w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	default:
		http.Error(w, fmt.Sprintf("unsupported format: %s", format), http.StatusBadRequest)
	}
}
