package healthcheck

import (
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/angeloszaimis/climate-api/internal/dataset"
)

// Status is the body served on /health.
type Status struct {
	Status    string `json:"status"`
	Records   int    `json:"records"`
	Countries int    `json:"countries"`
	Skipped   int    `json:"skipped"`
	LoadedAt  string `json:"loaded_at"`
}

// Checker reports the service as healthy once it holds a dataset. The
// dataset never changes, so the body is computed once.
type Checker struct {
	logger *slog.Logger
	status Status
}

func New(ds *dataset.Dataset, loadedAt time.Time, logger *slog.Logger) *Checker {
	return &Checker{
		logger: logger,
		status: Status{
			Status:    "ok",
			Records:   ds.Len(),
			Countries: len(ds.Countries()),
			Skipped:   ds.Skipped(),
			LoadedAt:  loadedAt.UTC().Format(time.RFC3339),
		},
	}
}

// Status returns the health body.
func (c *Checker) Status() Status {
	return c.status
}

func (c *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(c.status); err != nil {
		c.logger.Warn("Failed to write health status", slog.Any("err", err))
	}
}
