package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers"
)

const (
	statusOK   = "ok"
	statusDown = "down"
)

// Report результат проверок готовности
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type Handler struct {
	checks  map[string]CheckFunc
	timeout time.Duration
	logger  Logger
}

func NewHandler(checks map[string]CheckFunc, timeout time.Duration, logger Logger) *Handler {
	return &Handler{
		checks:  checks,
		timeout: timeout,
		logger:  logger,
	}
}

// Live GET /health/live
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Report{Status: statusOK})
}

// Ready GET /health/ready, 503 если хотя бы одна зависимость недоступна
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report := Report{Status: statusOK, Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("GET /health/ready - %s is down: %v", name, err)
			report.Checks[name] = statusDown
			report.Status = statusDown
			continue
		}
		report.Checks[name] = statusOK
	}

	if report.Status != statusOK {
		handlers.RespondJSON(w, http.StatusServiceUnavailable, report)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, report)
}
