package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/amiskov/spendahead/pkg/common"
	"github.com/amiskov/spendahead/pkg/logger"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Checker pings one backing service.
type Checker func(ctx context.Context) error

type Handler struct {
	version string
	checks  map[string]Checker
	timeout time.Duration
	now     func() time.Time
}

// NewHandler reports on the given named checks; nil checks are skipped.
func NewHandler(version string, checks map[string]Checker) *Handler {
	cs := make(map[string]Checker, len(checks))
	for name, c := range checks {
		if c != nil {
			cs[name] = c
		}
	}
	return &Handler{
		version: version,
		checks:  cs,
		timeout: 2 * time.Second,
		now:     time.Now,
	}
}

type serviceStatus struct {
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	common.WriteRespJSON(w, map[string]any{
		"status":    statusHealthy,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   h.version,
	})
}

func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	common.WriteRespJSON(w, map[string]any{
		"alive":     true,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) Detailed(w http.ResponseWriter, r *http.Request) {
	services, ok := h.run(r.Context())
	status := statusHealthy
	code := http.StatusOK
	if !ok {
		status, code = statusUnhealthy, http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"services":  services,
	})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	services, ok := h.run(r.Context())
	checks := make(map[string]bool, len(services))
	for name, s := range services {
		checks[name] = s.Connected
	}
	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"ready":     ok,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (h *Handler) run(ctx context.Context) (map[string]serviceStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	res := make(map[string]serviceStatus, len(names))
	ok := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.Log(ctx).Warnf("health: %s check failed, %v", name, err)
			res[name] = serviceStatus{Status: statusUnhealthy}
			ok = false
			continue
		}
		res[name] = serviceStatus{Status: statusHealthy, Connected: true}
	}
	return res, ok
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	common.WriteRespJSON(w, v)
}
