package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bher20/expensemanager/internal/api/swagger"
	"github.com/bher20/expensemanager/internal/metrics"
	"github.com/bher20/expensemanager/internal/service"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewMux constructs the HTTP handler, wiring the expense routes, metrics,
// swagger and health endpoints.
func NewMux(svc *service.Service, st Pinger, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	h := &expenseHandler{svc: svc, logger: logger}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /expenses", h.list)
	mux.HandleFunc("POST /expenses", h.add)
	mux.HandleFunc("DELETE /expenses/{id}", h.delete)
	mux.HandleFunc("GET /expenses/category", h.byCategory)
	mux.HandleFunc("GET /expenses/category/totalAmount", h.categoryTotals)
	mux.HandleFunc("GET /expenses/totalAmount", h.totalAmount)
	mux.HandleFunc("GET /expenses/filterByDate", h.filterByDate)

	// Metrics endpoint.
	mux.Handle("GET /metrics", promhttp.Handler())

	// Health / readiness / liveness.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("live"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if st != nil {
			if err := st.Ping(ctx); err != nil {
				logger.WarnContext(ctx, "readyz: storage ping failed", "error", err)
				http.Error(w, "storage not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.Handle("GET /swagger/", http.StripPrefix("/swagger", swagger.Handler()))

	return withMetrics(withRecovery(mux, logger))
}

type messageResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMetrics records request count, duration and error responses per
// matched route pattern.
func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route).Inc()
		metrics.RequestDurationSeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if rec.status >= 400 {
			metrics.RequestErrorsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		}
	})
}

// withRecovery turns a panic in a handler into a 500 JSON response.
func withRecovery(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logger.ErrorContext(r.Context(), "handler panic",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", p)
				writeJSON(w, http.StatusInternalServerError, messageResponse{
					Message: "An unexpected error occurred.",
					Detail:  fmt.Sprint(p),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
