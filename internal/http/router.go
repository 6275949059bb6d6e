// Package http wires the chi router for the submission API: the global
// middleware stack, an unauthenticated /health route, and the job
// routes. OpenAPI request-validation and auth middleware are not
// carried here — there is no codegen toolchain available to regenerate
// a spec-bound ServerInterface, and no auth boundary is defined for
// this API. See DESIGN.md.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rezkam/taskflow/internal/http/handler"
	mw "github.com/rezkam/taskflow/internal/http/middleware"
	"github.com/rezkam/taskflow/internal/usecase"
)

// DefaultMaxBodyBytes is used when Config.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 1 << 20 // 1MB

// Config holds configuration for the HTTP router.
type Config struct {
	MaxBodyBytes int64
}

// NewRouter builds the chi router for the submission API and wraps it
// with otelhttp so every request gets a server-side span, the same way
// the teacher's REST gateway wraps its mux before handing it to
// http.Server.
func NewRouter(svc *usecase.Service, cfg Config) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.MaxBodyBytes(cfg.MaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			slog.ErrorContext(r.Context(), "failed to write health check response", "error", err)
		}
	})

	jobHandler := handler.NewJobHandler(svc)
	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", jobHandler.CreateJob)
		r.Get("/{id}", jobHandler.GetJob)
	})

	return otelhttp.NewHandler(r, "taskflow-submission-api")
}
