// Package rest exposes resolution, the unresolved queue and reference data
// curation over HTTP for review tooling.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ersonp/betnorm/internal/application/handlers"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
)

// Handlers bundles the application handlers the API dispatches to.
type Handlers struct {
	Resolve *handlers.ResolveHandler
	Queue   *handlers.QueueHandler
	RefData *handlers.RefDataHandler
}

// API holds the HTTP handlers.
type API struct {
	h       Handlers
	profile string
	logger  *slog.Logger
}

// NewRouter builds the chi router with middleware and routes.
func NewRouter(h Handlers, cfg config.ServerConfig, profile string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	api := &API{h: h, profile: profile, logger: logger}

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Routes
	r.Get("/health", api.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/resolve/{kind}", api.Resolve)

		r.Route("/queue", func(r chi.Router) {
			r.Get("/groups", api.QueueGroups)
			r.Get("/count", api.QueueCount)
			r.Post("/enqueue", api.Enqueue)
			r.Post("/groups/map", api.MapGroup)
			r.Post("/groups/create", api.CreateGroup)
			r.Post("/groups/ignore", api.IgnoreGroup)
		})

		r.Route("/refdata/{kind}", func(r chi.Router) {
			r.Get("/", api.ListRefData)
			r.Post("/", api.AddRefData)
			r.Post("/disable", api.DisableRefData)
			r.Post("/enable", api.EnableRefData)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("review api listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down review api")
	}

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Close()
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// requestLogger logs one line per request with slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
