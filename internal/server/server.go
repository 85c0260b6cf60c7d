// Package server provides the HTTP server and routing for Lattice.
package server

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/lattice/internal/config"
	"github.com/aristath/lattice/internal/di"
	analoghandlers "github.com/aristath/lattice/internal/modules/analog/handlers"
	comparisonhandlers "github.com/aristath/lattice/internal/modules/comparison/handlers"
	digitalhandlers "github.com/aristath/lattice/internal/modules/digital/handlers"
	reporthandlers "github.com/aristath/lattice/internal/modules/reports/handlers"
	scenariohandlers "github.com/aristath/lattice/internal/modules/scenarios/handlers"
	snapshothandlers "github.com/aristath/lattice/internal/modules/snapshots/handlers"
	sweephandlers "github.com/aristath/lattice/internal/modules/sweep/handlers"
	"github.com/aristath/lattice/pkg/embedded"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container
}

// Server represents the HTTP server
type Server struct {
	router          *chi.Mux
	server          *http.Server
	log             zerolog.Logger
	cfg             *config.Config
	container       *di.Container
	systemHandlers  *SystemHandlers
	archiveHandlers *ArchiveHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Config,
		container: cfg.Container,
	}

	s.systemHandlers = NewSystemHandlers(
		cfg.Log,
		cfg.Config.DataDir,
		cfg.Container.Databases(),
		cfg.Container.Scheduler,
		cfg.Container.Jobs,
	)
	s.archiveHandlers = NewArchiveHandlers(cfg.Container.ArchiveService, cfg.Log)

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Config.ListenAddr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check (outside /api, no envelope)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Event streams. SSE must be registered before the generic
		// routes so the long-lived connection is not compressed away.
		eventsStreamHandler := NewEventsStreamHandler(s.container.EventBus, s.log)
		r.Get("/events/stream", eventsStreamHandler.ServeHTTP)

		eventsWSHandler := NewEventsWSHandler(s.container.EventBus, s.log)
		r.Get("/events/ws", eventsWSHandler.ServeHTTP)

		// Estimation modules
		analogHandler := analoghandlers.NewHandler(s.log)
		analogHandler.RegisterRoutes(r)

		digitalHandler := digitalhandlers.NewHandler(s.log)
		digitalHandler.RegisterRoutes(r)

		comparisonHandler := comparisonhandlers.NewHandler(s.container.ComparisonEngine, s.log)
		comparisonHandler.RegisterRoutes(r)

		// Report generation and store
		reportHandler := reporthandlers.NewHandler(s.container.ReportService, s.log)
		reportHandler.RegisterRoutes(r)

		// Scenario catalog
		scenarioHandler := scenariohandlers.NewHandler(s.container.ScenarioService, s.log)
		scenarioHandler.RegisterRoutes(r)

		// Snapshot history
		snapshotHandler := snapshothandlers.NewHandler(s.container.SnapshotService, s.log)
		snapshotHandler.RegisterRoutes(r)

		// Parameter sweeps
		sweepHandler := sweephandlers.NewHandler(s.container.SweepService, s.log)
		sweepHandler.RegisterRoutes(r)

		// Cold archives
		s.archiveHandlers.RegisterRoutes(r)

		// System monitoring and job triggers
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/info", s.systemHandlers.HandleSystemInfo)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			r.Post("/jobs/{name}", s.systemHandlers.HandleTriggerJob)
		})
	})

	// Status page from the embedded filesystem
	staticFS, err := fs.Sub(embedded.Files, "static")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create static filesystem from embedded files")
		return
	}

	s.router.Get("/", s.handleIndex(staticFS))
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/health") {
			http.NotFound(w, r)
			return
		}
		s.handleIndex(staticFS)(w, r)
	})
}

// handleHealth reports service liveness including a ping of every database
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	for _, db := range s.container.Databases() {
		if err := db.Conn().PingContext(ctx); err != nil {
			s.log.Error().Err(err).Str("database", db.Name()).Msg("Health check ping failed")
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"status":"` + status + `"}`))
}

// handleIndex serves the embedded status page
func (s *Server) handleIndex(staticFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		indexFile, err := staticFS.Open("index.html")
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to open embedded index.html")
			http.Error(w, "Status page not available", http.StatusInternalServerError)
			return
		}
		defer indexFile.Close()

		data, err := io.ReadAll(indexFile)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to read embedded index.html")
			http.Error(w, "Status page not available", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(data); err != nil {
			s.log.Error().Err(err).Msg("Failed to write index.html response")
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
