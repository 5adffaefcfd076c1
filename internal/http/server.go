// Package http serves the receipts and expenditures tables. Every visitor
// gets a session holding its own table state; rows come from a shared,
// periodically reloaded dataset snapshot.
package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"ledger/internal/cache"
	"ledger/internal/datasets"
	"ledger/internal/format"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
	"ledger/internal/sources"
	"ledger/internal/table"
	appweb "ledger/web"
)

const (
	snapshotKey            = "datasets"
	defaultCleanupInterval = 5 * time.Minute
	staticMaxAge           = 3600
)

// Config holds the server settings taken from the application config.
type Config struct {
	Addr              string
	RowsPerPage       int
	PaginationEnabled bool
	SessionTTL        time.Duration
	MaxSessions       int
	// DatasetCacheTTL bounds how stale a snapshot may get; 0 reloads on
	// every request.
	DatasetCacheTTL time.Duration
	CleanupInterval time.Duration
	RateLimit       ratelimit.Config
	// Ready backs /readyz; nil always reports ready.
	Ready func(context.Context) error
}

// snapshot is one load of the data source. generation increases with every
// load so sessions can tell when to rebuild.
type snapshot struct {
	sources.Snapshot
	generation uint64
}

type Server struct {
	http.Server
	templates *template.Template
	source    sources.Reader
	formatter *format.Formatter
	tableOpts []table.Option
	ready     func(context.Context) error

	snapshots  *cache.Loader[snapshot]
	generation atomic.Uint64
	sessions   *sessionStore
	caches     *cache.Manager

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	logger   *log.Logger

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates, wires the middleware chain and
// starts cache cleanup. Call Shutdown to stop the background work.
func NewServer(cfg Config, source sources.Reader, formatter *format.Formatter, logger *log.Logger) (*Server, error) {
	if source == nil {
		return nil, errors.New("data source is required")
	}
	if formatter == nil {
		return nil, errors.New("formatter is required")
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	if cfg.MaxSessions < 1 {
		cfg.MaxSessions = 1000
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}

	s := &Server{
		templates: t,
		source:    source,
		formatter: formatter,
		tableOpts: []table.Option{
			table.WithRowsPerPage(cfg.RowsPerPage),
			table.WithPagination(cfg.PaginationEnabled),
		},
		ready:     cfg.Ready,
		snapshots: cache.NewLoader(cache.NewLRUCache[snapshot](1, cfg.DatasetCacheTTL)),
		sessions:  newSessionStore(cfg.MaxSessions, cfg.SessionTTL),
		caches:    cache.NewManager(),
		limiter:   ratelimit.NewLimiter(cfg.RateLimit),
		detector:  security.NewDetector(),
		logger:    logger.WithComponent(log.ComponentHTTP),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	s.caches.Register("sessions", s.sessions.sessions)
	s.caches.Register("snapshots", s.snapshots)
	s.caches.StartCleanup(cfg.CleanupInterval)

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		s.caches.Stop()
		s.limiter.Stop()
		return nil, err
	}

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.detector.ExtractClientIP)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(staticMaxAge)(static))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("POST /refresh", s.handleRefresh)

	mux.HandleFunc("GET /tables/{name}", s.handleTable)
	mux.HandleFunc("POST /tables/{name}/filter", s.handleFilter)
	mux.HandleFunc("POST /tables/{name}/sort", s.handleSort)
	mux.HandleFunc("POST /tables/{name}/page", s.handlePage)
	mux.HandleFunc("POST /tables/{name}/reset", s.handleReset)
	mux.HandleFunc("POST /tables/{name}/pagination", s.handlePagination)
	return nil
}

// loadSnapshot returns the cached snapshot, reading the source on a miss.
// Concurrent misses share one read.
func (s *Server) loadSnapshot(ctx context.Context) (snapshot, error) {
	return s.snapshots.Get(ctx, snapshotKey, func(ctx context.Context) (snapshot, error) {
		snap, err := sources.LoadDatasets(ctx, s.source)
		if err != nil {
			return snapshot{}, err
		}
		gen := s.generation.Add(1)
		s.logger.InfoContext(ctx, "Datasets loaded",
			"generation", gen,
			"receipts", len(snap.Receipts),
			"expenditures", len(snap.Expenditures))
		return snapshot{Snapshot: snap, generation: gen}, nil
	})
}

func (s *Server) buildTables(snap snapshot) (map[string]tableState, error) {
	receipts, err := datasets.NewReceiptTable(snap.Receipts, snap.Taxonomy, s.formatter, s.tableOpts...)
	if err != nil {
		return nil, fmt.Errorf("build receipts table: %w", err)
	}
	expenditures, err := datasets.NewExpenditureTable(snap.Expenditures, snap.Taxonomy, s.formatter, s.tableOpts...)
	if err != nil {
		return nil, fmt.Errorf("build expenditures table: %w", err)
	}
	return map[string]tableState{
		datasets.Receipts:     receipts,
		datasets.Expenditures: expenditures,
	}, nil
}

// SessionCount is the number of live sessions.
func (s *Server) SessionCount() int {
	return s.sessions.len()
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
