// Package server exposes one calibration session over HTTP.
//
// The session is not safe for concurrent use, so every handler that touches
// it runs under a single mutex; training requests therefore run one at a
// time.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/internal/runlog"
	"github.com/cwbudde/algo-chemometrics/internal/telemetry"
	"github.com/cwbudde/algo-chemometrics/preprocess"
	"github.com/cwbudde/algo-chemometrics/spectra"
	"github.com/cwbudde/algo-chemometrics/spectra/csvdir"
)

const maxBodyBytes = 1 << 20

// Server serves a calib.Session.
type Server struct {
	mu      sync.Mutex
	session *calib.Session

	loader  spectra.Loader
	root    string
	history *runlog.Store
	metrics *telemetry.Metrics
	logger  *slog.Logger

	latent     int
	derivative preprocess.Derivative
	trainOpts  []calib.TrainOption
	trainLimit *rate.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithSession serves an existing session instead of a fresh one.
func WithSession(s *calib.Session) Option {
	return func(srv *Server) {
		if s != nil {
			srv.session = s
		}
	}
}

// WithLoader sets the spectra loader and the directory that load requests
// are resolved against.
func WithLoader(l spectra.Loader, root string) Option {
	return func(srv *Server) {
		if l != nil {
			srv.loader = l
		}
		if root != "" {
			srv.root = root
		}
	}
}

// WithHistory records every successful training run in h.
func WithHistory(h *runlog.Store) Option {
	return func(srv *Server) { srv.history = h }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(srv *Server) {
		if m != nil {
			srv.metrics = m
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// WithTrainDefaults sets the latent count and derivative used when a train
// request leaves them out, plus options passed to every calib.Train call.
func WithTrainDefaults(latent int, d preprocess.Derivative, opts ...calib.TrainOption) Option {
	return func(srv *Server) {
		if latent >= 1 {
			srv.latent = latent
		}
		if d.Valid() {
			srv.derivative = d
		}
		srv.trainOpts = opts
	}
}

// WithTrainLimit allows at most burst training requests at once, refilled
// at r per second. Requests over the limit get 429. r <= 0 disables the
// limit.
func WithTrainLimit(r rate.Limit, burst int) Option {
	return func(srv *Server) {
		if r <= 0 {
			srv.trainLimit = nil
			return
		}
		srv.trainLimit = rate.NewLimiter(r, max(burst, 1))
	}
}

// New returns a server with an empty session, a CSV directory loader rooted
// at the working directory and a discarding logger.
func New(opts ...Option) *Server {
	s := &Server{
		session:    calib.NewSession(),
		loader:     csvdir.New(),
		root:       ".",
		metrics:    telemetry.New(),
		logger:     slog.New(slog.DiscardHandler),
		latent:     10,
		derivative: preprocess.None,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/spectra", func(r chi.Router) {
		r.Get("/", s.handleListSpectra)
		r.Post("/load", s.handleLoad)
		r.Put("/{name}/references/{component}", s.handleSetReference)
		r.Delete("/{name}/references/{component}", s.handleClearReference)
	})

	r.Route("/components", func(r chi.Router) {
		r.Get("/", s.handleListComponents)
		r.Post("/", s.handleAddComponent)
		r.Patch("/{name}", s.handleUpdateComponent)
		r.Delete("/{name}", s.handleRemoveComponent)
		r.Post("/{name}/train", s.handleTrain)
		r.Get("/{name}/model", s.handleModel)
	})

	return r
}

// instrument logs one line per request and feeds the request metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		s.metrics.ObserveRequest(r.Method, route, status, start)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
