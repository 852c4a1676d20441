package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"pycompat/internal/adapters"
	"pycompat/internal/app"
	"pycompat/internal/ports"
	"pycompat/internal/types"
)

const defaultCacheTTL = 30 * time.Minute

// Server serves the compatibility badges consumed by package READMEs
// and the dashboard. Badge SVGs are proxied from shields.io and cached
// per package and badge kind.
type Server struct {
	Service       app.Service
	Cache         ports.BadgeCachePort
	Badges        *adapters.BadgeFetchAdapter
	PortfolioPath string
	CacheTTL      time.Duration

	portfolioOnce   sync.Once
	loadedPortfolio types.Portfolio
}

func New(service app.Service, cache ports.BadgeCachePort, portfolioPath string) *Server {
	if cache == nil {
		cache = adapters.NewCacheMemoryAdapter()
	}
	return &Server{
		Service:       service,
		Cache:         cache,
		Badges:        adapters.NewBadgeFetchAdapter(""),
		PortfolioPath: portfolioPath,
		CacheTTL:      defaultCacheTTL,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/self_compatibility_badge/image", s.handleSelfBadgeImage)
	r.Get("/self_compatibility_badge/target", s.handleSelfBadgeTarget)
	r.Get("/compatibility_badge/image", s.handlePairBadgeImage)
	r.Get("/compatibility_badge/target", s.handlePairBadgeTarget)
	r.Get("/dependency_badge/image", s.handleDependencyBadgeImage)
	r.Get("/dependency_badge/target", s.handleDependencyBadgeTarget)
	return r
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", addr).Msg("badge server listening")
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(wrapped, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
