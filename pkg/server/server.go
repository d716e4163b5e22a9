// Package server exposes the return-risk pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"returnrisk/pkg/config"
	"returnrisk/pkg/session"
)

const (
	// SessionCookie carries the session id between calls of one user flow.
	SessionCookie = "returnrisk_session"

	DefaultHTTPTimeout = 2 * time.Minute
	shutdownTimeout    = 30 * time.Second

	// sessionSweepInterval is how often idle sessions are looked for.
	sessionSweepInterval = time.Minute

	// maxJSONBodyBytes caps the /predict_single request body.
	maxJSONBodyBytes = 64 << 10
)

// Server wires the HTTP routes to a session store.
type Server struct {
	cfg    *config.Config
	store  *session.Store
	router *chi.Mux
}

func New(cfg *config.Config, store *session.Store) *Server {
	s := &Server{cfg: cfg, store: store, router: chi.NewRouter()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(DefaultHTTPTimeout))

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/analyze", s.handleAnalyze)
	s.router.Post("/predict", s.handlePredict)
	s.router.Post("/predict_single", s.handlePredictSingle)
	s.router.Get("/download", s.handleDownload)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.store.RunSweeper(sweepCtx, sessionSweepInterval, s.cfg.SessionTTL)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.cfg.Address).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("HTTP server stopped")
	return nil
}

// existingSession returns the caller's session, or nil when the request
// carries no cookie naming a live one. Routes that only act on earlier state
// use it so they never create sessions.
func (s *Server) existingSession(r *http.Request) *session.Session {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	return s.store.Lookup(c.Value)
}

// session returns the caller's session, issuing a cookie for new ones.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess := s.store.Get(id)
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
