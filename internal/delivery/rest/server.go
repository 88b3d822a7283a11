package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"searchreview/internal/bootstrap/config"
	"searchreview/internal/bootstrap/logging"
	"searchreview/internal/errs"
	usecasereview "searchreview/internal/usecase/review"
)

// Server owns the HTTP listener for the review API.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

func NewServer(cfg config.HTTPConfig, svc *usecasereview.Service) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(svc),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "delivery.rest"))

	serveErr := make(chan error, 1)
	go func() {
		logging.Info(logCtx, "http server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return errs.Wrap(err, "serve http")
	case <-ctx.Done():
	}

	logging.Info(logCtx, "http server draining")

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return errs.Wrap(err, "shutdown http server")
	}
	return nil
}
