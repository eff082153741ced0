package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
)

type Server struct {
	http     *http.Server
	cfg      config.ServerConfig
	tls      config.TLSConfig
	log      *zap.Logger
	listener net.Listener
}

func New(cfg config.ServerConfig, tlsCfg config.TLSConfig, handler http.Handler, log *zap.Logger) (*Server, error) {
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if tlsCfg.Enabled {
		t, err := ServerTLSConfig(tlsCfg.CertFile, tlsCfg.KeyFile, tlsCfg.CAFile)
		if err != nil {
			return nil, err
		}
		srv.TLSConfig = t
	}

	return &Server{http: srv, cfg: cfg, tls: tlsCfg, log: log}, nil
}

// Listen binds the address without serving yet, so callers learn about
// port conflicts before anything else starts.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}
	s.listener = ln
	return nil
}

func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.http.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening",
			zap.String("addr", s.Addr()),
			zap.Bool("tls", s.tls.Enabled),
			zap.Bool("mtls", s.tls.Enabled && s.tls.CAFile != ""),
		)

		var err error
		if s.tls.Enabled {
			// Certificates are already in TLSConfig
			err = s.http.ServeTLS(s.listener, "", "")
		} else {
			err = s.http.Serve(s.listener)
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server", zap.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
