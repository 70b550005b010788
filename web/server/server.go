package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.hackfix.me/tracks/auth"
	"go.hackfix.me/tracks/web/server/api/v1"
	"go.hackfix.me/tracks/web/server/middleware"
	"go.hackfix.me/tracks/web/server/types"
)

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	logger *slog.Logger
}

// New returns a new web Server instance that will listen on addr.
func New(addr string, svc *auth.Service, errLvl types.ErrorLevel, logger *slog.Logger) *Server {
	logger = logger.With("component", "web-server")
	return &Server{
		Server: &http.Server{
			Handler:           SetupHandlers(svc, errLvl, logger),
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		logger: logger,
	}
}

// ListenAndServe starts the HTTP server. It stores the actual listen address,
// which is convenient when the address is dynamically determined by the
// system (e.g. ':0'). If ready is not nil, the address is sent on it once the
// listener is open.
func (s *Server) ListenAndServe(ready chan<- string) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.Addr = ln.Addr().String()
	s.logger.Info("started listener", "address", s.Addr)
	if ready != nil {
		ready <- s.Addr
	}

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// SetupHandlers configures the server HTTP handlers.
func SetupHandlers(svc *auth.Service, errLvl types.ErrorLevel, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", api.SetupHandlers(svc, errLvl, logger)))

	return middleware.Chain(mux, middleware.RequestID(), middleware.Logger(logger))
}
