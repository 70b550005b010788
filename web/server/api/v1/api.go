package api

import (
	"log/slog"
	"net/http"

	"go.hackfix.me/tracks/auth"
	"go.hackfix.me/tracks/web/server/handler"
	"go.hackfix.me/tracks/web/server/types"
)

// Handler is the API endpoint handler.
type Handler struct {
	svc    *auth.Service
	logger *slog.Logger
}

// SetupHandlers configures the web API handlers.
func SetupHandlers(svc *auth.Service, errLvl types.ErrorLevel, logger *slog.Logger) http.Handler {
	h := Handler{svc: svc, logger: logger}
	mux := http.NewServeMux()

	newPipeline := func() *handler.Pipeline {
		return handler.NewPipeline().
			Serialize(handler.JSON()).
			ErrorLevel(errLvl).
			Logger(logger)
	}

	mux.Handle("POST /users/login", handler.Handle(h.Login,
		newPipeline().ProcessResponse(handler.NoStore)))
	mux.Handle("POST /users/register", handler.Handle(h.Register, newPipeline()))
	mux.Handle("GET /users/me", handler.Handle(h.Me,
		newPipeline().Auth(handler.BearerAuth(svc))))

	return mux
}
