package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	actx "go.hackfix.me/tracks/app/context"
	aerrors "go.hackfix.me/tracks/app/errors"
	"go.hackfix.me/tracks/auth"
	"go.hackfix.me/tracks/web/server"
	stypes "go.hackfix.me/tracks/web/server/types"
)

const (
	defaultAddress  = "localhost:8080"
	shutdownTimeout = 10 * time.Second
)

// Serve starts the web server.
type Serve struct {
	Address   string `arg:"" optional:"" help:"[host]:port to listen on. Default: localhost:8080"`
	JWTSecret string `env:"TRACKS_JWT_SECRET,JWT_SECRET" help:"Secret used to sign access tokens. Overrides the value in the configuration file."`
	//nolint:lll // Long struct tags are unavoidable.
	ErrorLevel stypes.ErrorLevel `default:"minimal" enum:"none,minimal,full" help:"Detail level of error messages returned to clients, in order to avoid leaking sensitive information. This doesn't affect response status codes. Valid values: ${enum} \n none: hide all error messages; minimal: hide server error messages; full: keep error messages intact"`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	if err := checkInitialized(appCtx); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return aerrors.NewRuntimeError("the JWT secret is not set", nil,
			"Run 'tracks init' to generate one, or set it with --jwt-secret or the JWT_SECRET environment variable.")
	}

	svc, err := newService(appCtx, c.JWTSecret)
	if err != nil {
		return err
	}

	srv := server.New(c.Address, svc, c.ErrorLevel, appCtx.Logger)

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	// See https://dev.to/mokiat/proper-http-shutdown-in-go-3fji
	srvDone := make(chan error)
	go func() {
		srvErr := srv.ListenAndServe(nil)
		appCtx.Logger.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		appCtx.Logger.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		appCtx.Logger.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(appCtx.Ctx), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}
	<-srvDone

	return nil
}

func checkInitialized(appCtx *actx.Context) error {
	if appCtx.VersionInit == "" {
		return aerrors.NewRuntimeError("tracks is not initialized", nil, "Run 'tracks init' first.")
	}
	return nil
}

// newService returns the authentication service configured for the local
// store. An empty jwtSecret returns a service that can only register users.
func newService(appCtx *actx.Context, jwtSecret string) (*auth.Service, error) {
	authCfg := appCtx.Config.Auth
	hasher, err := auth.NewPasswordHasher(
		auth.HashAlgorithm(authCfg.PasswordHash.V), authCfg.BcryptCost.V)
	if err != nil {
		return nil, aerrors.NewRuntimeError("invalid password hashing configuration", err, "")
	}

	var tokens auth.TokenIssuer
	if jwtSecret != "" {
		tokens, err = auth.NewJWTIssuer([]byte(jwtSecret), authCfg.TokenExpiration.V, appCtx.TimeNow)
		if err != nil {
			return nil, aerrors.NewRuntimeError("invalid token configuration", err, "")
		}
	}

	return auth.NewService(appCtx.Store, hasher, tokens, appCtx.Logger), nil
}
