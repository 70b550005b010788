package api

import (
	"context"
	"errors"
	"net/http"

	"go.hackfix.me/tracks/auth"
	"go.hackfix.me/tracks/web/server/types"
)

// Login verifies the user's credentials and responds with a signed token.
func (h *Handler) Login(ctx context.Context, req *types.LoginRequest) (*types.LoginResponse, error) {
	token, err := h.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, httpError(err)
	}

	return types.NewLoginResponse(token), nil
}

// Register creates a new user.
func (h *Handler) Register(ctx context.Context, req *types.RegisterRequest) (*types.RegisterResponse, error) {
	user, err := h.svc.Register(ctx, req.Username, req.Password, req.Name)
	if err != nil {
		return nil, httpError(err)
	}

	return types.NewRegisterResponse(auth.RegisteredMessage(user.Username)), nil
}

// Me responds with the profile of the authenticated user.
func (h *Handler) Me(_ context.Context, req *types.MeRequest) (*types.MeResponse, error) {
	return types.NewMeResponse(req.User), nil
}

// statusFor returns the HTTP status code of an auth error kind.
func statusFor(kind auth.ErrorKind) int {
	switch kind {
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindInvalidCredentials, auth.KindUnauthorized:
		return http.StatusUnauthorized
	case auth.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// httpError converts a domain error into an HTTP error. Any other error is
// returned as is, and results in a server error.
func httpError(err error) error {
	var aerr *auth.Error
	if errors.As(err, &aerr) {
		return types.NewError(statusFor(aerr.Kind), aerr.Message)
	}
	return err
}
