package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.hackfix.me/tracks/auth"
	"go.hackfix.me/tracks/web/server/types"
)

// Authenticator validates a request and returns an updated context or an error.
// If authentication is successful, a valid User will be set on the Request.
type Authenticator func(context.Context, types.Request) (context.Context, error)

// BearerAuth creates an authenticator that validates the token in the
// Authorization header, and loads the user it was issued for.
func BearerAuth(svc *auth.Service) Authenticator {
	return func(ctx context.Context, req types.Request) (context.Context, error) {
		token, err := parseAuthHeader(req.GetHTTPRequest().Header.Get("Authorization"))
		if err != nil {
			return ctx, types.NewError(http.StatusUnauthorized, err.Error())
		}

		user, err := svc.Authenticate(ctx, token)
		if err != nil {
			var aerr *auth.Error
			if errors.As(err, &aerr) {
				return ctx, types.NewError(http.StatusUnauthorized, aerr.Message)
			}
			return ctx, err
		}

		req.SetUser(user)

		return ctx, nil
	}
}

// parseAuthHeader parses a Bearer token from an Authorization header.
func parseAuthHeader(header string) (string, error) {
	if header == "" {
		return "", errors.New("empty Authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("invalid Authorization header scheme")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("empty bearer token")
	}

	return token, nil
}
