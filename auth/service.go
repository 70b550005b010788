package auth

import (
	"context"
	"fmt"
	"log/slog"

	"go.hackfix.me/tracks/db/models"
	"go.hackfix.me/tracks/db/types"
)

// Service implements the login and registration flows.
type Service struct {
	store  Store
	hasher Hasher
	tokens TokenIssuer
	logger *slog.Logger
}

// NewService returns a new Service. A nil logger discards all log output.
func NewService(store Store, hasher Hasher, tokens TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("component", "auth"),
	}
}

// Login verifies the user's credentials and returns a signed token. It
// returns a KindNotFound error if the user doesn't exist, and a
// KindInvalidCredentials error if the password doesn't match. Any other error
// from the store, hasher or token issuer is returned as is.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.FindUser(ctx, username)
	if err != nil {
		if types.IsNoResult(err) {
			return "", userNotFound(username)
		}
		return "", err
	}
	if user == nil {
		return "", userNotFound(username)
	}

	ok, err := s.hasher.Compare(password, user.Password)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.Debug("password mismatch", "username", username)
		return "", invalidCredentials()
	}

	token, err := s.tokens.Sign(user)
	if err != nil {
		return "", err
	}

	s.logger.Debug("user logged in", "username", username, "user_id", user.ID)

	return token, nil
}

// Register creates a new user with the given credentials. It returns a
// KindConflict error if the username is taken, whether that is detected before
// the insert or by the store's unique constraint. Any other error from the
// store or hasher is returned as is.
func (s *Service) Register(ctx context.Context, username, password, name string) (*models.User, error) {
	existing, err := s.store.FindUser(ctx, username)
	switch {
	case err == nil && existing != nil:
		return nil, usernameTaken(username)
	case err != nil && !types.IsNoResult(err):
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, Password: hash, Name: name, Tracks: []string{}}
	if err = s.store.CreateUser(ctx, user); err != nil {
		if types.IsDuplicate(err) {
			return nil, usernameTaken(username)
		}
		return nil, err
	}

	s.logger.Info("registered user", "username", username, "user_id", user.ID)

	return user, nil
}

// Authenticate verifies token and returns the user it was issued for. It
// returns a KindUnauthorized error if the token is invalid, or if its user no
// longer exists.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug("rejected token", "error", err)
		return nil, unauthorized("invalid token")
	}

	user, err := s.store.FindUser(ctx, claims.Username)
	if err != nil {
		if types.IsNoResult(err) {
			return nil, unauthorized("invalid token")
		}
		return nil, err
	}
	if user == nil {
		return nil, unauthorized("invalid token")
	}

	// The username may have been deleted and registered again.
	if user.ID != claims.Subject {
		return nil, unauthorized("invalid token")
	}

	return user, nil
}

// RegisteredMessage returns the confirmation message for a new registration.
func RegisteredMessage(username string) string {
	return fmt.Sprintf("User registered with username: %s", username)
}
