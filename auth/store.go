package auth

import (
	"context"

	"go.hackfix.me/tracks/db/models"
)

// Store is the persistent collection of user records.
type Store interface {
	// FindUser returns the user with the given username, or a
	// types.NoResultError if it doesn't exist.
	FindUser(ctx context.Context, username string) (*models.User, error)
	// CreateUser inserts a new user, or returns a *types.DuplicateError if
	// the username is taken.
	CreateUser(ctx context.Context, user *models.User) error
}

// Hasher is a one-way password hashing and verification primitive.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) (bool, error)
}

// TokenIssuer produces and verifies signed bearer tokens.
type TokenIssuer interface {
	Sign(user *models.User) (string, error)
	Verify(token string) (*Claims, error)
}
