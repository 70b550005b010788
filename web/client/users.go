package client

import (
	"context"
	"net/http"

	"go.hackfix.me/tracks/db/models"
	stypes "go.hackfix.me/tracks/web/server/types"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Register creates a new user on the server, and returns the confirmation
// message.
func (c *Client) Register(ctx context.Context, username, password, name string) (string, error) {
	var resp stypes.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/users/register", "",
		credentials{Username: username, Password: password, Name: name},
		&resp, http.StatusCreated)
	if err != nil {
		return "", err
	}

	return resp.Message, nil
}

// Login authenticates with the server, and returns the issued token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp stypes.LoginResponse
	err := c.do(ctx, http.MethodPost, "/users/login", "",
		credentials{Username: username, Password: password},
		&resp, http.StatusOK)
	if err != nil {
		return "", err
	}

	return resp.Token, nil
}

// Me returns the profile of the user the token was issued for.
func (c *Client) Me(ctx context.Context, token string) (*models.Profile, error) {
	var resp stypes.MeResponse
	err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	if resp.Profile == nil {
		return &models.Profile{}, nil
	}

	return resp.Profile, nil
}
