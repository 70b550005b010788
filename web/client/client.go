package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	aerrors "go.hackfix.me/tracks/app/errors"
	stypes "go.hackfix.me/tracks/web/server/types"
)

// Client is a friendly interface over the tracks HTTP API.
type Client struct {
	*http.Client
	baseURL *url.URL
	logger  *slog.Logger
}

// New returns a new client for the server at address. The address can be a
// full URL, or a [host]:port pair, in which case plain HTTP is used.
func New(address string, logger *slog.Logger) (*Client, error) {
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	baseURL, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("failed parsing server address: %w", err)
	}
	if baseURL.Host == "" {
		return nil, fmt.Errorf("invalid server address '%s'", address)
	}

	return &Client{
		Client: &http.Client{
			Timeout: time.Minute,
		},
		baseURL: baseURL,
		logger:  logger.With("component", "web-client"),
	}, nil
}

// APIError is returned when the server responds with an error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// do sends a request with an optional JSON body and bearer token, and decodes
// the JSON response into respData. It returns an *APIError wrapped in a
// StructuredError if the response status is not expStatus.
func (c *Client) do(
	ctx context.Context, method, path, token string, reqData any,
	respData stypes.Response, expStatus int,
) (rerr error) {
	u := c.baseURL.JoinPath("/api/v1", path)
	errFields := []any{"url", u.String(), "method", method}

	var body io.Reader
	if reqData != nil {
		reqDataJSON, err := json.Marshal(reqData)
		if err != nil {
			return aerrors.NewWithCause("failed marshalling request data", err, errFields...)
		}
		body = bytes.NewReader(reqDataJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return aerrors.NewWithCause("failed creating request", err, errFields...)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("sending request", errFields...)

	resp, err := c.Do(req)
	if err != nil {
		return aerrors.NewWithCause("failed sending request", err, errFields...)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("failed closing response body: %w", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return aerrors.NewWithCause("failed reading response body", err, errFields...)
	}

	errFields = append(errFields, "status_code", resp.StatusCode)
	if err = json.Unmarshal(respBody, respData); err != nil {
		if resp.StatusCode != expStatus {
			return aerrors.With(&APIError{
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(respBody)),
			}, errFields...)
		}
		return aerrors.NewWithCause("failed unmarshalling response body", err, errFields...)
	}

	if resp.StatusCode != expStatus {
		msg := http.StatusText(resp.StatusCode)
		if terr := respData.GetError(); terr != nil && terr.Message != "" {
			msg = terr.Message
		}
		return aerrors.With(&APIError{StatusCode: resp.StatusCode, Message: msg}, errFields...)
	}

	return nil
}
