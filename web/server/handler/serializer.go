package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.hackfix.me/tracks/web/server/types"
)

const maxBodyReadSize = 1024 * 1024 // 1MiB

// Serializer is the interface for deserializing the raw request body data into
// the typed request value, and for serializing the typed response value into
// the raw response data.
type Serializer interface {
	Deserialize(ctx context.Context, req types.Request) (context.Context, error)
	Serialize(ctx context.Context, resp types.Response) (context.Context, error)
}

// JSONSerializer implements JSON request and response serialization.
type JSONSerializer struct{}

var _ Serializer = (*JSONSerializer)(nil)

// JSON returns a new JSON serializer.
func JSON() JSONSerializer {
	return JSONSerializer{}
}

// Deserialize decodes JSON from the request body into the request object.
// Requests without a body are left unchanged. It enforces a maximum body size
// limit to prevent resource exhaustion.
func (JSONSerializer) Deserialize(ctx context.Context, req types.Request) (context.Context, error) {
	httpReq := req.GetHTTPRequest()

	if httpReq.Body == nil || httpReq.Body == http.NoBody {
		if httpReq.Method == http.MethodGet {
			return ctx, nil
		}
		return ctx, types.NewError(http.StatusBadRequest, "empty request body")
	}

	body := http.MaxBytesReader(nil, httpReq.Body, maxBodyReadSize)
	dec := json.NewDecoder(body)
	if err := dec.Decode(req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ctx, types.NewError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		}
		return ctx, types.NewError(http.StatusBadRequest,
			fmt.Sprintf("failed decoding request body as JSON: %s", err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ctx, types.NewError(http.StatusBadRequest,
			"request body must contain a single JSON object")
	}

	return ctx, nil
}

// Serialize encodes the response as JSON and stores it in the context for writing.
// It sets the appropriate Content-Type header.
func (JSONSerializer) Serialize(ctx context.Context, resp types.Response) (context.Context, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return ctx, fmt.Errorf("failed marshalling response into JSON: %w", err)
	}

	ctx = withResponseData(ctx, data)

	resp.GetHeader().Set("Content-Type", "application/json")

	return ctx, nil
}
