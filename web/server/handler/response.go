package handler

import (
	"context"
	"net/http"

	"go.hackfix.me/tracks/web/server/types"
)

// ResponseProcessor processes outgoing responses and can modify the response or context.
type ResponseProcessor func(ctx context.Context, resp types.Response) (context.Context, error)

// NoStore marks the response as not cacheable. It should be used for
// responses that contain credentials.
func NoStore(ctx context.Context, resp types.Response) (context.Context, error) {
	resp.GetHeader().Set("Cache-Control", "no-store")
	return ctx, nil
}

func writeResponse(ctx context.Context, w http.ResponseWriter, resp types.Response) error {
	data := responseData(ctx)

	// Respond with at least some kind of useful response, even if it's invalid.
	if len(data) == 0 {
		if terr := resp.GetError(); terr != nil {
			data = []byte(terr.Message)
		}
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}

	w.WriteHeader(resp.GetStatusCode())
	_, err := w.Write(data)

	return err //nolint:wrapcheck // Wrapped by caller.
}
