package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"go.hackfix.me/tracks/web/server/types"
)

// Handle creates an HTTP handler function that processes requests through a
// configurable pipeline. It supports generic request/response types and handles
// authentication, request/response processing, and error handling
// automatically.
//
// It relies on reflection to create the request and response values, and on
// passing values between components using the request context.
//
//nolint:gocognit // The complexity is a bit high, but refactoring this would hurt legibility.
func Handle[Req types.Request, Resp types.Response](
	handlerFn func(context.Context, Req) (Resp, error),
	p *Pipeline,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			ctx  = r.Context()
			req  = createInstance[Req]()
			resp = createInstance[Resp]()
			err  error
		)

		req.SetHTTPRequest(r)

		handleErr := errorHandler(r, p)

		// Response handling is deferred, since it should happen in both success and
		// error scenarios.
		defer func() {
			// Allow response handlers to modify headers.
			resp.SetHeader(w.Header())

			// 5. Response serialization (optional)
			// On failure the error message is written as plain text.
			if p.serializer != nil {
				ctx, err = p.serializer.Serialize(ctx, resp)
				handleErr(resp, err)
			}

			// 6. Response processing
			for _, process := range p.responseProcessors {
				ctx, err = process(ctx, resp)
				if handleErr(resp, err) {
					break
				}
			}

			// 7. Write the response
			if err = writeResponse(ctx, w, resp); err != nil {
				p.logger.Error("failed writing response", "error", err.Error())
			}
		}()

		// 1. Authentication (optional)
		if p.auth != nil {
			if ctx, err = p.auth(ctx, req); handleErr(resp, err) {
				return
			}
		}

		// 2. Request deserialization (optional)
		if p.serializer != nil {
			if ctx, err = p.serializer.Deserialize(ctx, req); handleErr(resp, err) {
				return
			}
		}

		// 3. Request validation (optional)
		if reqV, ok := any(req).(types.Validator); ok {
			if err = reqV.Validate(); handleErr(resp, err) {
				return
			}
		}

		// 4. Run the handler
		handlerResp, handlerErr := handlerFn(ctx, req)
		if !isNilResponse(handlerResp) {
			resp = handlerResp
		}
		handleErr(resp, handlerErr)
	}
}

// createInstance returns a new instance of type T.
//
//nolint:ireturn,nolintlint // Required for generic functionality.
func createInstance[T any]() T {
	var zero T
	tType := reflect.TypeOf(zero)

	if tType == nil {
		panic("cannot create instance of nil interface type")
	}

	switch tType.Kind() {
	case reflect.Ptr:
		// Create new instance of the underlying type
		return reflect.New(tType.Elem()).Interface().(T) //nolint:errcheck,forcetypeassert // It's fine.
	case reflect.Interface:
		panic("cannot create instance of interface type - need concrete type")
	default:
		// For value types, return zero value directly
		return zero
	}
}

func isNilResponse(resp types.Response) bool {
	if resp == nil {
		return true
	}
	v := reflect.ValueOf(resp)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// errorHandler returns a function that converts err into a *types.Error on
// resp, and reports whether there was an error. Server errors are logged with
// their original message before sanitization.
func errorHandler(r *http.Request, p *Pipeline) func(types.Response, error) bool {
	return func(resp types.Response, err error) bool {
		if err == nil {
			return false
		}

		// Ensure that response handlers have a valid HTTP error and status code.
		var terr *types.Error
		if !errors.As(err, &terr) || terr == nil {
			terr = types.NewError(http.StatusInternalServerError, err.Error())
		} else if terr.StatusCode == 0 {
			cp := *terr
			cp.StatusCode = http.StatusInternalServerError
			terr = &cp
		}

		if terr.StatusCode >= http.StatusInternalServerError {
			p.logger.Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", terr.StatusCode),
				slog.String("error", err.Error()),
			)
		}

		terr = sanitizeError(terr, p.errorLevel)

		resp.SetStatusCode(terr.StatusCode)
		resp.SetError(terr)
		return true
	}
}
