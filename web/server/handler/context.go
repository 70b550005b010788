package handler

import "context"

// responseDataKey holds the serialized response body between the serializer
// and writeResponse.
type responseDataKey struct{}

func responseData(ctx context.Context) []byte {
	data, _ := ctx.Value(responseDataKey{}).([]byte)
	return data
}

func withResponseData(ctx context.Context, data []byte) context.Context {
	return context.WithValue(ctx, responseDataKey{}, data)
}
