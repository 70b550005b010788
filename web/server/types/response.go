package types

import "net/http"

// Response defines the interface for HTTP response wrappers.
type Response interface {
	GetStatusCode() int
	SetStatusCode(int)
	GetError() *Error
	SetError(*Error)
	GetHeader() http.Header
	SetHeader(http.Header)
}

// BaseResponse provides a base implementation for HTTP responses. A failed
// response serializes as {"error": {"message": "..."}}.
type BaseResponse struct {
	StatusCode int    `json:"-"`
	Error      *Error `json:"error,omitempty"`
	header     http.Header
}

var _ Response = (*BaseResponse)(nil)

// NewBaseResponse returns a new response with the given status code and
// optional error.
func NewBaseResponse(statusCode int, err *Error) BaseResponse {
	return BaseResponse{StatusCode: statusCode, Error: err, header: http.Header{}}
}

// GetStatusCode returns the HTTP status code for the response. It defaults
// to 200 OK.
func (r *BaseResponse) GetStatusCode() int {
	if r.StatusCode == 0 {
		return http.StatusOK
	}
	return r.StatusCode
}

// SetStatusCode sets the HTTP status code for the response.
func (r *BaseResponse) SetStatusCode(code int) {
	r.StatusCode = code
}

// GetError returns the response error, if any.
func (r *BaseResponse) GetError() *Error {
	return r.Error
}

// SetError sets the response error.
func (r *BaseResponse) SetError(err *Error) {
	r.Error = err
}

// GetHeader returns the response headers.
func (r *BaseResponse) GetHeader() http.Header {
	if r.header == nil {
		r.header = http.Header{}
	}
	return r.header
}

// SetHeader sets the response headers. Existing headers set on the response
// are added to h.
func (r *BaseResponse) SetHeader(h http.Header) {
	for k, vals := range r.header {
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	r.header = h
}
