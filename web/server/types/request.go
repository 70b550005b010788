package types

import (
	"net/http"

	"go.hackfix.me/tracks/db/models"
)

// Request is implemented by all typed API requests. The handler pipeline sets
// the underlying HTTP request before deserialization, and the authenticated
// user if the endpoint requires authentication.
type Request interface {
	SetHTTPRequest(*http.Request)
	GetHTTPRequest() *http.Request
	SetUser(*models.User)
}

// Validator is implemented by requests that check their own data after
// deserialization. A returned *Error sets the response status code.
type Validator interface {
	Validate() error
}

// BaseRequest is embedded by all API requests.
type BaseRequest struct {
	*http.Request
	User *models.User `json:"-"`
}

var (
	_ Request   = (*BaseRequest)(nil)
	_ Validator = (*LoginRequest)(nil)
	_ Validator = (*RegisterRequest)(nil)
	_ Validator = (*MeRequest)(nil)
)

// GetHTTPRequest returns the underlying HTTP request.
func (r *BaseRequest) GetHTTPRequest() *http.Request {
	return r.Request
}

// SetHTTPRequest sets the underlying HTTP request.
func (r *BaseRequest) SetHTTPRequest(req *http.Request) {
	r.Request = req
}

// SetUser sets the authenticated user.
func (r *BaseRequest) SetUser(u *models.User) {
	r.User = u
}
