package types

import (
	"net/http"

	"go.hackfix.me/tracks/db/models"
)

// LoginRequest is the request data to log in with a username and password.
type LoginRequest struct {
	BaseRequest `json:"-"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// Validate checks that the request is valid and ready for processing.
func (r *LoginRequest) Validate() error {
	return validateCredentials(r.Username, r.Password)
}

// LoginResponse is the response to a successful login.
type LoginResponse struct {
	BaseResponse
	Token string `json:"token,omitempty"`
}

// NewLoginResponse creates a new LoginResponse with HTTP 200 status.
func NewLoginResponse(token string) *LoginResponse {
	return &LoginResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Token:        token,
	}
}

// RegisterRequest is the request data to create a new user.
type RegisterRequest struct {
	BaseRequest `json:"-"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Name        string `json:"name"`
}

// Validate checks that the request is valid and ready for processing.
func (r *RegisterRequest) Validate() error {
	return validateCredentials(r.Username, r.Password)
}

// RegisterResponse is the response to a successful registration.
type RegisterResponse struct {
	BaseResponse
	Message string `json:"message,omitempty"`
}

// NewRegisterResponse creates a new RegisterResponse with HTTP 201 status.
func NewRegisterResponse(message string) *RegisterResponse {
	return &RegisterResponse{
		BaseResponse: NewBaseResponse(http.StatusCreated, nil),
		Message:      message,
	}
}

// MeRequest is the request for the profile of the authenticated user.
type MeRequest struct {
	BaseRequest `json:"-"`
}

// Validate checks that the request is valid and ready for processing.
func (r *MeRequest) Validate() error {
	if r.User == nil {
		return NewError(http.StatusUnauthorized, "user object not found in the request context")
	}
	return nil
}

// MeResponse is the profile of the authenticated user.
type MeResponse struct {
	BaseResponse
	*models.Profile
}

// NewMeResponse creates a new MeResponse with HTTP 200 status.
func NewMeResponse(user *models.User) *MeResponse {
	profile := user.Profile()
	return &MeResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Profile:      &profile,
	}
}

func validateCredentials(username, password string) error {
	if username == "" {
		return NewError(http.StatusBadRequest, "username must not be empty")
	}
	if password == "" {
		return NewError(http.StatusBadRequest, "password must not be empty")
	}
	return nil
}
