package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // always "access"
	jwt.RegisteredClaims
}

// SignUpRequest is the body of POST /auth/signup.
// @Description Request body for creating an account
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignInRequest is the body of POST /auth/signin.
// @Description Request body for signing in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents the response containing the access token.
// @Description Response body for authentication tokens
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// UsageResponse reports how many generations the user has left.
// @Description Generation quota usage
type UsageResponse struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// UserProfileResponse defines the structure for a user's profile information.
type UserProfileResponse struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	Name  string        `json:"name,omitempty"`
	Usage UsageResponse `json:"usage"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}
