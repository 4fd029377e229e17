package auth

import "time"

type RegisterRequest struct {
	FirstName       string `json:"first_name" binding:"required,max=20"`
	LastName        string `json:"last_name" binding:"max=20"`
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenRequest carries the expired access token together with the
// refresh token that was issued alongside it.
type TokenRequest struct {
	Token        string `json:"token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse is the shape of every token-issuing (or refusing)
// operation. ErrorMessage is set exactly when IsAuthenticated is false.
type LoginResponse struct {
	IsAuthenticated bool      `json:"is_authenticated"`
	Token           string    `json:"token,omitempty"`
	RefreshToken    string    `json:"refresh_token,omitempty"`
	ExpiresOn       time.Time `json:"expires_on,omitzero"`
	ErrorMessage    string    `json:"error_message,omitempty"`
}
