// internal/domain/auth/dto.go
package auth

import "time"

// RegisterRequest for vendor registration
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FullName  string `json:"full_name" binding:"required"`
	Phone     string `json:"phone"`
	Device    string `json:"device"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginRequest for vendor login
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Device    string `json:"device"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse successful login response
type LoginResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int        `json:"expires_in"`
	ExpiresAt    time.Time  `json:"expires_at"`
	Vendor       VendorInfo `json:"vendor"`
}

// VendorInfo minimal vendor information
type VendorInfo struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// ChangePasswordRequest for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// UpdateProfileRequest for profile updates
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}
