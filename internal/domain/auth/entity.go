// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"
)

// Vendor represents a dealership vendor account
type Vendor struct {
	ID           int64          `json:"id" db:"id"`
	Email        string         `json:"email" db:"email"`
	FullName     string         `json:"full_name" db:"full_name"`
	Phone        sql.NullString `json:"phone" db:"phone"`
	ProfilePhoto sql.NullString `json:"profile_photo" db:"profile_photo"`
	PasswordHash string         `json:"-" db:"password_hash"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Session represents a vendor login session
type Session struct {
	ID             int64          `json:"id" db:"id"`
	VendorID       int64          `json:"vendor_id" db:"vendor_id"`
	TokenJTI       string         `json:"-" db:"token_jti"`
	Device         sql.NullString `json:"device" db:"device"`
	IPAddress      sql.NullString `json:"ip_address" db:"ip_address"`
	UserAgent      sql.NullString `json:"user_agent" db:"user_agent"`
	Status         string         `json:"status" db:"status"` // active, expired, revoked
	LoginAt        time.Time      `json:"login_at" db:"login_at"`
	LastActivityAt time.Time      `json:"last_activity_at" db:"last_activity_at"`
	ExpiresAt      time.Time      `json:"expires_at" db:"expires_at"`
	LogoutAt       sql.NullTime   `json:"logout_at" db:"logout_at"`
}
