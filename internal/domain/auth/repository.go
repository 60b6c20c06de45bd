// internal/domain/auth/repository.go
package auth

import "context"

type VendorRepository interface {
	Create(ctx context.Context, vendor *Vendor) error
	FindByID(ctx context.Context, id int64) (*Vendor, error)
	FindByEmail(ctx context.Context, email string) (*Vendor, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, req *UpdateProfileRequest) error
	UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByJTI(ctx context.Context, jti string) (*Session, error)
	UpdateActivity(ctx context.Context, id int64) error
	Invalidate(ctx context.Context, id int64) error
	InvalidateAllForVendor(ctx context.Context, vendorID int64) error
}
