// internal/repository/postgres/vendor_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dealerdesk-service/internal/domain/auth"
	xerrors "dealerdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VendorRepository struct {
	db *pgxpool.Pool
}

func NewVendorRepository(db *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{db: db}
}

// Create creates a new vendor account
func (r *VendorRepository) Create(ctx context.Context, v *auth.Vendor) error {
	query := `
		INSERT INTO vendors (email, full_name, phone, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		v.Email, v.FullName, v.Phone, v.PasswordHash,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}

	return nil
}

// FindByID retrieves a vendor by ID
func (r *VendorRepository) FindByID(ctx context.Context, id int64) (*auth.Vendor, error) {
	query := `
		SELECT id, email, full_name, phone, profile_photo, password_hash,
		       created_at, updated_at
		FROM vendors
		WHERE id = $1
	`

	var v auth.Vendor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Email, &v.FullName, &v.Phone, &v.ProfilePhoto, &v.PasswordHash,
		&v.CreatedAt, &v.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}

	return &v, nil
}

// FindByEmail retrieves a vendor by email (case insensitive)
func (r *VendorRepository) FindByEmail(ctx context.Context, email string) (*auth.Vendor, error) {
	query := `
		SELECT id, email, full_name, phone, profile_photo, password_hash,
		       created_at, updated_at
		FROM vendors
		WHERE LOWER(email) = LOWER($1)
	`

	var v auth.Vendor
	err := r.db.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(
		&v.ID, &v.Email, &v.FullName, &v.Phone, &v.ProfilePhoto, &v.PasswordHash,
		&v.CreatedAt, &v.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}

	return &v, nil
}

// ExistsByEmail checks whether a vendor with this email exists
func (r *VendorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM vendors WHERE LOWER(email) = LOWER($1))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check vendor existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile updates mutable profile fields
func (r *VendorRepository) UpdateProfile(ctx context.Context, id int64, req *auth.UpdateProfileRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	if req.FullName != nil {
		setClauses = append(setClauses, fmt.Sprintf("full_name = $%d", argPos))
		args = append(args, *req.FullName)
		argPos++
	}
	if req.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", argPos))
		args = append(args, *req.Phone)
		argPos++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE vendors SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)
	args = append(args, id)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update vendor profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateProfilePhoto stores the public URL of the vendor's profile photo
func (r *VendorRepository) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `UPDATE vendors SET profile_photo = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.Exec(ctx, query, photoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update profile photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *VendorRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE vendors SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
