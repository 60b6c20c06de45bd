// internal/repository/postgres/session_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"dealerdesk-service/internal/domain/auth"
	xerrors "dealerdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create records a new login session
func (r *SessionRepository) Create(ctx context.Context, s *auth.Session) error {
	query := `
		INSERT INTO sessions (
			vendor_id, token_jti, device, ip_address, user_agent,
			status, login_at, last_activity_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx, query,
		s.VendorID, s.TokenJTI, s.Device, s.IPAddress, s.UserAgent,
		s.Status, s.LoginAt, s.LastActivityAt, s.ExpiresAt,
	).Scan(&s.ID)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// FindByJTI retrieves a session by its token JTI
func (r *SessionRepository) FindByJTI(ctx context.Context, jti string) (*auth.Session, error) {
	query := `
		SELECT id, vendor_id, token_jti, device, ip_address, user_agent,
		       status, login_at, last_activity_at, expires_at, logout_at
		FROM sessions
		WHERE token_jti = $1
	`

	var s auth.Session
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&s.ID, &s.VendorID, &s.TokenJTI, &s.Device, &s.IPAddress, &s.UserAgent,
		&s.Status, &s.LoginAt, &s.LastActivityAt, &s.ExpiresAt, &s.LogoutAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &s, nil
}

// UpdateActivity bumps the last activity timestamp
func (r *SessionRepository) UpdateActivity(ctx context.Context, id int64) error {
	query := `UPDATE sessions SET last_activity_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update session activity: %w", err)
	}

	return nil
}

// Invalidate marks a session revoked
func (r *SessionRepository) Invalidate(ctx context.Context, id int64) error {
	query := `
		UPDATE sessions
		SET status = 'revoked', logout_at = NOW()
		WHERE id = $1 AND status = 'active'
	`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	return nil
}

// InvalidateAllForVendor marks every active session for a vendor revoked
func (r *SessionRepository) InvalidateAllForVendor(ctx context.Context, vendorID int64) error {
	query := `
		UPDATE sessions
		SET status = 'revoked', logout_at = NOW()
		WHERE vendor_id = $1 AND status = 'active'
	`

	if _, err := r.db.Exec(ctx, query, vendorID); err != nil {
		return fmt.Errorf("failed to invalidate vendor sessions: %w", err)
	}

	return nil
}
