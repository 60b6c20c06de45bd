// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dealerdesk-service/internal/domain/auth"
	xerrors "dealerdesk-service/internal/pkg/errors"
	"dealerdesk-service/internal/pkg/jwt"
	"dealerdesk-service/internal/pkg/session"
	"dealerdesk-service/internal/storage"
	ws "dealerdesk-service/internal/websocket"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	vendorRepo     auth.VendorRepository
	sessionRepo    auth.SessionRepository
	sessionManager *session.Manager
	rateLimiter    *session.RateLimiter
	jwtGenerator   *jwt.Generator
	jwtVerifier    *jwt.Verifier
	store          *storage.Store
	hub            *ws.Hub
	logger         *zap.Logger
}

func NewAuthService(
	vendorRepo auth.VendorRepository,
	sessionRepo auth.SessionRepository,
	sessionManager *session.Manager,
	rateLimiter *session.RateLimiter,
	jwtGenerator *jwt.Generator,
	jwtVerifier *jwt.Verifier,
	store *storage.Store,
	hub *ws.Hub,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		vendorRepo:     vendorRepo,
		sessionRepo:    sessionRepo,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		jwtGenerator:   jwtGenerator,
		jwtVerifier:    jwtVerifier,
		store:          store,
		hub:            hub,
		logger:         logger,
	}
}

// Register creates a vendor account and logs it in
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.vendorRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.Wrap(xerrors.ErrDuplicateEntry, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	vendor := &auth.Vendor{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		PasswordHash: string(hash),
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, err
	}

	s.logger.Info("vendor registered",
		zap.Int64("vendor_id", vendor.ID),
		zap.String("email", vendor.Email),
	)

	return s.loginVendor(ctx, vendor, req.Device, req.IPAddress, req.UserAgent)
}

// Login authenticates a vendor with rate limiting
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, email)
	if err != nil {
		s.logger.Warn("login rate limit check failed", zap.Error(err))
	} else if !allowed {
		return nil, xerrors.Wrap(xerrors.ErrRateLimited, "too many login attempts, try again later")
	}

	vendor, err := s.vendorRepo.FindByEmail(ctx, email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("failed login attempt",
			zap.String("email", email),
			zap.Int64("attempts_remaining", remaining),
		)
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid email or password")
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return s.loginVendor(ctx, vendor, req.Device, req.IPAddress, req.UserAgent)
}

func (s *AuthService) loginVendor(ctx context.Context, vendor *auth.Vendor, device, ip, userAgent string) (*auth.LoginResponse, error) {
	accessToken, jti, err := s.jwtGenerator.GenerateAccessToken(vendor.ID, device)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtGenerator.GenerateRefreshToken(vendor.ID, device)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtGenerator.Ttl)

	dbSession := &auth.Session{
		VendorID:       vendor.ID,
		TokenJTI:       jti,
		Device:         sql.NullString{String: device, Valid: device != ""},
		IPAddress:      sql.NullString{String: ip, Valid: ip != ""},
		UserAgent:      sql.NullString{String: userAgent, Valid: userAgent != ""},
		Status:         "active",
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}
	if err := s.sessionRepo.Create(ctx, dbSession); err != nil {
		return nil, err
	}

	sessionData := &session.SessionData{
		JTI:            jti,
		VendorID:       vendor.ID,
		SessionID:      dbSession.ID,
		Email:          vendor.Email,
		Device:         device,
		IPAddress:      ip,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
		IsActive:       true,
	}
	if err := s.sessionManager.CreateSession(ctx, sessionData); err != nil {
		return nil, err
	}

	s.logger.Info("vendor logged in",
		zap.Int64("vendor_id", vendor.ID),
		zap.String("device", device),
	)

	return &auth.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtGenerator.Ttl.Seconds()),
		ExpiresAt:    expiresAt,
		Vendor:       vendorInfo(vendor),
	}, nil
}

// Refresh exchanges a refresh token for a new access token and session
func (s *AuthService) Refresh(ctx context.Context, refreshToken, device, ip, userAgent string) (*auth.LoginResponse, error) {
	claims, err := s.jwtVerifier.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid refresh token")
	}

	blacklisted, err := s.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "refresh token revoked")
	}

	vendor, err := s.vendorRepo.FindByID(ctx, claims.VendorID)
	if err != nil {
		return nil, err
	}

	return s.loginVendor(ctx, vendor, device, ip, userAgent)
}

// Logout invalidates the session and blacklists the token
func (s *AuthService) Logout(ctx context.Context, vendorID int64, jti string) error {
	if err := s.sessionManager.InvalidateSession(ctx, vendorID, jti); err != nil {
		return err
	}

	if err := s.sessionManager.BlacklistToken(ctx, jti, s.jwtGenerator.Ttl); err != nil {
		s.logger.Warn("failed to blacklist token", zap.Error(err))
	}

	s.hub.ForceLogout(vendorID, jti, "logout")

	s.logger.Info("vendor logged out", zap.Int64("vendor_id", vendorID))
	return nil
}

// GetProfile returns the vendor's profile
func (s *AuthService) GetProfile(ctx context.Context, vendorID int64) (*auth.VendorInfo, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	info := vendorInfo(vendor)
	return &info, nil
}

// UpdateProfile updates mutable vendor fields
func (s *AuthService) UpdateProfile(ctx context.Context, vendorID int64, req *auth.UpdateProfileRequest) (*auth.VendorInfo, error) {
	if err := s.vendorRepo.UpdateProfile(ctx, vendorID, req); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, vendorID)
}

// UploadProfilePhoto stores a new profile photo and saves its URL
func (s *AuthService) UploadProfilePhoto(ctx context.Context, vendorID int64, filename string, data []byte) (string, error) {
	key := storage.ProfilePhotoKey(vendorID, filename)
	if err := s.store.Upload(storage.BucketProfilePhotos, key, data); err != nil {
		return "", fmt.Errorf("failed to store profile photo: %w", err)
	}

	photoURL := s.store.PublicURL(storage.BucketProfilePhotos, key)
	if err := s.vendorRepo.UpdateProfilePhoto(ctx, vendorID, photoURL); err != nil {
		return "", err
	}

	s.logger.Info("profile photo updated", zap.Int64("vendor_id", vendorID))
	return photoURL, nil
}

// ChangePassword verifies the current password before setting a new one
func (s *AuthService) ChangePassword(ctx context.Context, vendorID int64, req *auth.ChangePasswordRequest) error {
	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return xerrors.Wrap(xerrors.ErrUnauthorized, "current password is incorrect")
	}

	if len(req.NewPassword) < 6 {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.vendorRepo.UpdatePassword(ctx, vendorID, string(hash)); err != nil {
		return err
	}

	// Every existing session was authenticated with the old password.
	if err := s.sessionManager.InvalidateAllVendorSessions(ctx, vendorID); err != nil {
		s.logger.Warn("failed to invalidate sessions after password change",
			zap.Int64("vendor_id", vendorID),
			zap.Error(err),
		)
	}

	s.logger.Info("password changed", zap.Int64("vendor_id", vendorID))
	return nil
}

func vendorInfo(v *auth.Vendor) auth.VendorInfo {
	return auth.VendorInfo{
		ID:           v.ID,
		Email:        v.Email,
		FullName:     v.FullName,
		Phone:        v.Phone.String,
		ProfilePhoto: v.ProfilePhoto.String,
	}
}
