// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dealerdesk-service/internal/domain/auth"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Manager struct {
	client      *redis.Client
	sessionRepo auth.SessionRepository
	logger      *zap.Logger
}

func NewManager(client *redis.Client, sessionRepo auth.SessionRepository, logger *zap.Logger) *Manager {
	return &Manager{
		client:      client,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// CreateSession stores a new session in Redis and updates DB
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	key := m.sessionKey(session.VendorID, session.JTI)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	// Store in Redis
	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	// Update last activity in DB
	if session.SessionID > 0 {
		if err := m.sessionRepo.UpdateActivity(ctx, session.SessionID); err != nil {
			// Log but don't fail - Redis is source of truth
			m.logger.Warn("failed to update DB session activity", zap.Error(err))
		}
	}

	return nil
}

// GetSession retrieves a session from Redis with DB fallback
func (m *Manager) GetSession(ctx context.Context, vendorID int64, jti string) (*SessionData, error) {
	key := m.sessionKey(vendorID, jti)

	// Try Redis first (fast path)
	data, err := m.client.Get(ctx, key).Bytes()
	if err == nil {
		var session SessionData
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}

		session.LastActivityAt = time.Now()
		go m.UpdateSessionActivity(context.Background(), vendorID, jti)

		return &session, nil
	}

	// Redis miss or error - fallback to database
	if err != redis.Nil {
		m.logger.Warn("redis error, falling back to DB", zap.Error(err))
	}

	dbSession, dbErr := m.sessionRepo.FindByJTI(ctx, jti)
	if dbErr != nil {
		return nil, fmt.Errorf("session not found: %w", dbErr)
	}

	// Verify session belongs to the claimed vendor
	if dbSession.VendorID != vendorID {
		return nil, fmt.Errorf("session vendor mismatch")
	}

	sessionData := &SessionData{
		JTI:            jti,
		VendorID:       dbSession.VendorID,
		SessionID:      dbSession.ID,
		Device:         dbSession.Device.String,
		IPAddress:      dbSession.IPAddress.String,
		UserAgent:      dbSession.UserAgent.String,
		LoginAt:        dbSession.LoginAt,
		LastActivityAt: dbSession.LastActivityAt,
		ExpiresAt:      dbSession.ExpiresAt,
		IsActive:       dbSession.Status == "active",
	}

	// Restore to Redis for next time
	go m.restoreToRedis(context.Background(), sessionData)

	return sessionData, nil
}

// UpdateSessionActivity updates the last activity timestamp
func (m *Manager) UpdateSessionActivity(ctx context.Context, vendorID int64, jti string) error {
	key := m.sessionKey(vendorID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil // Session doesn't exist or expired
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return err
	}

	session.LastActivityAt = time.Now()

	updatedData, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl > 0 {
		return m.client.Set(ctx, key, updatedData, ttl).Err()
	}

	return nil
}

// InvalidateSession removes a session from Redis and DB
func (m *Manager) InvalidateSession(ctx context.Context, vendorID int64, jti string) error {
	key := m.sessionKey(vendorID, jti)

	if err := m.client.Del(ctx, key).Err(); err != nil {
		m.logger.Warn("failed to delete session from redis", zap.Error(err))
	}

	dbSession, err := m.sessionRepo.FindByJTI(ctx, jti)
	if err == nil {
		if err := m.sessionRepo.Invalidate(ctx, dbSession.ID); err != nil {
			return fmt.Errorf("failed to invalidate DB session: %w", err)
		}
	}

	return nil
}

// InvalidateAllVendorSessions removes all sessions for a vendor
func (m *Manager) InvalidateAllVendorSessions(ctx context.Context, vendorID int64) error {
	pattern := fmt.Sprintf("session:%d:*", vendorID)

	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			m.logger.Warn("failed to delete session key", zap.String("key", iter.Val()), zap.Error(err))
		}
	}

	if err := m.sessionRepo.InvalidateAllForVendor(ctx, vendorID); err != nil {
		return fmt.Errorf("failed to invalidate DB sessions: %w", err)
	}

	return iter.Err()
}

// IsTokenBlacklisted checks if a token is blacklisted
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	key := m.blacklistKey(jti)
	exists, err := m.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

// BlacklistToken adds a token to the blacklist
func (m *Manager) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	key := m.blacklistKey(jti)
	return m.client.Set(ctx, key, "1", ttl).Err()
}

func (m *Manager) restoreToRedis(ctx context.Context, session *SessionData) {
	if err := m.CreateSession(ctx, session); err != nil {
		m.logger.Warn("failed to restore session to redis", zap.Error(err))
	}
}

func (m *Manager) sessionKey(vendorID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", vendorID, jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}
