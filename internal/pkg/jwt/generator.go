// internal/pkg/jwt/generator.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	priv       *rsa.PrivateKey
	issuer     string
	audience   string
	kid        string // key id for rotation
	Ttl        time.Duration
	RefreshTtl time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl, refreshTTL time.Duration) *Generator {
	return &Generator{
		priv:       priv,
		issuer:     issuer,
		audience:   audience,
		kid:        kid,
		Ttl:        ttl,
		RefreshTtl: refreshTTL,
	}
}

// Generate creates a new JWT token with the given parameters
func (g *Generator) Generate(vendorID int64, device, purpose string, ttl time.Duration) (string, string, error) {
	if g.priv == nil {
		return "", "", fmt.Errorf("jwt generator has nil private key")
	}

	now := time.Now()
	jti := ulid.Make().String()

	claims := &Claims{
		VendorID:       vendorID,
		Device:         device,
		SessionPurpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   fmt.Sprintf("%d", vendorID),
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	return signed, jti, err
}

// GenerateAccessToken generates a standard access token
func (g *Generator) GenerateAccessToken(vendorID int64, device string) (string, string, error) {
	return g.Generate(vendorID, device, "access", g.Ttl)
}

// GenerateRefreshToken generates a refresh token (longer TTL)
func (g *Generator) GenerateRefreshToken(vendorID int64, device string) (string, string, error) {
	return g.Generate(vendorID, device, "refresh", g.RefreshTtl)
}
