package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// RoleDriver is the only role allowed to operate a trip session
const RoleDriver = "driver"

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the driver identity issued by the auth service
type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	VehicleID string `json:"vehicle_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for a driver. Token issuance belongs to the
// auth service; this is used by tooling and tests.
func GenerateToken(userID uuid.UUID, role, vehicleID string, ttl time.Duration, cfg models.JWTConfig) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID.String(),
		Role:      role,
		VehicleID: vehicleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature, expiry and issuer of a token
func ValidateToken(tokenString string, cfg models.JWTConfig) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	return claims, nil
}
