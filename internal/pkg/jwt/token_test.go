package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestConfig() models.JWTConfig {
	return models.JWTConfig{
		Secret: "test-secret-key-for-jwt-signing",
		Issuer: "fleetnav-test",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	// Arrange
	cfg := getTestConfig()
	driverID := uuid.New()

	// Act
	token, err := GenerateToken(driverID, RoleDriver, "vehicle-7", time.Hour, cfg)
	require.NoError(t, err)
	claims, err := ValidateToken(token, cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, driverID.String(), claims.UserID)
	assert.Equal(t, RoleDriver, claims.Role)
	assert.Equal(t, "vehicle-7", claims.VehicleID)
	assert.Equal(t, "fleetnav-test", claims.Issuer)
}

func TestValidateToken_Failures(t *testing.T) {
	cfg := getTestConfig()
	driverID := uuid.New()

	expired, err := GenerateToken(driverID, RoleDriver, "", -time.Minute, cfg)
	require.NoError(t, err)

	otherSecret := cfg
	otherSecret.Secret = "another-secret"
	forged, err := GenerateToken(driverID, RoleDriver, "", time.Hour, otherSecret)
	require.NoError(t, err)

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"
	foreign, err := GenerateToken(driverID, RoleDriver, "", time.Hour, otherIssuer)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: driverID.String()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", forged},
		{"wrong issuer", foreign},
		{"unsigned", unsigned},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, cfg)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
