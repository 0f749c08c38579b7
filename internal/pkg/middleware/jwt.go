package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/fleetnav/internal/pkg/jwt"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/internal/utils"
)

// Context keys set by JWTAuthMiddleware
const (
	ContextDriverID  = "user_id"
	ContextRole      = "user_role"
	ContextVehicleID = "vehicle_id"
)

// JWTAuthMiddleware authenticates drivers by bearer token
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c)
			if !ok {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			claims, err := jwtpkg.ValidateToken(tokenString, config)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			if _, err := uuid.Parse(claims.UserID); err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token: user_id is not a valid UUID")
			}
			if claims.Role != jwtpkg.RoleDriver {
				return utils.ForbiddenResponse(c, "Only drivers can operate trips")
			}

			c.Set(ContextDriverID, claims.UserID)
			c.Set(ContextRole, claims.Role)
			c.Set(ContextVehicleID, claims.VehicleID)

			return next(c)
		}
	}
}

// bearerToken reads the token from the Authorization header, or from the
// token query parameter for websocket upgrades where browsers cannot set
// headers
func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		token := c.QueryParam("token")
		return token, token != ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// DriverID returns the authenticated driver id
func DriverID(c echo.Context) (string, bool) {
	id, ok := c.Get(ContextDriverID).(string)
	return id, ok && id != ""
}
