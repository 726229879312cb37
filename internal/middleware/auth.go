package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/salonbook/salon-scheduler/internal/config"
	"github.com/salonbook/salon-scheduler/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextSalonID  = "salonID"
	ContextUserRole = "userRole"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

// AuthMiddleware validates an HS256 bearer token issued elsewhere. The
// "sub" claim carries the actor uuid; "salonId" is optional.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			return
		}
		if authenticate(c, cfg) {
			c.Next()
		}
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad
// token, so public routes can tell moderators apart.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if authenticate(c, cfg) {
			c.Next()
		}
	}
}

// authenticate stores the token's claims on c. On failure it aborts with
// 401 and returns false.
func authenticate(c *gin.Context, cfg *config.Config) bool {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		httperr.Unauthorized(c, "invalid_authorization_header", "Authorization header must be a bearer token.")
		return false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		httperr.Unauthorized(c, "invalid_token_claims", "Token claims are invalid.")
		return false
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		httperr.Unauthorized(c, "invalid_token_payload", "Token subject is invalid.")
		return false
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleCustomer
	}

	c.Set(ContextUserID, userID)
	c.Set(ContextUserRole, role)

	if raw, ok := claims["salonId"].(string); ok {
		if salonID, err := uuid.Parse(raw); err == nil {
			c.Set(ContextSalonID, salonID)
		}
	}
	return true
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Insufficient role.")
	}
}

// UserID returns the authenticated actor.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SalonID returns the salon the token is bound to, if any.
func SalonID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextSalonID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func HasRole(c *gin.Context, roles ...string) bool {
	role := c.GetString(ContextUserRole)
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
