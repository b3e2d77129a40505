package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	identityKey = "identity"
)

// Identity is the authenticated caller attached to the request context by
// Authenticate. Role is derived, not stored: the configured admin id is the
// only admin.
type Identity struct {
	UserID int64
	Role   string
}

// Authenticate validates the bearer token and attaches the resolved Identity.
// Failure classes map to distinct statuses: missing or expired token 401,
// invalid signature or structure 403, anything else 500.
func Authenticate(secret string, adminUserID int64) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired, please log in again"})
			case errors.Is(err, jwt.ErrTokenMalformed),
				errors.Is(err, jwt.ErrTokenSignatureInvalid),
				errors.Is(err, jwt.ErrTokenUnverifiable),
				errors.Is(err, jwt.ErrTokenInvalidClaims):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}
		sub, ok := claims["userId"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		userID := int64(sub)
		role := RoleUser
		if userID == adminUserID {
			role = RoleAdmin
		}
		c.Set(identityKey, Identity{UserID: userID, Role: role})
		c.Next()
	}
}

// AdminOnly must be registered after Authenticate; it rejects any request
// whose identity is absent (401) or not admin (403).
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if ident.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func GetIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}
