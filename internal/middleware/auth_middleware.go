// internal/middleware/auth_middleware.go
package middleware

import (
	"strings"

	"promo-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthMiddleware guards the two caller populations: dashboard admins with
// a JWT, and the storefront with a shared API key. Identity management
// itself lives in the upstream auth service; this only verifies.
type AuthMiddleware struct {
	jwtSecret  []byte
	apiKeyHash []byte
}

func NewAuthMiddleware(jwtSecret, apiKeyHash string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:  []byte(jwtSecret),
		apiKeyHash: []byte(apiKeyHash),
	}
}

// RequireAdmin validates a Bearer JWT with an admin role claim.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.jwtSecret, nil
		})
		if err != nil || !parsed.Valid {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" && role != "super_admin" {
			response.Unauthorized(c, "admin role required")
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("subject", sub)
		}
		c.Set("role", role)
		c.Next()
	}
}

// RequireAPIKey validates the storefront API key against its configured
// bcrypt hash.
func (m *AuthMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			response.Unauthorized(c, "missing API key")
			return
		}

		if err := bcrypt.CompareHashAndPassword(m.apiKeyHash, []byte(key)); err != nil {
			response.Unauthorized(c, "invalid API key")
			return
		}

		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
