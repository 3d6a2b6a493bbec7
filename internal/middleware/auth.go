package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barbershop-engine/internal/config"
	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
)

const ContextPrincipal = "principal"

// Claims is the token payload issued by the identity service.
type Claims struct {
	Role       string `json:"role"`
	LocationID string `json:"locationId,omitempty"`
	jwt.RegisteredClaims
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header")
			return
		}

		var claims Claims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid_token")
			return
		}

		role, ok := domain.ParseRole(claims.Role)
		if !ok || claims.Subject == "" {
			abortUnauthorized(c, "invalid_token_payload")
			return
		}

		c.Set(ContextPrincipal, domain.Principal{
			UserID:     claims.Subject,
			Role:       role,
			LocationID: claims.LocationID,
		})

		c.Next()
	}
}

// RequireRoles rejects principals whose role is not listed.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Forbidden.")
		c.Abort()
	}
}

// PrincipalFrom returns the authenticated principal, or the zero value on
// unauthenticated routes.
func PrincipalFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(ContextPrincipal); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}

// IssueToken signs a principal; used by tooling and tests.
func IssueToken(secret string, p domain.Principal, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = p.UserID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             string(p.Role),
		LocationID:       p.LocationID,
		RegisteredClaims: claims,
	})
	return token.SignedString([]byte(secret))
}

func abortUnauthorized(c *gin.Context, code string) {
	httperr.Unauthorized(c, code, "Authentication required.")
	c.Abort()
}
