package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-engine/internal/config"
	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
)

const testSecret = "test-secret"

func newRouter(roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	chain := []gin.HandlerFunc{AuthMiddleware(&config.Config{JWTSecret: testSecret})}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		p := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "role": p.Role, "locationId": p.LocationID})
	})
	r.GET("/me", chain...)
	return r
}

func get(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, secret string, p domain.Principal, exp time.Time) string {
	t.Helper()
	tok, err := IssueToken(secret, p, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddlewareSetsPrincipal(t *testing.T) {
	p := domain.Principal{UserID: "u-1", Role: domain.RoleManager, LocationID: "loc-1"}
	w := get(newRouter(), token(t, testSecret, p, time.Now().Add(time.Hour)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"u-1","role":"manager","locationId":"loc-1"}`, w.Body.String())
}

func TestAuthMiddlewareRejects(t *testing.T) {
	p := domain.Principal{UserID: "u-1", Role: domain.RoleClient}

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "missing_authorization_header"},
		{"wrong scheme", "Basic abc", "invalid_authorization_header"},
		{"bad signature", token(t, "other-secret", p, time.Now().Add(time.Hour)), "invalid_token"},
		{"expired", token(t, testSecret, p, time.Now().Add(-time.Hour)), "invalid_token"},
		{"unknown role", token(t, testSecret, domain.Principal{UserID: "u-1", Role: "janitor"}, time.Now().Add(time.Hour)), "invalid_token_payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(newRouter(), tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	r := newRouter(domain.RoleOwner, domain.RoleAdmin)

	w := get(r, token(t, testSecret, domain.Principal{UserID: "u-1", Role: domain.RoleBarber}, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, token(t, testSecret, domain.Principal{UserID: "u-2", Role: domain.RoleOwner}, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)
}
