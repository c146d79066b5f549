package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTVerifier_EmptySecret(t *testing.T) {
	_, err := NewJWTVerifier("", nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v, err := NewJWTVerifier("test-secret", nil)
	require.NoError(t, err)

	token, err := v.IssueToken("brand-team-7", time.Hour)
	require.NoError(t, err)

	subject, err := v.ExtractSubjectFromToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "brand-team-7", subject)

	subject, ok := v.ValidateToken("Bearer " + token)
	assert.True(t, ok)
	assert.Equal(t, "brand-team-7", subject)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v, err := NewJWTVerifier("test-secret", nil)
	require.NoError(t, err)
	other, err := NewJWTVerifier("other-secret", nil)
	require.NoError(t, err)

	expired, err := v.IssueToken("someone", -time.Minute)
	require.NoError(t, err)
	foreign, err := other.IssueToken("someone", time.Hour)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "someone",
		Issuer:  issuer,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "someone",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"bearer only", "Bearer "},
		{"garbage", "Bearer not-a-token"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
		{"missing expiry", "Bearer " + noExpiry},
		{"alg none", "Bearer " + unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := v.ValidateToken(tt.header)
			assert.False(t, ok)
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v, err := NewJWTVerifier("test-secret", nil)
	require.NoError(t, err)
	token, err := v.IssueToken("brand-team-7", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	whoami := func(c *gin.Context) {
		owner, ok := Owner(c)
		c.JSON(http.StatusOK, gin.H{"owner": owner, "authenticated": ok})
	}
	r.GET("/optional", Optional(v), whoami)
	r.GET("/required", Required(v), whoami)

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"optional anonymous", "/optional", "", http.StatusOK, `"authenticated":false`},
		{"optional authenticated", "/optional", "Bearer " + token, http.StatusOK, `"owner":"brand-team-7"`},
		{"optional bad token stays anonymous", "/optional", "Bearer nope", http.StatusOK, `"authenticated":false`},
		{"required anonymous", "/required", "", http.StatusUnauthorized, "Authentication required"},
		{"required authenticated", "/required", "Bearer " + token, http.StatusOK, `"authenticated":true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestMockJWTVerifier(t *testing.T) {
	m := NewMockJWTVerifier("test-user")
	_, ok := m.ValidateToken("")
	assert.False(t, ok)

	subject, ok := m.ValidateToken("Bearer anything")
	assert.True(t, ok)
	assert.Equal(t, "test-user", subject)
}
