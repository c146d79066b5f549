package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// ErrEmptySecret is returned when a verifier is created without a signing secret
var ErrEmptySecret = errors.New("jwt secret is empty")

const issuer = "deinfluencer"

// TokenValidator resolves an Authorization header into the caller's subject
type TokenValidator interface {
	ValidateToken(authHeader string) (string, bool)
}

// JWTVerifier handles HS256 bearer token verification
type JWTVerifier struct {
	secret []byte
	log    logrus.FieldLogger
}

// NewJWTVerifier creates a new JWT verifier
func NewJWTVerifier(secret string, log logrus.FieldLogger) (*JWTVerifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JWTVerifier{secret: []byte(secret), log: log}, nil
}

// IssueToken signs a token for subject valid for ttl
func (v *JWTVerifier) IssueToken(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// ExtractSubjectFromToken verifies the token and returns its subject
func (v *JWTVerifier) ExtractSubjectFromToken(tokenString string) (string, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return "", fmt.Errorf("empty token")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("no sub claim in token")
	}
	return claims.Subject, nil
}

// ValidateToken is a middleware-friendly function that validates a JWT token
func (v *JWTVerifier) ValidateToken(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}

	subject, err := v.ExtractSubjectFromToken(authHeader)
	if err != nil {
		v.log.WithError(err).Debug("jwt validation failed")
		return "", false
	}
	return subject, true
}

// MockJWTVerifier accepts any non-empty header. For development and tests.
type MockJWTVerifier struct {
	Subject string
}

func NewMockJWTVerifier(subject string) *MockJWTVerifier {
	return &MockJWTVerifier{Subject: subject}
}

func (m *MockJWTVerifier) ValidateToken(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}
	return m.Subject, true
}
