package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eunmi228/PostApp/internal/core/apperr"

	"github.com/dgrijalva/jwt-go"
)

const issuer = "postapp"

// JWTProvider issues and verifies HS256 tokens whose subject is the user id.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTProvider(secret []byte, ttl time.Duration) *JWTProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTProvider{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for userID and returns it with its expiry as unix seconds.
func (j *JWTProvider) Issue(userID string) (string, int64, error) {
	now := j.now()
	claims := &jwt.StandardClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(j.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, claims.ExpiresAt, nil
}

// Authenticate verifies the token and returns the user id it was issued for.
func (j *JWTProvider) Authenticate(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", apperr.Missing()
	}

	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return "", apperr.Invalid(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", apperr.Invalid(errors.New("token carries no subject"))
	}
	return claims.Subject, nil
}
