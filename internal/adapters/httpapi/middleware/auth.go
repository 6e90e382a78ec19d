package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eunmi228/PostApp/internal/core/apperr"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

type Authenticator interface {
	Authenticate(token string) (string, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the caller id under UserIDKey.
func JWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		userID, err := auth.Authenticate(token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", apperr.Missing()
	}
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.Invalid(errors.New("authorization header must be 'Bearer <token>'"))
	}
	return strings.TrimSpace(parts[1]), nil
}

func abortUnauthorized(c *gin.Context, err error) {
	reason := apperr.AuthInvalid
	var ae *apperr.AuthError
	if errors.As(err, &ae) {
		reason = ae.Reason
	}
	message := "Not authenticated."
	if reason == apperr.AuthInvalid {
		message = "Invalid token."
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": message,
		"data":    gin.H{"reason": reason},
	})
}
