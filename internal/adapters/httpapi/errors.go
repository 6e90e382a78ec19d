package httpapi

import (
	"errors"
	"net/http"

	"github.com/eunmi228/PostApp/internal/core/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps the use-case failure taxonomy onto HTTP statuses.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		authErr       *apperr.AuthError
		validationErr *apperr.ValidationError
		serverErr     *apperr.ServerError
	)

	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"message": authErr.Error(), "data": gin.H{"reason": authErr.Reason}})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation failed, entered data is incorrect.",
			"data":    []gin.H{{"field": validationErr.Field, "msg": validationErr.Reason}},
		})
	case errors.As(err, &serverErr):
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": serverErr.Message, "data": serverErr.Data})
	case errors.Is(err, apperr.ErrNotFound):
		message := "Could not find user."
		if c.Param("postId") != "" {
			message = "Could not find post."
		}
		c.JSON(http.StatusNotFound, gin.H{"message": message})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized!"})
	default:
		logger.Error("Unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred."})
	}
}
