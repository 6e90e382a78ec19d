package httpapi

import (
	"net/http"
	"strconv"

	"github.com/eunmi228/PostApp/internal/core/apperr"
	imagePort "github.com/eunmi228/PostApp/internal/ports/image"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DiagnosticsController exposes the image delete failure journal.
type DiagnosticsController struct {
	failures ImageFailureReader
	logger   *zap.Logger
}

func NewDiagnosticsController(failures ImageFailureReader, logger *zap.Logger) *DiagnosticsController {
	return &DiagnosticsController{failures: failures, logger: logger}
}

func (ctl *DiagnosticsController) ImageFailures(c *gin.Context) {
	limit, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil || limit <= 0 {
		limit = imagePort.DefaultRecentLimit
	}

	items := []imagePort.DeleteFailure{}
	if ctl.failures != nil {
		items, err = ctl.failures.Recent(c.Request.Context(), limit)
		if err != nil {
			respondError(c, ctl.logger, apperr.Server("could not read image failures", err))
			return
		}
		if items == nil {
			items = []imagePort.DeleteFailure{}
		}
	}
	c.JSON(http.StatusOK, gin.H{"failures": items, "count": len(items)})
}
