package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockperf/internal/domain/dto"
	"github.com/guttosm/stockperf/internal/logger"
)

// ErrorHandler renders errors attached with c.Error() once the handler chain
// returns, unless a response was already written.
//
// The last error wins. Errors that are already a dto.ErrorResponse keep their message.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().Str("request_id", toString(rid)).Err(err).Msg("request failed")

	if resp, ok := err.(dto.ErrorResponse); ok {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
}

// AbortWithError stops the chain and writes a standardized error body with status.
// Server errors are logged with the request ID.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		rid, _ := c.Get(RequestIDKey)
		logger.L().Error().Str("request_id", toString(rid)).Int("status", status).Err(err).Msg(message)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
