package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockperf/internal/domain/dto"
	"github.com/guttosm/stockperf/internal/logger"
)

// RecoveryMiddleware turns a panic in a later handler into a 500 response.
//
// The panic value and stack go to the log under the request ID; the client only
// sees a generic error body carrying the same ID. A panic with
// http.ErrAbortHandler is re-raised so net/http can drop the connection, and a
// handler that already wrote its response keeps it.
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			rid := c.GetString(RequestIDKey)
			logger.L().Error().
				Str("request_id", rid).
				Str("method", c.Request.Method).
				Str("route", c.FullPath()).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			var detail error
			if rid != "" {
				detail = fmt.Errorf("request %s", rid)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", detail))
		}()

		c.Next()
	}
}
