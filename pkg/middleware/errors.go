package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/arunsaradgi/fullstacktodo/pkg/logger"
	"github.com/gin-gonic/gin"
)

// GenericErrorMessage is the only detail clients see for unhandled failures.
const GenericErrorMessage = "Something went wrong!"

// ErrorHandler is the catch-all for errors handlers attached with c.Error
// without writing a response: it logs them in full and answers 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		rid := GetRequestID(c)
		for _, e := range c.Errors {
			logger.Errorf("request %s %s %s failed: %v", rid, c.Request.Method, c.Request.URL.Path, e.Err)
		}
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": GenericErrorMessage})
		}
	}
}

// Recovery converts panics into the generic 500 response and logs the panic
// value with its stack.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(logger.Writer(logger.LevelDebug), func(c *gin.Context, recovered any) {
		logger.Errorf("request %s %s %s panicked: %v\n%s", GetRequestID(c), c.Request.Method, c.Request.URL.Path, recovered, debug.Stack())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": GenericErrorMessage})
	})
}
