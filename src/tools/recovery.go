package tools

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
)

// Recover is gin middleware that turns a handler panic into a 500
// instead of taking the serving process down.
func Recover(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Logger.Error("Recovered from panic",
				zap.Any("panic", r),
				log.Any("stack", string(debug.Stack())))

			c.AbortWithStatus(500)
		}
	}()
	c.Next()
}
