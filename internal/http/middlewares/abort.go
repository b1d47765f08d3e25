package middlewares

import "github.com/gin-gonic/gin"

// abortWith stops the chain with the same error envelope the handlers write.
func abortWith(c *gin.Context, status int, code, message string) {
	body := gin.H{"code": code, "message": message}
	if id := c.GetString(CtxRequestID); id != "" {
		body["requestId"] = id
	}

	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
