package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// defaultTimeout bounds how long one request may hold a database connection.
const defaultTimeout = 10 * time.Second

// requestContext derives a deadline-bounded context from the inbound request.
// Every service call goes through this so storage work is cancelled when the
// client goes away or the deadline passes.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), defaultTimeout)
}
