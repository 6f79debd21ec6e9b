package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/paywebhook/internal/server/http/middleware"
)

// RawBody returns the request body captured by the signature middleware,
// reading it directly when the middleware did not run.
func RawBody(c *gin.Context) ([]byte, error) {
	if val, ok := c.Get(middleware.RawBodyContextKey); ok {
		if body, ok := val.([]byte); ok {
			return body, nil
		}
	}
	return io.ReadAll(c.Request.Body)
}
