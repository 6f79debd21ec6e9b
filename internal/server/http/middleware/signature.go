package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/paywebhook/internal/domain/errors"
	"github.com/polkiloo/paywebhook/internal/pkg/signature"
)

const (
	// SignatureHeader carries hex HMAC-SHA256 of the raw request body.
	SignatureHeader = "X-Webhook-Signature"
	// RawBodyContextKey is a gin context key for the verified request body.
	RawBodyContextKey = "rawBody"

	maxWebhookBody = 1 << 20
)

// VerifySignature rejects webhooks whose signature does not match the raw body.
// A missing signature passes only when required is false.
func VerifySignature(verifier signature.Verifier, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "read request body"})
			return
		}
		if len(body) > maxWebhookBody {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Set(RawBodyContextKey, body)

		sig := c.GetHeader(SignatureHeader)
		if sig == "" && !required {
			c.Next()
			return
		}
		if sig == "" || !verifier.Verify(body, sig) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domainErrors.ErrInvalidSignature.Error()})
			return
		}
		c.Next()
	}
}
