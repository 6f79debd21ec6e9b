// Package signature verifies webhook payload signatures.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const prefix = "sha256="

// Verifier checks signatures over raw payloads.
type Verifier interface {
	Sign(payload []byte) string
	Verify(payload []byte, signature string) bool
}

// HMACVerifier implements hex encoded HMAC-SHA256 signatures.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier builds verifier for shared secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Sign returns hex encoded HMAC-SHA256 of payload.
func (v *HMACVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares signature in constant time. A "sha256=" prefix is accepted.
func (v *HMACVerifier) Verify(payload []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if len(signature) > len(prefix) && strings.EqualFold(signature[:len(prefix)], prefix) {
		signature = signature[len(prefix):]
	}
	got, err := hex.DecodeString(signature)
	if err != nil || len(v.secret) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), got)
}
