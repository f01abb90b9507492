// Package signature verifies that a webhook body was sent by the messaging
// platform that owns the shared channel secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// HeaderName is the request header carrying the body signature.
const HeaderName = "x-line-signature"

// Verifier checks HMAC-SHA256 signatures encoded as standard base64.
type Verifier struct {
	secret []byte
}

// New creates a Verifier for the channel secret.
func New(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign returns the base64-encoded HMAC-SHA256 of body.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify fails closed: a missing secret or signature never verifies.
func (v *Verifier) Verify(body []byte, signature string) bool {
	if v == nil || len(v.secret) == 0 || signature == "" {
		return false
	}
	claimed, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hmac.Equal(claimed, mac.Sum(nil))
}
