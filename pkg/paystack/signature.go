package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// SignatureHeader is the header Paystack uses to sign webhook deliveries.
const SignatureHeader = "x-paystack-signature"

// SignPayload computes the hex HMAC-SHA512 signature of a webhook body.
// Exposed so tests can produce valid deliveries.
func SignPayload(secret string, body []byte) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature validates a webhook delivery against the shared secret.
// The signature is an HMAC-SHA512 over the exact raw request body, compared
// in constant time. Fails closed: a missing signature is its own error so
// the caller can answer 400 rather than 401.
func VerifySignature(secret string, body []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}

	expected := SignPayload(secret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
