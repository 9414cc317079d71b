package webhooks

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// VerifyPaystackSignature checks the x-paystack-signature header, an
// HMAC-SHA512 of the raw body keyed with the account secret.
func VerifyPaystackSignature(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyFlutterwaveHash checks the verif-hash header, which echoes the hash
// configured on the dashboard verbatim.
func VerifyFlutterwaveHash(configured, received string) bool {
	if configured == "" || received == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(received)) == 1
}
