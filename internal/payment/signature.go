package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the hex digest the gateway attaches to a completed
// payment: HMAC-SHA256 over "orderID|paymentID" keyed with the key secret.
// The concatenation order and the pipe delimiter must match the gateway
// scheme exactly or no claimed signature will ever verify.
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(orderID))
	_, _ = mac.Write([]byte("|"))
	_, _ = mac.Write([]byte(paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(secret, orderID, paymentID, claimed string) bool {
	expected := Signature(secret, orderID, paymentID)
	return claimed != "" && hmac.Equal([]byte(expected), []byte(claimed))
}
