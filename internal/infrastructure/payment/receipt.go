package payment

import (
	"crypto/rand"
	"encoding/hex"
)

const receiptBytes = 10

// NewReceipt returns a 20-hex-character reference token attached to
// each order request. Callers cannot supply their own.
func NewReceipt() (string, error) {
	buf := make([]byte, receiptBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
