package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// PromptHash returns a short stable fingerprint of a prompt so failures can be correlated in logs
// without logging the prompt itself. Empty input hashes to "".
func PromptHash(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
