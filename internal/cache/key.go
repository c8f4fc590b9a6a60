package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateKey builds a deterministic fingerprint for one cacheable LLM
// exchange. Identical (prompt, model, temperature, agent) tuples always
// hash to the same key; changing any single field changes the key.
//
// The fields are joined with "|" before hashing so that, for example,
// ("ab", "c") and ("a", "bc") cannot collide. Temperature is rendered
// with two decimals so 0.7 and 0.70 are the same exchange.
func GenerateKey(prompt, model string, temperature float64, agent string) string {
	parts := []string{
		prompt,
		model,
		fmt.Sprintf("%.2f", temperature),
		agent,
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
