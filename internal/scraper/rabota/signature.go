package rabota

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the request signature: params sorted by key, joined as
// key=value pairs with '&', the shared secret appended, SHA-256 in lower hex.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha256.Sum256([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
