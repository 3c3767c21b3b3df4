package responsecache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FingerprintLength is how many characters of an encoded payload go into a
// binary cache key. Payloads sharing this prefix share a key.
const FingerprintLength = 100

// TextKey derives a key from free text: lower-cased, trimmed, and prefixed
// with namespace when one is given.
func TextKey(namespace, input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if namespace == "" {
		return normalized
	}
	return namespace + "-" + normalized
}

// PayloadKey derives a key from the first FingerprintLength characters of a
// base64 payload. This is a cheap fingerprint, not a hash.
func PayloadKey(namespace, payload string) string {
	prefix := payload
	if len(prefix) > FingerprintLength {
		prefix = prefix[:FingerprintLength]
	}
	return namespace + "-" + prefix
}

// StructuredKey derives a key from the JSON encoding of v using the text rule.
func StructuredKey(namespace string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode cache key payload: %w", err)
	}
	return TextKey(namespace, string(b)), nil
}
