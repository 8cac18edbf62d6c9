// ABOUTME: Base64 payload normalization for inbound inline data
// ABOUTME: Accepts both the standard and the URL-safe alphabets
package decode

import (
	"encoding/base64"
	"fmt"
	"strings"
)

var urlSafeReplacer = strings.NewReplacer("-", "+", "_", "/")

// Payload decodes the text form of an inline data field. The upstream agent
// sends URL-safe base64, sometimes without padding.
func Payload(text string) ([]byte, error) {
	normalized := urlSafeReplacer.Replace(strings.TrimSpace(text))
	if rem := len(normalized) % 4; rem != 0 {
		normalized += strings.Repeat("=", 4-rem)
	}

	data, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return data, nil
}
