package auth

import (
	"encoding/base64"
	"strings"
)

// ParseBasic extracts credentials from an "Authorization: Basic ..." value.
func ParseBasic(header string) (identifier, secret string, ok bool) {
	scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", "", false
	}
	return DecodeCredentials(strings.TrimSpace(value))
}

// DecodeCredentials reverses base64("identifier:secret"). The secret may
// itself contain colons; the identifier may not.
func DecodeCredentials(encoded string) (identifier, secret string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	identifier, secret, ok = strings.Cut(string(raw), ":")
	if !ok || identifier == "" {
		return "", "", false
	}
	return identifier, secret, true
}

// BearerToken extracts the token from an "Authorization: Bearer ..." value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
