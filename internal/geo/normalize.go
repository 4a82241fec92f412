package geo

import "strings"

// Normalize returns the cache key for a user supplied address: trimmed and
// lower-cased. Callers reject blank input before calling it.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IsBlank reports whether the address has no content after trimming.
func IsBlank(address string) bool {
	return strings.TrimSpace(address) == ""
}
