package logger

import "strings"

// SanitizeQueryString checks if a query string contains sensitive parameters
// and returns true if the entire query string should be redacted
func SanitizeQueryString(rawQuery string) bool {
	sensitiveParams := []string{
		"password",
		"token",
		"secret",
		"auth",
	}

	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}

// SanitizePath redacts secret path segments, currently only the reset-token
// lookup route (/auth/reset/{token}).
func SanitizePath(path string) string {
	const resetPrefix = "/auth/reset/"
	if strings.HasPrefix(path, resetPrefix) && len(path) > len(resetPrefix) {
		return resetPrefix + "[REDACTED]"
	}
	return path
}
