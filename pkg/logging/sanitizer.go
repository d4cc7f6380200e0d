package logging

import (
	"regexp"
)

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// Matches api_key/apikey/token/key query parameters and their values.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|token|key)=[^&\s]+`)

	// Matches user:pass@host credentials embedded in URLs.
	credentialedURLPattern = regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@[^/\s]+`)
)

// SanitizeURL redacts credentials and key-bearing query parameters from a
// request URL before it is logged.
func SanitizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	sanitized := apiKeyPattern.ReplaceAllString(rawURL, "${1}="+RedactedText)
	sanitized = credentialedURLPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// SanitizeError sanitizes error messages that might echo a request URL.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeURL(err.Error())
}
