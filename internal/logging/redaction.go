package logging

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const redacted = "***REDACTED***"

var sensitiveKey = regexp.MustCompile(`(?i)(authorization|token|secret|password|api[-_]?key)`)

// RedactHeaders returns a copy of headers with credential-like values masked.
func RedactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if sensitiveKey.MatchString(k) && strings.TrimSpace(v) != "" {
			v = redacted
		}
		out[k] = v
	}
	return out
}

// Headers is a zap field holding redacted headers.
func Headers(key string, headers map[string]string) zap.Field {
	return zap.Any(key, RedactHeaders(headers))
}
