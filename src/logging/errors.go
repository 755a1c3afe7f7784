package logging

import (
	"errors"
	"net/http"
	"strings"
)

type statusCoder interface {
	StatusCode() int
}

// IsRateLimit reports whether err came from an upstream throttling response.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var sc statusCoder
	if errors.As(err, &sc) && sc.StatusCode() == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// Excerpt shortens raw upstream text before it goes into a log line.
func Excerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	return s[:cut] + "...(truncated)"
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
