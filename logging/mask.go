package logging

import (
	"net/url"
	"regexp"

	"go.uber.org/zap"
)

const maxFieldLen = 1000

// MaskToken keeps the first and last four characters of a secret.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "***" + token[len(token)-4:]
}

var reProxyAuth = regexp.MustCompile(`:[^:@/]+@`)

// MaskURL hides the token query parameter and any proxy userinfo.
func MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return reProxyAuth.ReplaceAllString(raw, ":***@")
	}
	if u.User != nil {
		u.User = url.UserPassword(MaskToken(u.User.Username()), "***")
	}
	q := u.Query()
	if tok := q.Get("token"); tok != "" {
		q.Set("token", MaskToken(tok))
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Truncate shortens long payloads for log output.
func Truncate(s string) string {
	if len(s) <= maxFieldLen {
		return s
	}
	return s[:maxFieldLen] + "... (truncated)"
}

// Payload is a zap field holding a truncated payload.
func Payload(key, s string) zap.Field {
	return zap.String(key, Truncate(s))
}
