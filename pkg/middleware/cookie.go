package middleware

import (
	"net/http"
	"strings"
)

// sessionCookie returns the named cookie value. net/http drops values that
// hold double quotes, so a raw JSON session is read straight from the
// Cookie header when r.Cookie fails.
func sessionCookie(r *http.Request, name string) (string, bool) {
	if c, err := r.Cookie(name); err == nil {
		return c.Value, true
	}

	for _, line := range r.Header.Values("Cookie") {
		for _, part := range strings.Split(line, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok && k == name {
				return v, true
			}
		}
	}
	return "", false
}
