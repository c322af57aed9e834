package auth

import (
	"net/http"
	"strings"
)

// ParseCookies reads a Cookie header into a name/value map. Segments without
// '=' or with an empty name are skipped, a single pair of surrounding double
// quotes is stripped from values, and a repeated name keeps its last value.
// Unlike http.Request.Cookies it never drops a whole pair over a value
// containing characters outside the cookie-octet set.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)

	for _, segment := range strings.Split(header, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		name, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		cookies[name] = value
	}

	return cookies
}

// CookieValue returns the named cookie from every Cookie header on r.
func CookieValue(r *http.Request, name string) (string, bool) {
	headers := r.Header.Values("Cookie")
	if len(headers) == 0 {
		return "", false
	}
	v, ok := ParseCookies(strings.Join(headers, "; "))[name]
	return v, ok
}
