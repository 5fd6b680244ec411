package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ParseLimitOffset reads the limit and offset query params. Missing or malformed values fall
// back to defLimit and 0; limit is clamped to [1, maxLimit] and offset to >= 0.
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	q := r.URL.Query()
	intParam := func(key string, def int) int {
		n, err := strconv.Atoi(q.Get(key))
		if err != nil {
			return def
		}
		return n
	}
	limit := min(max(intParam("limit", defLimit), 1), max(maxLimit, 1))
	offset := max(intParam("offset", 0), 0)
	return limit, offset
}

// safeRedirectPath returns candidate when it is a local absolute path and "/" otherwise.
// Protocol-relative paths such as //evil.example are rejected, and so is any backslash,
// since browsers read /\evil.example as //evil.example.
func safeRedirectPath(candidate string) string {
	if candidate == "" || strings.ContainsRune(candidate, '\\') {
		return "/"
	}
	u, err := url.Parse(candidate)
	switch {
	case err != nil, u.IsAbs(), u.Host != "":
		return "/"
	case !strings.HasPrefix(u.Path, "/"), strings.HasPrefix(u.Path, "//"):
		return "/"
	}
	return candidate
}

// safeRedirectFromURL keeps the path and query of raw, typically a Referer header.
func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return ""
	case u.IsAbs():
		return safeRedirectPath(u.RequestURI())
	case u.Host != "":
		return ""
	}
	return safeRedirectPath(raw)
}

// isSecureRequest reports whether the browser reached us over HTTPS, directly or via a proxy.
// X-Forwarded-Proto may list one value per hop.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
