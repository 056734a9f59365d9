package httpx

import (
	"net/url"
	"strings"
)

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/secrets", the
// post-login landing page, when absent or invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/secrets"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/secrets"
	}
	return candidate
}
