package medium

import "net/http"

// DefaultUserAgent mimics a desktop browser. The API sits behind bot
// protection that rejects the default Go user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/120.0"

const browserAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"

// applyHeaders sets the browser-like header set sent with every request.
// Accept-Encoding is left to the transport so gzip responses are decoded
// transparently.
func applyHeaders(h http.Header, token, userAgent string) {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	h.Set("Accept", browserAccept+",application/json")
	h.Set("Accept-Charset", "utf-8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("User-Agent", userAgent)
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
}
