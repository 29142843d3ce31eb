// Package transport provides HTTP round-trip decorators for outbound
// assistant requests.
package transport

import (
	"log"
	"net/http"
	"time"
)

// LoggingTransport stamps a User-Agent on outbound requests and logs their
// outcome and duration. It never retries: the chat operation is not
// guaranteed idempotent on the backend.
type LoggingTransport struct {
	base      http.RoundTripper
	userAgent string
}

func WithLogging(base http.RoundTripper, userAgent string) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &LoggingTransport{base: base, userAgent: userAgent}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone before mutating headers, per the RoundTripper contract
	req = req.Clone(req.Context())
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		log.Printf("%s %s failed after %s: %v", req.Method, req.URL.Path, elapsed, err)
		return resp, err
	}
	log.Printf("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, elapsed)
	return resp, nil
}
