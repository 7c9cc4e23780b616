package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func doRequest(t *testing.T, h http.Handler, remoteAddr, forwardedFor string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	h := rl.Handler(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(t, h, "1.2.3.4:5000", ""))
	}
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	h := rl.Handler(okHandler())

	for i := 0; i < 3; i++ {
		doRequest(t, h, "1.2.3.4:5000", "")
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, h, "1.2.3.4:5000", ""))
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Handler(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(t, h, "1.2.3.4:5000", ""))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, h, "1.2.3.4:5000", ""))
	assert.Equal(t, http.StatusOK, doRequest(t, h, "5.6.7.8:5000", ""))
}

func TestRateLimiterUsesForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Handler(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.1:80", "203.0.113.7, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, h, "10.0.0.1:80", "203.0.113.7, 10.0.0.1"))
	// Same proxy, different origin client.
	assert.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.1:80", "203.0.113.8"))
}
