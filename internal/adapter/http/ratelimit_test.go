package http

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter_PerClient(t *testing.T) {
	l := NewIPRateLimiter(rate.Every(1e12), 1)

	assert.True(t, l.GetLimiter("10.0.0.1").Allow())
	assert.False(t, l.GetLimiter("10.0.0.1").Allow())
	assert.True(t, l.GetLimiter("10.0.0.2").Allow(), "clients have separate buckets")
	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
}

func TestIPRateLimiter_BoundedMap(t *testing.T) {
	l := NewIPRateLimiter(rate.Inf, 1)
	for i := range maxTrackedClients + 5 {
		l.GetLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	assert.LessOrEqual(t, len(l.ips), maxTrackedClients)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/impact", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", clientIP(r))

	r.RemoteAddr = "not-a-host-port"
	assert.Equal(t, "not-a-host-port", clientIP(r))
}
