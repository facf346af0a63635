package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestActionRateLimiterWindow(t *testing.T) {
	rl := NewActionRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("mod") || !rl.Allow("mod") {
		t.Fatal("first two actions should be allowed")
	}
	if rl.Allow("mod") {
		t.Fatal("third action inside the window should be rejected")
	}
	if got := rl.RetryAfterSeconds("mod"); got != 61 {
		t.Errorf("RetryAfterSeconds = %d, want 61", got)
	}

	// başka aktörü etkilememeli
	if !rl.Allow("other") {
		t.Error("other actor should not be limited")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow("mod") {
		t.Error("action after the window should be allowed")
	}
}

func TestActionRateLimiterRefund(t *testing.T) {
	rl := NewActionRateLimiter(1, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("mod") {
		t.Fatal("first action should be allowed")
	}
	rl.Refund("mod")
	if !rl.Allow("mod") {
		t.Fatal("refunded action should free the slot")
	}
	if rl.Allow("mod") {
		t.Fatal("limit should apply again after the slot is used")
	}

	// bilinmeyen key veya dolmuş pencere: etkisiz
	rl.Refund("nobody")
	now = now.Add(2 * time.Minute)
	rl.Refund("mod")
	if !rl.Allow("mod") {
		t.Error("new window should allow an action")
	}
}

func TestActionRateLimiterDisabled(t *testing.T) {
	rl := NewActionRateLimiter(0, time.Minute)
	defer rl.Stop()

	for i := 0; i < 100; i++ {
		if !rl.Allow("mod") {
			t.Fatalf("disabled limiter rejected action %d", i)
		}
	}
}

func TestIPResolverClientIP(t *testing.T) {
	resolver, err := NewIPResolver([]string{"10.0.0.0/8", "127.0.0.1"})
	if err != nil {
		t.Fatalf("NewIPResolver: %v", err)
	}

	tests := map[string]struct {
		resolver   *IPResolver
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		"trusted_proxy_forwarded_for": {
			resolver:   resolver,
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"},
			remoteAddr: "10.0.0.1:5000",
			want:       "203.0.113.7",
		},
		"client_prepended_forged_hop": {
			resolver:   resolver,
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.7"},
			remoteAddr: "10.0.0.1:5000",
			want:       "203.0.113.7",
		},
		"trusted_proxy_real_ip": {
			resolver:   resolver,
			headers:    map[string]string{"X-Real-IP": "198.51.100.2"},
			remoteAddr: "127.0.0.1:5000",
			want:       "198.51.100.2",
		},
		"untrusted_peer_spoofs_headers": {
			resolver:   resolver,
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4", "X-Real-IP": "5.6.7.8"},
			remoteAddr: "192.0.2.10:4242",
			want:       "192.0.2.10",
		},
		"no_trusted_proxies": {
			resolver:   &IPResolver{},
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4"},
			remoteAddr: "10.0.0.1:5000",
			want:       "10.0.0.1",
		},
		"nil_resolver": {
			headers:    map[string]string{"X-Real-IP": "5.6.7.8"},
			remoteAddr: "192.0.2.10:4242",
			want:       "192.0.2.10",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			if got := tc.resolver.ClientIP(r); got != tc.want {
				t.Errorf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewIPResolverRejectsGarbage(t *testing.T) {
	if _, err := NewIPResolver([]string{"not-an-ip"}); err == nil {
		t.Error("expected error for invalid proxy entry")
	}
}
