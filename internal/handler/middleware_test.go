package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSecurityHeaders(t *testing.T) {
	var reached bool
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusAccepted)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	if !reached || rec.Code != http.StatusAccepted {
		t.Fatalf("wrapped handler not reached (code %d)", rec.Code)
	}
	for name, fragment := range map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Permissions-Policy":        "camera=()",
		"Content-Security-Policy":   "frame-ancestors 'none'",
		"Strict-Transport-Security": "max-age=",
	} {
		if got := rec.Header().Get(name); !strings.Contains(got, fragment) {
			t.Errorf("%s = %q, want it to contain %q", name, got, fragment)
		}
	}
}

// hit sends one POST through h as the given remote address and forwarded chain.
func hit(h http.Handler, remote, forwarded string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.RemoteAddr = remote
	if forwarded != "" {
		req.Header.Set("X-Forwarded-For", forwarded)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_Budget(t *testing.T) {
	rl := NewRateLimiter(3)
	defer rl.Stop()
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 1; i <= 3; i++ {
		if rec := hit(h, "192.168.1.1:5000", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d refused with %d", i, rec.Code)
		}
	}
	rec := hit(h, "192.168.1.1:5001", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("4th request: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 without Retry-After")
	}
	// 別のクライアントは影響を受けない
	if rec := hit(h, "192.168.1.2:5000", ""); rec.Code != http.StatusOK {
		t.Errorf("other client limited: %d", rec.Code)
	}
}

func TestRateLimiter_ForwardedForIgnoredWithoutProxy(t *testing.T) {
	rl := NewRateLimiter(1)
	defer rl.Stop()
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	if rec := hit(h, "198.51.100.7:4000", "203.0.113.1"); rec.Code != http.StatusOK {
		t.Fatalf("first request refused: %d", rec.Code)
	}
	// a forged header must not buy a fresh budget
	if rec := hit(h, "198.51.100.7:4001", "203.0.113.2"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("forged X-Forwarded-For bypassed the limit: %d", rec.Code)
	}
}

func TestRateLimiter_ForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1).WithTrustedProxies(1)
	defer rl.Stop()
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	if rec := hit(h, "10.0.0.99:1234", "203.0.113.50"); rec.Code != http.StatusOK {
		t.Fatalf("first request refused: %d", rec.Code)
	}
	// the proxy appends the peer on the right; anything to its left is client-controlled
	if rec := hit(h, "10.0.0.99:1234", "9.9.9.9, 203.0.113.50"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("prepended address bypassed the limit: %d", rec.Code)
	}
	if rec := hit(h, "10.0.0.99:1234", "203.0.113.51"); rec.Code != http.StatusOK {
		t.Errorf("distinct forwarded client limited: %d", rec.Code)
	}
}

func TestRateLimiter_ErrorBody(t *testing.T) {
	rl := NewRateLimiter(1)
	defer rl.Stop()
	h := rl.Limit("newsletter", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	var rec *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/newsletter", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"rate_limited"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestRateLimiter_ScopesAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1)
	defer rl.Stop()
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) }
	contact := rl.Limit("contact", ok)
	chat := rl.Limit("chat", ok)

	send := func(h http.Handler) int {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = "10.0.0.7:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send(contact); code != http.StatusCreated {
		t.Fatalf("first contact: %d", code)
	}
	if code := send(chat); code != http.StatusCreated {
		t.Errorf("chat should have its own budget, got %d", code)
	}
	if code := send(contact); code != http.StatusTooManyRequests {
		t.Errorf("second contact should be limited, got %d", code)
	}
}

func TestRateLimiter_WindowSlidesAndSweeps(t *testing.T) {
	rl := NewRateLimiter(2)
	defer rl.Stop()
	start := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)

	if _, ok := rl.take("k", start); !ok {
		t.Fatal("first hit refused")
	}
	if _, ok := rl.take("k", start.Add(30*time.Second)); !ok {
		t.Fatal("second hit refused")
	}
	wait, ok := rl.take("k", start.Add(40*time.Second))
	if ok {
		t.Fatal("third hit inside the window allowed")
	}
	if wait != 20*time.Second {
		t.Errorf("expected 20s wait, got %v", wait)
	}
	if _, ok := rl.take("k", start.Add(61*time.Second)); !ok {
		t.Error("hit after the first expired should be allowed")
	}

	rl.sweep(start.Add(5 * time.Minute))
	rl.mu.Lock()
	n := len(rl.hits)
	rl.mu.Unlock()
	if n != 0 {
		t.Errorf("expected idle clients swept, %d left", n)
	}
}

func TestRecover_Returns500(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/events", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal_error") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
