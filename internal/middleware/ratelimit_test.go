package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestRateLimit_BurstExhaustion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(rate.Every(time.Hour), 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	doGet := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := doGet(); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := doGet(); code != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", code)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", w.Code)
	}
}

func TestRateLimiter_StopTerminatesGC(t *testing.T) {
	rl := newRateLimiter(rate.Every(time.Second), 1, time.Minute)
	done := make(chan struct{})
	go func() {
		rl.gc()
		close(done)
	}()

	rl.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gc goroutine did not exit after Stop")
	}

	// Stopping again must not panic.
	rl.Stop()
}

func TestRateLimiter_GCExpiresIdleKeys(t *testing.T) {
	rl := newRateLimiter(rate.Every(time.Second), 1, time.Minute)
	rl.get("a|/x")

	rl.get("b|/y")

	rl.mu.Lock()
	rl.m["a|/x"].ts = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	rl.sweep(time.Now())

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.m) != 1 {
		t.Fatalf("keys after sweep = %d, want 1", len(rl.m))
	}
	if _, ok := rl.m["b|/y"]; !ok {
		t.Error("fresh key was swept")
	}
}
