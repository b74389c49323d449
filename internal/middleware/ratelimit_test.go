package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestRateLimiter(t *testing.T, config RateLimiterConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(config)
	t.Cleanup(rl.Stop)
	return rl
}

func doRequest(handler http.Handler, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), userID))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// バースト内のリクエストが通過することを検証
func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    3,
		SearchRate:      rate.Limit(1),
		SearchBurst:     3,
		CleanupInterval: time.Hour,
	})
	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		if w := doRequest(handler, "user_1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}
}

// バースト超過で429とRetry-Afterが返ることを検証
func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(0.01),
		GeneralBurst:    1,
		SearchRate:      rate.Limit(1),
		SearchBurst:     1,
		CleanupInterval: time.Hour,
	})
	handler := rl.GeneralMiddleware()(okHandler())

	doRequest(handler, "user_1")
	w := doRequest(handler, "user_1")

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header not set")
	}
}

// レート制限がユーザーごとに独立していることを検証
func TestRateLimiter_ScopedPerUser(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(0.01),
		GeneralBurst:    1,
		SearchRate:      rate.Limit(1),
		SearchBurst:     1,
		CleanupInterval: time.Hour,
	})
	handler := rl.GeneralMiddleware()(okHandler())

	doRequest(handler, "user_1")
	if w := doRequest(handler, "user_1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("user_1 second request: status = %d, want 429", w.Code)
	}
	if w := doRequest(handler, "user_2"); w.Code != http.StatusOK {
		t.Errorf("user_2 first request: status = %d, want 200", w.Code)
	}
}

// 検索リミッターが全般リミッターと独立に動作することを検証
func TestRateLimiter_SearchIndependentOfGeneral(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(10),
		GeneralBurst:    10,
		SearchRate:      rate.Limit(0.01),
		SearchBurst:     1,
		CleanupInterval: time.Hour,
	})
	general := rl.GeneralMiddleware()(okHandler())
	search := rl.SearchMiddleware()(okHandler())

	doRequest(search, "user_1")
	if w := doRequest(search, "user_1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("search second request: status = %d, want 429", w.Code)
	}
	// 検索が制限されていても全般は通過する
	if w := doRequest(general, "user_1"); w.Code != http.StatusOK {
		t.Errorf("general request: status = %d, want 200", w.Code)
	}
}

// ユーザーIDが無いリクエストが401になることを検証
func TestRateLimiter_MissingUserID(t *testing.T) {
	rl := newTestRateLimiter(t, DefaultRateLimiterConfig())
	handler := rl.GeneralMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// 期限切れエントリがクリーンアップで削除されることを検証
func TestRateLimiter_CleanupRemovesStaleEntries(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     rate.Limit(1),
		GeneralBurst:    1,
		SearchRate:      rate.Limit(1),
		SearchBurst:     1,
		CleanupInterval: 5 * time.Millisecond,
	})
	handler := rl.GeneralMiddleware()(okHandler())

	doRequest(handler, "user_1")
	if rl.GeneralLimiterCount() != 1 {
		t.Fatalf("limiter count = %d, want 1", rl.GeneralLimiterCount())
	}

	time.Sleep(15 * time.Millisecond)
	rl.cleanup()

	if rl.GeneralLimiterCount() != 0 {
		t.Errorf("limiter count = %d, want 0 after cleanup", rl.GeneralLimiterCount())
	}
}
