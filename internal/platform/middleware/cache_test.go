package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestInMemoryCacheStore_SetGet(t *testing.T) {
	store := NewInMemoryCacheStore()
	store.Set("k", []byte("v"), time.Minute)

	data, ok := store.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != "v" {
		t.Errorf("expected 'v', got %q", data)
	}
}

func TestInMemoryCacheStore_Expiration(t *testing.T) {
	store := NewInMemoryCacheStore()
	store.Set("k", []byte("v"), -time.Second)

	if _, ok := store.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestInMemoryCacheStore_DeleteAndClear(t *testing.T) {
	store := NewInMemoryCacheStore()
	store.Set("a", []byte("1"), time.Minute)
	store.Set("b", []byte("2"), time.Minute)

	store.Delete("a")
	if _, ok := store.Get("a"); ok {
		t.Error("expected 'a' to be deleted")
	}

	store.Clear()
	if _, ok := store.Get("b"); ok {
		t.Error("expected cache to be empty after Clear")
	}
}

func newCachedHandler(store CacheStore, ttl time.Duration, calls *int) (echo.HandlerFunc, *echo.Echo) {
	e := echo.New()
	mw := ResponseCache(store, ttl)
	h := mw(func(c echo.Context) error {
		*calls++
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return h, e
}

func TestResponseCache_MissThenHit(t *testing.T) {
	store := NewInMemoryCacheStore()
	calls := 0
	h, e := newCachedHandler(store, time.Minute, &calls)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/doctor-patient-insights", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first request: expected MISS, got %q", rec.Header().Get("X-Cache"))
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("expected ETag on response")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/analytics/doctor-patient-insights", nil)
	rec2 := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec2.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second request: expected HIT, got %q", rec2.Header().Get("X-Cache"))
	}
	if calls != 1 {
		t.Errorf("handler should run once, ran %d times", calls)
	}
	if rec.Body.String() != rec2.Body.String() {
		t.Error("cached body should match original")
	}
}

func TestResponseCache_NotModified(t *testing.T) {
	store := NewInMemoryCacheStore()
	calls := 0
	h, e := newCachedHandler(store, time.Minute, &calls)

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}

	req = httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("If-None-Match", etag)
	rec2 := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec2.Code != http.StatusNotModified {
		t.Errorf("expected 304, got %d", rec2.Code)
	}
	if rec2.Body.Len() != 0 {
		t.Error("304 response must have no body")
	}
}

func TestResponseCache_SkipsNonGET(t *testing.T) {
	store := NewInMemoryCacheStore()
	calls := 0
	h, e := newCachedHandler(store, time.Minute, &calls)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/data", nil)
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("POST must bypass cache, handler ran %d times", calls)
	}
}

func TestResponseCache_SkipsErrors(t *testing.T) {
	store := NewInMemoryCacheStore()
	e := echo.New()
	mw := ResponseCache(store, time.Minute)
	calls := 0
	h := mw(func(c echo.Context) error {
		calls++
		return c.String(http.StatusInternalServerError, "boom")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Errorf("error responses must not be cached, handler ran %d times", calls)
	}
}

func TestETagMatch(t *testing.T) {
	etag := computeETag([]byte("body"))
	if !etagMatch(etag, etag) {
		t.Error("exact match failed")
	}
	if !etagMatch("*", etag) {
		t.Error("wildcard match failed")
	}
	if !etagMatch(`"x", `+etag, etag) {
		t.Error("list match failed")
	}
	if !etagMatch(stripWeakPrefix(etag), etag) {
		t.Error("weak comparison failed")
	}
	if etagMatch(`"other"`, etag) {
		t.Error("mismatch should fail")
	}
}
