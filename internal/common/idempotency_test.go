package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newIdem(t *testing.T) (Idem, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Idem{R: client, TTL: time.Minute}, mr
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdemMiddlewareRejectsReplay(t *testing.T) {
	idem, _ := newIdem(t)

	var calls int
	handler := idem.Middleware(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/verify-payment", nil)
	req.Header.Set("Idempotency-Key", "key-1")

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, 1, calls)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	require.Equal(t, http.StatusConflict, second.Code)
	require.Contains(t, second.Body.String(), "IDEMPOTENT_REPLAY")
	require.Equal(t, 1, calls)
}

func TestIdemMiddlewareAllowsAfterExpiry(t *testing.T) {
	idem, mr := newIdem(t)

	var calls int
	handler := idem.Middleware(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/verify-payment", nil)
	req.Header.Set("Idempotency-Key", "key-1")

	handler.ServeHTTP(httptest.NewRecorder(), req)
	mr.FastForward(2 * time.Minute)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, 2, calls)
}

func TestIdemMiddlewarePassThrough(t *testing.T) {
	idem, _ := newIdem(t)

	var calls int
	handler := idem.Middleware(countingHandler(&calls))

	// no header means no idempotency semantics
	req := httptest.NewRequest(http.MethodPost, "/verify-payment", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, 2, calls)

	// nil client disables the middleware entirely
	disabled := Idem{TTL: time.Minute}.Middleware(countingHandler(&calls))
	keyed := httptest.NewRequest(http.MethodPost, "/verify-payment", nil)
	keyed.Header.Set("Idempotency-Key", "key-1")
	disabled.ServeHTTP(httptest.NewRecorder(), keyed)
	require.Equal(t, 3, calls)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5123"
	require.Equal(t, "10.0.0.1", ClientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.9")
	require.Equal(t, "203.0.113.9", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	require.Equal(t, "198.51.100.7", ClientIP(r))
}
