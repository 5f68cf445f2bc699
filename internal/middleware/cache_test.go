package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QmazProject/Asset-Management-System/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Custom", "a")
	hdr.Add("X-Custom", "b")
	body := []byte(`{"assets":[],"count":0}`)

	encoded, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(encoded)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, body, gotBody)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, []string{"a", "b"}, gotHdr["X-Custom"])
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {}, {1, 2, 3}, []byte("short")} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
	// A header length pointing past the buffer must not panic.
	bad, err := encodePayload(200, http.Header{}, nil)
	require.NoError(t, err)
	bad[7] = 0xFF
	_, _, _, ok := decodePayload(bad)
	assert.False(t, ok)
}

func TestCaptureWriterHonorsLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	n, err := cw.Write([]byte("0123456789ABCDEF"))
	require.NoError(t, err)
	// The client still receives the whole body.
	assert.Equal(t, 16, n)
	assert.Equal(t, "0123456789ABCDEF", rec.Body.String())
	// The capture buffer stops at the limit.
	assert.Equal(t, "0123456789", cw.buf.String())
}

func TestCacheEligibleSkipsOversizedAndNon200(t *testing.T) {
	// A body within the limit is storable; one past it is served live
	// only, never cached in truncated form.
	assert.True(t, cacheEligible(http.StatusOK, 10, 10))
	assert.False(t, cacheEligible(http.StatusOK, 11, 10))
	// No limit configured stores everything successful.
	assert.True(t, cacheEligible(http.StatusOK, 1<<30, 0))
	assert.False(t, cacheEligible(http.StatusInternalServerError, 5, 10))
	assert.False(t, cacheEligible(http.StatusNotFound, 5, 10))
}

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/assets")
	return c
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "amcache", KeyStrategy: "route_query"}

	all := cacheKeyFrom(cfg, newTestContext(t, "/v1/assets"))
	filtered := cacheKeyFrom(cfg, newTestContext(t, "/v1/assets?group=Ungrouped"))
	assert.NotEqual(t, all, filtered)

	again := cacheKeyFrom(cfg, newTestContext(t, "/v1/assets?group=Ungrouped"))
	assert.Equal(t, filtered, again)
}

func TestCacheKeyRouteStrategyIgnoresQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "amcache", KeyStrategy: "route"}

	a := cacheKeyFrom(cfg, newTestContext(t, "/v1/assets"))
	b := cacheKeyFrom(cfg, newTestContext(t, "/v1/assets?q=drill"))
	assert.Equal(t, a, b)
}

func TestDisabledCacheIsPassThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "live")
	})

	c := newTestContext(t, "/v1/assets")
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-Cache"))
}
