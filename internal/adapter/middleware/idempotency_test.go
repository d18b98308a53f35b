package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(IdempotencyMiddleware(rdb, ttl))
	e.POST("/loans", handler)
	e.GET("/loans", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func createdHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]string{"id": "ln_00000001"})
}

func idempHeaders(reqID string) map[string]string {
	return map[string]string{
		"Ax-Request-Id": reqID,
		"Ax-Request-At": strconv.FormatInt(time.Now().Unix(), 10),
	}
}

const reqID = "0f0f0f0f-0f0f-4f0f-8f0f-0f0f0f0f0f0f"

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, time.Minute, createdHandler)

	body := map[string]string{"borrower": "Meridian"}
	first := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), idempHeaders(reqID))
	if first.Code != http.StatusCreated {
		t.Fatalf("first request: %d", first.Code)
	}

	second := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, body), idempHeaders(reqID))
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replay body differs:\n first %s\nsecond %s", first.Body.String(), second.Body.String())
	}
}

func TestIdempotency_ConflictOnDifferentBody(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, time.Minute, createdHandler)

	_ = doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]string{"a": "1"}), idempHeaders(reqID))
	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]string{"a": "2"}), idempHeaders(reqID))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused id with different body, got %d", rec.Code)
	}
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	calls := 0
	e := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusCreated, map[string]int{"n": calls})
	})

	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]string{}), nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: %d", i, rec.Code)
		}
	}
	if calls != 2 {
		t.Errorf("handler calls=%d want=2 (no replay without Ax-Request-Id)", calls)
	}
}

func TestIdempotency_GetBypasses(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "1"})
	})

	rec := doReq(t, e, http.MethodGet, "/loans", nil, idempHeaders(reqID))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET bypass: %d", rec.Code)
	}
}

func TestIdempotency_InvalidRequestID(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, time.Minute, createdHandler)

	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]string{}), idempHeaders("not-a-uuid"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIdempotency_SkewedTimestamp(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, time.Minute, createdHandler)

	hdr := map[string]string{
		"Ax-Request-Id": reqID,
		"Ax-Request-At": strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10),
	}
	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]string{}), hdr)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for skewed Ax-Request-At, got %d", rec.Code)
	}
}
