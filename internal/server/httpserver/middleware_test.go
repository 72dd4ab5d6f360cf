package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/liftlog/liftlog-go/internal/core/domain"
	"github.com/liftlog/liftlog-go/internal/telemetry/logger"
	"github.com/liftlog/liftlog-go/internal/telemetry/metric"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), mark("first"), mark("second"), mark("third"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got := strings.Join(order, ","); got != "first,second,third" {
		t.Errorf("order = %s, want first,second,third", got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
	}))

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated", "", false},
		{"kept", "abc-123", true},
		{"too long", strings.Repeat("x", maxRequestIDLen+1), false},
		{"control chars", "bad\nid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(HeaderRequestID)
			if got == "" || got != seen {
				t.Fatalf("header %q, context %q", got, seen)
			}
			if tt.keep && got != tt.incoming {
				t.Errorf("request id = %q, want %q", got, tt.incoming)
			}
			if !tt.keep && len(got) != 26 {
				t.Errorf("generated id %q is not a ULID", got)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Recover(), RequestID(logger.Discard()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Errors) != 1 || body.Errors[0].Msg != domain.ErrInternal.Message {
		t.Errorf("errors = %+v", body.Errors)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    string
		wantErr *domain.DomainError
	}{
		{"missing", nil, "", domain.ErrAuthMissing},
		{"valid", []string{"Bearer abc123"}, "abc123", nil},
		{"lowercase scheme", []string{"bearer abc123"}, "abc123", nil},
		{"wrong scheme", []string{"Basic abc123"}, "", domain.ErrAuthMalformed},
		{"no token", []string{"Bearer "}, "", domain.ErrAuthMalformed},
		{"scheme only", []string{"Bearer"}, "", domain.ErrAuthMalformed},
		{"token with space", []string{"Bearer abc 123"}, "", domain.ErrAuthMalformed},
		{"double space", []string{"Bearer  abc123"}, "", domain.ErrAuthMalformed},
		{"two headers", []string{"Bearer a", "Bearer b"}, "", domain.ErrAuthMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, v := range tt.headers {
				h.Add("Authorization", v)
			}

			got, err := extractBearerToken(h)
			if tt.wantErr != nil {
				if !domain.IsDomainError(err, tt.wantErr.Code) {
					t.Errorf("err = %v, want %s", err, tt.wantErr.Code)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("extractBearerToken() = (%q, %v), want %q", got, err, tt.want)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	reg := metric.NewRegistry()
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2, Metrics: reg})(okHandler())

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("10.0.0.1:1000"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	rec := do("10.0.0.1:1001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if !strings.Contains(rec.Body.String(), domain.ErrRateLimited.Message) {
		t.Errorf("body = %s", rec.Body.String())
	}

	// Other clients have their own bucket.
	if rec := do("10.0.0.2:1000"); rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(RateLimitConfig{})(okHandler())
	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
}

func TestRateLimitConcurrency(t *testing.T) {
	h := RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 10})(okHandler())

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
			if rec.Code == http.StatusOK {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	// The bucket refills at 1/s, so a fast test admits the burst plus at most one.
	if n := allowed.Load(); n < 10 || n > 11 {
		t.Errorf("allowed = %d, want 10 or 11", n)
	}
}

func TestSweepIdle(t *testing.T) {
	h := RateLimitConfig{RequestsPerSecond: 5, IdleTTL: time.Millisecond}
	mw := RateLimit(h)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	mw.ServeHTTP(httptest.NewRecorder(), req)
	time.Sleep(5 * time.Millisecond)

	// The next request sweeps the idle bucket and starts a fresh one, so the
	// burst is available again.
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		xff        string
		xri        string
		trustProxy bool
		want       string
	}{
		{"remote addr", "192.0.2.1:1234", "", "", false, "192.0.2.1"},
		{"ipv6", "[::1]:8080", "", "", false, "::1"},
		{"no port", "192.0.2.1", "", "", false, "192.0.2.1"},
		{"xff ignored without proxy", "192.0.2.1:1", "203.0.113.9", "", false, "192.0.2.1"},
		{"xff first hop", "192.0.2.1:1", "203.0.113.9, 10.0.0.1", "", true, "203.0.113.9"},
		{"x-real-ip", "192.0.2.1:1", "", "203.0.113.7", true, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAudit(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), RequestID(log), Audit())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/thing", nil))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v\n%s", err, buf.String())
	}
	if line["level"] != "WARN" || line["status"] != float64(http.StatusTeapot) {
		t.Errorf("log line = %v", line)
	}
	if line["method"] != "POST" || line["path"] != "/api/thing" {
		t.Errorf("log line = %v", line)
	}
	if id, _ := line["request_id"].(string); id == "" {
		t.Error("request_id missing from audit line")
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := recordStatus(httptest.NewRecorder())
	if rec.status != http.StatusOK {
		t.Errorf("default status = %d", rec.status)
	}

	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.status != http.StatusNotFound {
		t.Errorf("status = %d, want first written 404", rec.status)
	}

	if recordStatus(rec) != rec {
		t.Error("recordStatus should reuse an existing recorder")
	}
}

func TestRouteLabel(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/set/123", nil)
	if got := routeLabel(req); got != "unmatched" {
		t.Errorf("routeLabel() = %q, want unmatched", got)
	}
	req.Pattern = "GET /api/set/{set_id}"
	if got := routeLabel(req); got != "/api/set/{set_id}" {
		t.Errorf("routeLabel() = %q", got)
	}
	req.Pattern = "/"
	if got := routeLabel(req); got != "/" {
		t.Errorf("routeLabel() = %q", got)
	}
}
