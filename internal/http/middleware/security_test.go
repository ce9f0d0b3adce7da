package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func serveWithSecurity(t *testing.T, opt SecurityOptions, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders(opt))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	w := serveWithSecurity(t, SecurityOptions{}, nil)

	h := w.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" ||
		h.Get("X-Frame-Options") != "DENY" ||
		h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers missing: %v", h)
	}
	if h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be set by default")
	}
}

func TestSecurityHeaders_NoHSTSOverPlainHTTP(t *testing.T) {
	w := serveWithSecurity(t, SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour}, nil)
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS set for plain HTTP request")
	}
}

func TestSecurityHeaders_HSTSBehindProxy(t *testing.T) {
	w := serveWithSecurity(t, SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour}, func(req *http.Request) {
		req.Header.Set("X-Forwarded-Proto", "https")
	})

	got := w.Header().Get("Strict-Transport-Security")
	if !strings.Contains(got, "max-age=86400") {
		t.Fatalf("HSTS = %q; want max-age=86400", got)
	}
}

func TestSecurityHeaders_NoStoreAndPolicy(t *testing.T) {
	w := serveWithSecurity(t, SecurityOptions{NoStore: true, EnablePolicy: true}, nil)

	h := w.Header()
	if h.Get("Cache-Control") != "no-store" {
		t.Fatalf("Cache-Control = %q; want no-store", h.Get("Cache-Control"))
	}
	if h.Get("Permissions-Policy") == "" {
		t.Fatalf("expected Permissions-Policy header")
	}
}

func TestSecurityHeaders_ExposesRequestID(t *testing.T) {
	w := serveWithSecurity(t, SecurityOptions{}, nil)

	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, requestIDHeader) {
		t.Fatalf("Access-Control-Expose-Headers = %q; want %s listed", got, requestIDHeader)
	}
}
