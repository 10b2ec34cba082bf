package middlewares_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	valid map[string]string
}

func (f fakeVerifier) Verify(token string) (*auth.Claims, bool) {
	username, ok := f.valid[token]
	if !ok {
		return nil, false
	}
	return &auth.Claims{Username: username}, true
}

func TestRequireQueryToken(t *testing.T) {
	m := middlewares.NewAuthMiddleware(fakeVerifier{valid: map[string]string{"good": "alice123"}})

	r := gin.New()
	r.GET("/profile/:username", m.RequireQueryToken("token"), func(c *gin.Context) {
		username, _ := middlewares.UsernameFromContext(c)
		c.JSON(http.StatusOK, gin.H{"caller": username})
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"valid", "/profile/bob12345?token=good", http.StatusOK},
		{"missing", "/profile/bob12345", http.StatusBadRequest},
		{"invalid", "/profile/bob12345?token=bad", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}

			if tc.wantStatus == http.StatusOK {
				if body["caller"] != "alice123" {
					t.Fatalf("expected caller alice123, got %v", body["caller"])
				}
				return
			}

			if body["success"] != false || body["status"] != float64(400) || body["error"] != "Missing or invalid token" {
				t.Fatalf("unexpected error body: %v", body)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.CORSMiddleware([]string{"localhost", "https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:5173", true},
		{"https://app.example.com", true},
		{"https://evil.example.com", false},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", tc.origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		got := w.Header().Get("Access-Control-Allow-Origin")
		if tc.allowed && got != tc.origin {
			t.Errorf("origin %s: expected allow header, got %q", tc.origin, got)
		}
		if !tc.allowed && got != "" {
			t.Errorf("origin %s: expected no allow header, got %q", tc.origin, got)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.GET("/x", func(c *gin.Context) {
		id, _ := c.Get(middlewares.CtxRequestID)
		c.String(http.StatusOK, id.(string))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Header().Get("X-Request-Id") == "" || w.Body.String() != w.Header().Get("X-Request-Id") {
		t.Fatalf("expected generated request id, header=%q body=%q", w.Header().Get("X-Request-Id"), w.Body.String())
	}

	const inbound = "0b6c1f0e-8d4a-4c52-9a57-3f7e2f1d9c11"

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", inbound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != inbound {
		t.Fatalf("expected propagated request id, got %q", w.Body.String())
	}

	// not a uuid: replaced
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "abc\ninjected")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if _, err := uuid.Parse(w.Body.String()); err != nil {
		t.Fatalf("expected a fresh uuid, got %q", w.Body.String())
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("short")))
	if w.Code != http.StatusNoContent {
		t.Fatalf("small body: got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("much too long for the cap")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("declared oversize body: got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] != "Request body too large" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Header().Get("Cache-Control") != "no-store" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing headers: %v", w.Header())
	}
}
