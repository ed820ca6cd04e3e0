package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// burst login attempts return 429 once the limiter trips
func TestLoginRateLimit(t *testing.T) {
	app, _ := newTestApp(t)

	var entries []logEntry
	for i := 0; i < 6; i++ {
		got := captureLogs(t, func() {
			resp, _ := do(t, app, "POST", "/api/login", `{"username": "admin", "password": "wrong"}`)
			if i < 5 && resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("attempt %d: expected 401, got %d", i, resp.StatusCode)
			}
			if i == 5 && resp.StatusCode != http.StatusTooManyRequests {
				t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
			}
		})
		entries = append(entries, got...)
	}
	if _, ok := findLog(entries, "rate.login.hit"); !ok {
		t.Fatal("rate.login.hit not logged")
	}
}

// oversized POST rejected with 413
func TestBodySizeLimit(t *testing.T) {
	app, _ := newTestApp(t)

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/api/products/import", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req, -1)
	// Fiber returns an error instead of a response when body too large; treat that as pass
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(body))
	}
}
