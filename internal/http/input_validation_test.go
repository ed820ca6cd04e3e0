package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// malformed inputs are rejected before they reach the services
func TestValidationBadInputs(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		method, path, body string
	}{
		{"GET", "/api/products/abc", ""},
		{"GET", "/api/products/0", ""},
		{"GET", "/api/products?q=%3Cscript%3E", ""},
		{"POST", "/api/products", `{"sku": "A-1", "name": `},
		{"POST", "/api/products", `{"sku": "has space", "name": "Thing", "unit_price_cents": 1}`},
		{"POST", "/api/products", `{"sku": "A-2", "name": "Thing", "unit_price_cents": -5}`},
		{"POST", "/api/customers", `{"name": "Ann", "email": "not-an-email"}`},
		{"POST", "/api/suppliers", `{"name": ""}`},
		{"POST", "/api/sales", `{"items": []}`},
		{"POST", "/api/sales", `{"items": [{"product_id": 1, "quantity": 0}]}`},
		{"GET", "/api/reports/sales-summary", ""},
		{"GET", "/api/reports/sales-summary?from_date=2024-03-05&to_date=2024-03-01", ""},
		{"GET", "/api/reports/sales-summary?from_date=03/01/2024&to_date=2024-03-02", ""},
		{"GET", "/api/reports/low-stock?threshold=many", ""},
		{"GET", "/api/reports/low-stock?threshold=-1", ""},
		{"POST", "/api/products/import?charset=ebcdic", "sku,name\n"},
	}
	for _, tc := range cases {
		resp, body := do(t, app, tc.method, tc.path, tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s %s %s: expected 400, got %d body=%s", tc.method, tc.path, tc.body, resp.StatusCode, body)
		}
	}
}

func TestValidationFailuresAreLogged(t *testing.T) {
	app, _ := newTestApp(t)

	entries := captureLogs(t, func() {
		do(t, app, "POST", "/api/customers", `{"name": "Ann", "email": "nope"}`)
	})
	e, ok := findLog(entries, "validation.fail")
	if !ok {
		t.Fatal("validation.fail not logged")
	}
	if e.Level != "warn" || e.Fields["field"] != "email" || e.Path != "/api/customers" {
		t.Fatalf("unexpected entry %+v", e)
	}
}

// templates auto-escape untrusted text
func TestTemplateAutoEscape(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "<script>alert(1)</script>")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(s, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", s)
	}
	if resp.Header.Get("Content-Security-Policy") == "" {
		t.Fatal("helmet headers missing")
	}
}
