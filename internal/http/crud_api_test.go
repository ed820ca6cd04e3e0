package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"rms/internal/domain"
	"rms/internal/services"
)

func TestProductsAPI(t *testing.T) {
	app, _ := newTestApp(t)

	p := createProduct(t, app, "SKU-1", "Kettle", 3999, 4, 1)
	assert.Equal(t, 1, p.ReorderLevel)

	var entries []logEntry
	var resp *http.Response
	var body []byte
	entries = captureLogs(t, func() {
		resp, body = do(t, app, "POST", "/api/products", `{"sku": "SKU-1", "name": "Other"}`)
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "SKU already exists")
	_, ok := findLog(entries, "product.create.conflict")
	assert.True(t, ok)

	entries = captureLogs(t, func() {
		resp, body = do(t, app, "PUT", fmt.Sprintf("/api/products/%d", p.ID), `{"unit_price_cents": 3499}`)
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got domain.Product
	decode(t, body, &got)
	assert.EqualValues(t, 3499, got.UnitPriceCents)
	assert.Equal(t, "Kettle", got.Name)
	assert.Equal(t, 4, got.QuantityAvailable)
	e, ok := findLog(entries, "product.update")
	require.True(t, ok)
	assert.Equal(t, false, e.Fields["low_stock"])

	entries = captureLogs(t, func() {
		resp, body = do(t, app, "PUT", fmt.Sprintf("/api/products/%d", p.ID), `{"quantity_available": 1}`)
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	e, ok = findLog(entries, "product.update")
	require.True(t, ok)
	assert.Equal(t, true, e.Fields["low_stock"])

	resp, body = do(t, app, "POST", "/api/products", `{"sku": "SKU-BIG", "name": "Gold", "unit_price_cents": 5000000000000000000}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "unit_price_cents")

	_, body = do(t, app, "GET", "/api/products?q=kett", "")
	var list []domain.Product
	decode(t, body, &list)
	assert.Len(t, list, 1)

	_, body = do(t, app, "GET", "/api/products?skip=1", "")
	decode(t, body, &list)
	assert.Empty(t, list)

	resp, _ = do(t, app, "DELETE", fmt.Sprintf("/api/products/%d", p.ID), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = do(t, app, "GET", fmt.Sprintf("/api/products/%d", p.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductCreateAudit(t *testing.T) {
	app, _ := newTestApp(t)

	var p domain.Product
	entries := captureLogs(t, func() {
		p = createProduct(t, app, "AUD-1", "Audited", 100, 1, 1)
	})
	e, ok := findLog(entries, "product.create")
	require.True(t, ok)
	assert.Equal(t, "audit", e.Level)
	assert.Equal(t, "AUD-1", e.Fields["sku"])
	assert.EqualValues(t, p.ID, e.Fields["product_id"])
	assert.NotEmpty(t, e.ReqID)
}

func TestSuppliersAPI(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, "POST", "/api/suppliers", `{"name": "Acme", "contact_name": "Dana", "email": "dana@acme.test"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var s domain.Supplier
	decode(t, body, &s)

	resp, body = do(t, app, "POST", "/api/products", fmt.Sprintf(
		`{"sku": "SUP-P", "name": "Supplied", "unit_price_cents": 10, "supplier_id": %d}`, s.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p domain.Product
	decode(t, body, &p)

	_, body = do(t, app, "GET", fmt.Sprintf("/api/products/%d", p.ID), "")
	assert.Contains(t, string(body), `"supplier":{"id":`)

	// a patch without supplier_id keeps the link, an explicit null drops it
	resp, body = do(t, app, "PUT", fmt.Sprintf("/api/products/%d", p.ID), `{"name": "Supplied too"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	decode(t, body, &p)
	require.NotNil(t, p.SupplierID)
	assert.Equal(t, s.ID, *p.SupplierID)

	resp, body = do(t, app, "PUT", fmt.Sprintf("/api/products/%d", p.ID), `{"supplier_id": null}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	_, body = do(t, app, "GET", fmt.Sprintf("/api/products/%d", p.ID), "")
	p = domain.Product{}
	decode(t, body, &p)
	assert.Nil(t, p.SupplierID)
	assert.Nil(t, p.Supplier)
	assert.Equal(t, "Supplied too", p.Name)

	resp, body = do(t, app, "PUT", fmt.Sprintf("/api/products/%d", p.ID), fmt.Sprintf(`{"supplier_id": %d}`, s.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, app, "PUT", fmt.Sprintf("/api/suppliers/%d", s.ID), `{"name": "Acme Wholesale"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	decode(t, body, &s)
	assert.Equal(t, "Acme Wholesale", s.Name)
	assert.Empty(t, s.ContactName)

	resp, _ = do(t, app, "DELETE", fmt.Sprintf("/api/suppliers/%d", s.ID), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body = do(t, app, "GET", fmt.Sprintf("/api/products/%d", p.ID), "")
	decode(t, body, &p)
	assert.Nil(t, p.SupplierID)

	resp, _ = do(t, app, "GET", fmt.Sprintf("/api/suppliers/%d", s.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomersAPI(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := do(t, app, "POST", "/api/customers", `{"name": "Ann", "email": "ann@shop.test"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var cu domain.Customer
	decode(t, body, &cu)

	resp, _ = do(t, app, "POST", "/api/customers", `{"name": "Imposter", "email": "ann@shop.test"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	p := createProduct(t, app, "CU-1", "Thing", 100, 2, 0)
	resp, body = do(t, app, "POST", "/api/sales", fmt.Sprintf(
		`{"customer_id": %d, "items": [{"product_id": %d, "quantity": 1}]}`, cu.ID, p.ID))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale domain.Sale
	decode(t, body, &sale)
	require.NotNil(t, sale.Customer)
	assert.Equal(t, "Ann", sale.Customer.Name)

	_, body = do(t, app, "GET", fmt.Sprintf("/api/sales/%d", sale.ID), "")
	sale = domain.Sale{}
	decode(t, body, &sale)
	require.NotNil(t, sale.Customer)
	assert.Equal(t, cu.ID, sale.Customer.ID)
	assert.Equal(t, "ann@shop.test", sale.Customer.Email)

	resp, _ = do(t, app, "DELETE", fmt.Sprintf("/api/customers/%d", cu.ID), "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", fmt.Sprintf("/api/products/%d", p.ID), "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	_, body = do(t, app, "GET", "/api/customers", "")
	var list []domain.Customer
	decode(t, body, &list)
	assert.Len(t, list, 1)
}

func TestImportAPI(t *testing.T) {
	app, _ := newTestApp(t)

	raw, err := charmap.Windows1252.NewEncoder().String("sku,name,unit_price_cents,quantity_available\nCAF-1,Café crème,350,12\nTEA-1,Tea,250,0\n")
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/products/import?charset=windows-1252", strings.NewReader(raw))
	req.Header.Set("Content-Type", "text/csv")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res services.ImportResult
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	decode(t, []byte(buf.String()), &res)
	assert.Equal(t, services.ImportResult{Created: 2}, res)

	_, body := do(t, app, "GET", "/api/products?q=caf", "")
	assert.Contains(t, string(body), "Café crème")

	req = httptest.NewRequest("POST", "/api/products/import", strings.NewReader("CAF-1,Café,350,12\nBAD,,1,1\n"))
	req.Header.Set("Content-Type", "text/csv")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	buf.Reset()
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "line 2")

	resp, _ = do(t, app, "POST", "/api/products/import", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
