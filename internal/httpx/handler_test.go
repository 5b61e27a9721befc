package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lhardev/storefront/internal/catalog"
	"github.com/lhardev/storefront/internal/orders"
	"github.com/lhardev/storefront/internal/pkg/cache"
	"github.com/lhardev/storefront/internal/pkg/requestmeta"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat := catalog.New([]catalog.Product{
		{
			ID:    1,
			Name:  "iPhone 15 Pro Max",
			Price: 159900,
			Variants: map[string][]string{
				"storage": {"256GB", "512GB", "1TB"},
				"colors":  {"Natural Titanium", "Blue Titanium"},
			},
		},
	}, catalog.DefaultSteps())

	svc := orders.NewService(orders.NewMemoryStore(), nil, cache.NewMemoryCache("storefront-test"))
	h := NewHandler(cat, svc, SiteConfig{SiteName: "Apple Store", UPIID: "store@okaxis", AdvanceAmount: 499})
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func createCODOrder(t *testing.T, srv *httptest.Server, total int64) CreateOrderResponse {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/orders", CreateOrderRequest{
		Cart:        []orders.CartItem{{ID: "1-256GB-Blue Titanium", ProductID: 1, Name: "iPhone", Price: total, Quantity: 1}},
		Amount:      0,
		PaymentType: "COD",
		CustomerDetails: orders.CustomerDetails{
			Name: "A Kumar", Phone: "9900000000", Address: "12 MG Road", City: "Pune", Pincode: "411001",
		},
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var out CreateOrderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestCreateOrder_COD(t *testing.T) {
	srv := newTestServer(t)
	out := createCODOrder(t, srv, 82900)

	if !out.Success {
		t.Fatalf("success = false")
	}
	if out.TransactionID != orders.PendingCODTransaction {
		t.Fatalf("transactionId = %q", out.TransactionID)
	}
	if out.Details.Total != 82900 || out.Details.Paid != 0 || out.Details.Due != 82900 {
		t.Fatalf("details = %+v", out.Details)
	}

	// The full order is fetchable by id with status PENDING.
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/orders/"+out.OrderID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	var o orders.Order
	if err := json.Unmarshal(body, &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if o.PaymentStatus != orders.StatusPending {
		t.Fatalf("paymentStatus = %s, want PENDING", o.PaymentStatus)
	}
}

func TestCreateOrder_OnlineAdvance(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/orders", CreateOrderRequest{
		Cart:        []orders.CartItem{{ID: "1-1TB-Blue Titanium", ProductID: 1, Name: "iPhone", Price: 159900, Quantity: 1}},
		Amount:      499,
		PaymentType: "ONLINE",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out CreateOrderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Message != "Advance Payment Received" {
		t.Fatalf("message = %q", out.Message)
	}

	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/orders/"+out.OrderID, nil, nil)
	var o orders.Order
	_ = json.Unmarshal(body, &o)
	if o.PaymentStatus != orders.StatusPartialPaid {
		t.Fatalf("paymentStatus = %s, want PARTIAL_PAID", o.PaymentStatus)
	}
}

func TestCreateOrder_EmptyCartRejected(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/orders", CreateOrderRequest{PaymentType: "COD"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPayDeferred(t *testing.T) {
	srv := newTestServer(t)
	out := createCODOrder(t, srv, 82900)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/orders/"+out.OrderID+"/pay-deferred",
		PayDeferredRequest{Amount: 999}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var pd PayDeferredResponse
	if err := json.Unmarshal(body, &pd); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pd.Order.Amounts.Paid != 999 || pd.Order.Amounts.Due != 81901 {
		t.Fatalf("amounts = %+v", pd.Order.Amounts)
	}
	if pd.Order.PaymentStatus != orders.StatusPartialPaid {
		t.Fatalf("paymentStatus = %s", pd.Order.PaymentStatus)
	}
	if len(pd.Order.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(pd.Order.Transactions))
	}
}

func TestPayDeferred_IdempotencyKeyHeader(t *testing.T) {
	srv := newTestServer(t)
	out := createCODOrder(t, srv, 82900)
	url := srv.URL + "/api/orders/" + out.OrderID + "/pay-deferred"
	hdr := map[string]string{requestmeta.HeaderIdempotencyKey: "client-retry-1"}

	_, body := doJSON(t, http.MethodPost, url, PayDeferredRequest{Amount: 999}, hdr)
	var first PayDeferredResponse
	_ = json.Unmarshal(body, &first)

	_, body = doJSON(t, http.MethodPost, url, PayDeferredRequest{Amount: 999}, hdr)
	var second PayDeferredResponse
	_ = json.Unmarshal(body, &second)

	if !second.Duplicate {
		t.Fatalf("replay not flagged duplicate")
	}
	if second.Order.Amounts.Paid != first.Order.Amounts.Paid {
		t.Fatalf("replay double-credited: %d -> %d", first.Order.Amounts.Paid, second.Order.Amounts.Paid)
	}
}

func TestPayDeferred_FlipsToPaid(t *testing.T) {
	srv := newTestServer(t)
	out := createCODOrder(t, srv, 499)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/api/orders/"+out.OrderID+"/pay-deferred",
		PayDeferredRequest{Amount: 499}, nil)
	var pd PayDeferredResponse
	_ = json.Unmarshal(body, &pd)
	if pd.Order.Amounts.Due != 0 || pd.Order.PaymentStatus != orders.StatusPaid {
		t.Fatalf("due/status = %d/%s, want 0/PAID", pd.Order.Amounts.Due, pd.Order.PaymentStatus)
	}
}

func TestOrderNotFoundResponses(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/orders/ORD-nope", nil},
		{http.MethodPost, "/api/orders/ORD-nope/pay-deferred", PayDeferredRequest{Amount: 1}},
		{http.MethodPatch, "/api/orders/ORD-nope/status", UpdateStatusRequest{Status: "SHIPPED"}},
		{http.MethodDelete, "/api/orders/ORD-nope", nil},
	}
	for _, tc := range cases {
		resp, body := doJSON(t, tc.method, srv.URL+tc.path, tc.body, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s %s: status = %d, want 404 (%s)", tc.method, tc.path, resp.StatusCode, body)
		}
		var e ErrorResponse
		if err := json.Unmarshal(body, &e); err != nil || e.Error != "order_not_found" {
			t.Fatalf("%s %s: error body = %s", tc.method, tc.path, body)
		}
	}
}

func TestUpdateStatusAndDelete(t *testing.T) {
	srv := newTestServer(t)
	out := createCODOrder(t, srv, 1000)

	resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/api/orders/"+out.OrderID+"/status",
		UpdateStatusRequest{Status: "SHIPPED"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d", resp.StatusCode)
	}

	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/orders/"+out.OrderID, nil, nil)
	var o orders.Order
	_ = json.Unmarshal(body, &o)
	if o.Status != "SHIPPED" || o.PaymentStatus != orders.StatusPending {
		t.Fatalf("status = %q paymentStatus = %s", o.Status, o.PaymentStatus)
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/orders/"+out.OrderID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/orders/"+out.OrderID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("order readable after delete")
	}
}

func TestAdminOrdersNewestFirst(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 3; i++ {
		createCODOrder(t, srv, int64(1000+i))
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/admin/orders", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var all []orders.Order
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d orders", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Date.After(all[i-1].Date) {
			t.Fatalf("not newest-first")
		}
	}
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/products", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var ps []catalog.Product
	if err := json.Unmarshal(body, &ps); err != nil || len(ps) != 1 {
		t.Fatalf("products = %s", body)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/products/1", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/products/99", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing product status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/products/abc", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", resp.StatusCode)
	}
}

func TestSiteConfig(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/config", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var sc SiteConfigResponse
	if err := json.Unmarshal(body, &sc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sc.AdvanceAmount != 499 || sc.SiteName != "Apple Store" {
		t.Fatalf("config = %+v", sc)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
