package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tavolo-order-service/internal/cache"
	"tavolo-order-service/internal/config"
	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/middleware"
	"tavolo-order-service/internal/session"
	"tavolo-order-service/internal/store/jsonfile"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	st, err := jsonfile.New(t.TempDir())
	if err != nil {
		t.Fatalf("jsonfile store: %v", err)
	}
	return &Handler{
		Store:    st,
		Sessions: session.NewStore(time.Hour, nil),
		Cache:    cache.NewMemoryReportCache(),
		Logger:   zap.NewNop(),
		Config: config.Config{
			JWTSecret:      "test-secret",
			ReportCacheTTL: time.Minute,
		},
	}
}

func authedContext(r *http.Request, email, role string) *http.Request {
	ctx := middleware.WithAuthContext(r.Context(), &middleware.AuthContext{
		Email:     email,
		SessionID: "test-session",
		Role:      role,
	})
	return r.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestRegisterThenLogin(t *testing.T) {
	h := newTestHandler(t)

	payload := []byte(`{"email":"ada@example.com","name":"Ada","region":"Lekki","password":"hunter2hunter2"}`)
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(payload)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"email":"ada@example.com","password":"hunter2hunter2"}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if token, _ := data["token"].(string); token == "" {
		t.Fatal("expected a token in the login response")
	}
	if h.Sessions.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", h.Sessions.Len())
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newTestHandler(t)

	payload := []byte(`{"email":"ada@example.com","name":"Ada","password":"hunter2hunter2"}`)
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(payload)))

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(`{"email":"ada@example.com","password":"wrong"}`))))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateOrderAndDashboard(t *testing.T) {
	h := newTestHandler(t)

	orderPayload := []byte(`{"items":[{"name":"Jollof Rice","quantity":2,"unitPrice":1500}]}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(orderPayload))
	h.CreateOrder(rec, authedContext(req, "ada@example.com", domain.RoleCustomer))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	report, err := h.LoadReport(context.Background())
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if report.Stats.TotalOrders != 1 {
		t.Fatalf("expected 1 order in the report, got %d", report.Stats.TotalOrders)
	}
	if report.Stats.TotalRevenue != 3000 {
		t.Fatalf("expected revenue 3000, got %.2f", report.Stats.TotalRevenue)
	}
}

func TestDashboardServesCachedReportAfterWrite(t *testing.T) {
	h := newTestHandler(t)

	if _, err := h.LoadReport(context.Background()); err != nil {
		t.Fatalf("load report: %v", err)
	}

	// A write invalidates the cache, so the next load sees the new order.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte(`{"items":[{"name":"Suya","quantity":1,"unitPrice":800}]}`)))
	h.CreateOrder(rec, authedContext(req, "ada@example.com", domain.RoleCustomer))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	report, err := h.LoadReport(context.Background())
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if report.Stats.TotalOrders != 1 {
		t.Fatalf("expected the invalidated cache to surface the new order, got %d orders", report.Stats.TotalOrders)
	}
}

func TestAdminDashboardEnvelope(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.AdminDashboard(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", body["data"])
	}
	for _, key := range []string{"stats", "statusDistribution", "insights", "recommendations"} {
		if _, present := data[key]; !present {
			t.Fatalf("expected report field %q in dashboard payload", key)
		}
	}
}

func TestGetOrderOwnership(t *testing.T) {
	h := newTestHandler(t)

	if err := h.Store.CreateOrder(context.Background(), domain.Order{
		ID:     "ord_test1",
		Email:  "ada@example.com",
		Total:  1200,
		Status: domain.OrderStatusPending,
		Date:   time.Now(),
	}); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	fetch := func(email, role string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/ord_test1", nil)
		ctx := chi.NewRouteContext()
		ctx.URLParams.Add("orderID", "ord_test1")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
		h.GetOrder(rec, authedContext(req, email, role))
		return rec
	}

	if rec := fetch("ada@example.com", domain.RoleCustomer); rec.Code != http.StatusOK {
		t.Fatalf("owner fetch: expected 200, got %d", rec.Code)
	}
	if rec := fetch("eve@example.com", domain.RoleCustomer); rec.Code == http.StatusOK {
		t.Fatalf("stranger fetch: expected rejection, got 200")
	}
	if rec := fetch("boss@example.com", domain.RoleAdmin); rec.Code != http.StatusOK {
		t.Fatalf("admin fetch: expected 200, got %d", rec.Code)
	}
}

func TestProductLifecycle(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.AdminCreateProduct(rec, httptest.NewRequest(http.MethodPost, "/admin/products", bytes.NewReader([]byte(`{"name":"Pepper Soup","price":2200,"category":"Soups"}`))))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	productID, _ := data["id"].(string)
	if productID == "" {
		t.Fatal("expected a product id")
	}

	// Public listing only shows available products.
	unavailable := domain.Product{ID: "prd_hidden", Name: "Hidden", Price: 100, Available: false, CreatedAt: time.Now()}
	if err := h.Store.CreateProduct(context.Background(), unavailable); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	rec = httptest.NewRecorder()
	h.PublicListProducts(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	body = decodeEnvelope(t, rec)
	listed, _ := body["data"].([]any)
	if len(listed) != 1 {
		t.Fatalf("expected only the available product publicly, got %d", len(listed))
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/products/"+productID, nil)
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("productID", productID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
	h.AdminDeleteProduct(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
}

func TestCreateReviewValidatesRating(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader([]byte(`{"rating":6,"comment":"great"}`)))
	h.CreateReview(rec, authedContext(req, "ada@example.com", domain.RoleCustomer))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rating 6, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader([]byte(`{"rating":4,"comment":"great"}`)))
	h.CreateReview(rec, authedContext(req, "ada@example.com", domain.RoleCustomer))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardExportCSV(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.AdminDashboardExportCSV(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard/export.csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("totalRevenue")) {
		t.Fatal("expected the CSV to carry the revenue metric")
	}
}
