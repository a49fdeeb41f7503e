package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/omerfarooqdev/shipdesk-backend/internal/customers"
	"github.com/omerfarooqdev/shipdesk-backend/internal/lifecycle"
	internalorders "github.com/omerfarooqdev/shipdesk-backend/internal/orders"
	"github.com/omerfarooqdev/shipdesk-backend/internal/reconcile"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/config"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Import(context.Context, string, []internalorders.OrderInput) (int, error) {
	return 1, nil
}

func (stubOrdersService) List(context.Context, string, pagination.Params, internalorders.Filters) (*internalorders.OrderList, error) {
	return &internalorders.OrderList{}, nil
}

func (stubOrdersService) Get(context.Context, string, string, string) (*models.Order, error) {
	return &models.Order{ID: "ORD-1"}, nil
}

func (stubOrdersService) Delete(context.Context, string, []string) (int64, error) {
	return 1, nil
}

func (stubOrdersService) Purge(context.Context, string) (int64, error) {
	return 0, nil
}

type stubEngine struct{}

func (stubEngine) Apply(_ context.Context, input lifecycle.ApplyInput) (*models.Order, error) {
	return &models.Order{ID: input.OrderRef, Status: input.Target}, nil
}

func (stubEngine) ApplyResolved(_ context.Context, _ *models.Tenant, _ *gorm.DB, order *models.Order, input lifecycle.ApplyInput) (*models.Order, error) {
	return order, nil
}

type stubReconcileService struct{}

func (stubReconcileService) Process(context.Context, string, []byte, url.Values) (*reconcile.Result, error) {
	return &reconcile.Result{Waybill: "WB-1", Outcome: "applied", Mapped: enums.OrderStatusDelivered}, nil
}

type stubCustomersService struct{}

func (stubCustomersService) History(context.Context, string, string) (*customers.History, error) {
	return &customers.History{OrderCount: 2}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter() http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		nil, // redis client
		prometheus.NewRegistry(),
		stubOrdersService{},
		stubEngine{},
		stubReconcileService{},
		stubCustomersService{},
	)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter()

	for _, target := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", target, resp.Code)
		}
		if env := resp.Header().Get("X-ShipDesk-Env"); env != "test" {
			t.Fatalf("%s: expected env header, got %q", target, env)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrderRoutesAreWired(t *testing.T) {
	router := newTestRouter()

	list := httptest.NewRequest(http.MethodGet, "/api/v1/orders?tenant_id=alpha", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, list)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/orders", strings.NewReader(`{"tenant_id":"alpha","order_ids":["ORD-1"]}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, del)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDispatchRoutesAreWired(t *testing.T) {
	router := newTestRouter()

	ship := httptest.NewRequest(http.MethodPost, "/api/v1/ship-order", strings.NewReader(`{"tenant_id":"alpha","order_id":"ORD-1"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, ship)
	if resp.Code != http.StatusOK {
		t.Fatalf("ship: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	ret := httptest.NewRequest(http.MethodPost, "/api/v1/process-return", strings.NewReader(`{"tenant_id":"alpha","ref":"WB-1"}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, ret)
	if resp.Code != http.StatusOK {
		t.Fatalf("return: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestWebhookRouteIsWired(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courier-webhook", strings.NewReader(`{"waybill_id":"WB-1","status":"Delivered"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCustomerHistoryRouteIsWired(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customer-history?tenant_id=alpha&phone=03001234567", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
