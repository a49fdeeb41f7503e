package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	internalorders "github.com/omerfarooqdev/shipdesk-backend/internal/orders"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/pagination"
)

type stubOrdersService struct {
	order   *models.Order
	list    *internalorders.OrderList
	err     error
	lastGet struct {
		tenantID string
		orderID  string
		actor    string
	}
	imported int
	deleted  int64
	purged   int64
	purgeHit bool
}

func (s *stubOrdersService) Import(_ context.Context, tenantID string, inputs []internalorders.OrderInput) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.imported = len(inputs)
	return len(inputs), nil
}

func (s *stubOrdersService) List(_ context.Context, tenantID string, _ pagination.Params, _ internalorders.Filters) (*internalorders.OrderList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubOrdersService) Get(_ context.Context, tenantID, orderID, actor string) (*models.Order, error) {
	s.lastGet.tenantID = tenantID
	s.lastGet.orderID = orderID
	s.lastGet.actor = actor
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrdersService) Delete(_ context.Context, tenantID string, ids []string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.deleted = int64(len(ids))
	return s.deleted, nil
}

func (s *stubOrdersService) Purge(_ context.Context, tenantID string) (int64, error) {
	s.purgeHit = true
	return s.purged, s.err
}

func TestOrdersListRequiresTenant(t *testing.T) {
	handler := OrdersList(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrdersListReturnsPage(t *testing.T) {
	svc := &stubOrdersService{list: &internalorders.OrderList{
		Orders:     []models.Order{{ID: "ORD-1", TenantID: "alpha"}},
		NextCursor: "abc",
	}}
	handler := OrdersList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?tenant_id=alpha&limit=10", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data internalorders.OrderList `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 || envelope.Data.Orders[0].ID != "ORD-1" {
		t.Fatalf("unexpected page: %+v", envelope.Data)
	}
	if envelope.Data.NextCursor != "abc" {
		t.Fatalf("expected cursor abc got %q", envelope.Data.NextCursor)
	}
}

func TestOrdersListSingleFetchPassesActor(t *testing.T) {
	svc := &stubOrdersService{order: &models.Order{ID: "ORD-9", TenantID: "alpha", Status: enums.OrderStatusOpenLead}}
	handler := OrdersList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?tenant_id=alpha&id=ORD-9&actor=agent-7", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.lastGet.orderID != "ORD-9" || svc.lastGet.actor != "agent-7" {
		t.Fatalf("expected get ORD-9 by agent-7, got %+v", svc.lastGet)
	}
}

func TestOrdersListRejectsBadStatusFilter(t *testing.T) {
	handler := OrdersList(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?tenant_id=alpha&status=NOT_A_STATUS", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrdersImportSuccess(t *testing.T) {
	svc := &stubOrdersService{}
	handler := OrdersImport(svc, nil)

	body := `{"tenant_id":"alpha","orders":[{"id":"ORD-1","customer_name":"Ada","phone":"03001234567","address":"12 Canal Rd","city":"Lahore","items":[{"product_id":"P-1","name":"Mug","quantity":1,"unit_price":"350"}],"total_amount":"350"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.imported != 1 {
		t.Fatalf("expected 1 imported got %d", svc.imported)
	}
}

func TestOrdersImportRejectsEmptyBatch(t *testing.T) {
	handler := OrdersImport(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"tenant_id":"alpha","orders":[]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOrdersImportUnknownTenant(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeTenantNotFound, "tenant not registered")}
	handler := OrdersImport(svc, nil)

	body := `{"tenant_id":"ghost","orders":[{"id":"ORD-1","customer_name":"Ada","phone":"03001234567","address":"12 Canal Rd","city":"Lahore","items":[{"product_id":"P-1","name":"Mug","quantity":1,"unit_price":"350"}],"total_amount":"350"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOrdersDeleteByIDs(t *testing.T) {
	svc := &stubOrdersService{}
	handler := OrdersDelete(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders", strings.NewReader(`{"tenant_id":"alpha","order_ids":["ORD-1","ORD-2"]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.deleted != 2 || svc.purgeHit {
		t.Fatalf("expected targeted delete of 2, got deleted=%d purge=%v", svc.deleted, svc.purgeHit)
	}
}

func TestOrdersDeleteAll(t *testing.T) {
	svc := &stubOrdersService{purged: 7}
	handler := OrdersDelete(svc, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders", strings.NewReader(`{"tenant_id":"alpha","all":true}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.purgeHit {
		t.Fatalf("expected purge to run")
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["deleted"] != 7 {
		t.Fatalf("expected 7 deleted got %d", envelope.Data["deleted"])
	}
}

func TestOrdersDeleteRequiresTarget(t *testing.T) {
	handler := OrdersDelete(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders", strings.NewReader(`{"tenant_id":"alpha"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
