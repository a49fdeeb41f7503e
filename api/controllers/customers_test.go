package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omerfarooqdev/shipdesk-backend/internal/customers"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
)

type stubCustomersService struct {
	history *customers.History
	err     error
	phone   string
}

func (s *stubCustomersService) History(_ context.Context, tenantID, phone string) (*customers.History, error) {
	s.phone = phone
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func TestCustomerHistorySuccess(t *testing.T) {
	svc := &stubCustomersService{history: &customers.History{
		Phone:       "0300-1234567",
		OrderCount:  4,
		ReturnCount: 1,
		ReturnRate:  0.25,
	}}
	handler := CustomerHistory(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customer-history?tenant_id=alpha&phone=0300-1234567", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.phone != "0300-1234567" {
		t.Fatalf("phone not forwarded: %q", svc.phone)
	}

	var envelope struct {
		Data customers.History `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderCount != 4 || envelope.Data.ReturnRate != 0.25 {
		t.Fatalf("unexpected history: %+v", envelope.Data)
	}
}

func TestCustomerHistoryRequiresParams(t *testing.T) {
	handler := CustomerHistory(&stubCustomersService{}, nil)

	for _, target := range []string{
		"/api/v1/customer-history",
		"/api/v1/customer-history?tenant_id=alpha",
		"/api/v1/customer-history?phone=03001234567",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, rec.Code)
		}
	}
}

func TestCustomerHistoryShortPhone(t *testing.T) {
	svc := &stubCustomersService{err: pkgerrors.New(pkgerrors.CodeValidation, "phone must carry at least 8 digits")}
	handler := CustomerHistory(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customer-history?tenant_id=alpha&phone=123", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
