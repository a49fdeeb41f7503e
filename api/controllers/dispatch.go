package controllers

import (
	"net/http"

	"github.com/omerfarooqdev/shipdesk-backend/api/responses"
	"github.com/omerfarooqdev/shipdesk-backend/api/validators"
	"github.com/omerfarooqdev/shipdesk-backend/internal/lifecycle"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
)

type shipOrderRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	OrderID  string `json:"order_id" validate:"required"`
	Actor    string `json:"actor,omitempty"`
}

// ShipOrder hands a confirmed order to the tenant's courier and persists the
// returned waybill with the SHIPPED status.
func ShipOrder(engine lifecycle.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shipOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := engine.Apply(r.Context(), lifecycle.ApplyInput{
			TenantID: req.TenantID,
			OrderRef: req.OrderID,
			Target:   enums.OrderStatusShipped,
			Actor:    req.Actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

type processReturnRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	// Ref is the order id or the courier waybill.
	Ref   string `json:"ref" validate:"required"`
	Actor string `json:"actor,omitempty"`
}

// ProcessReturn completes a return: restocks the items at the configured
// discount and closes the order.
func ProcessReturn(engine lifecycle.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processReturnRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := engine.Apply(r.Context(), lifecycle.ApplyInput{
			TenantID: req.TenantID,
			OrderRef: req.Ref,
			Target:   enums.OrderStatusReturnCompleted,
			Actor:    req.Actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
