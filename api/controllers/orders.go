package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/omerfarooqdev/shipdesk-backend/api/responses"
	"github.com/omerfarooqdev/shipdesk-backend/api/validators"
	internalorders "github.com/omerfarooqdev/shipdesk-backend/internal/orders"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/pagination"
)

// OrdersList serves both the paginated list and, when an id is supplied, the
// single-order fetch that opens a pending lead.
func OrdersList(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := validators.RequireQuery(r, "tenant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if orderID := strings.TrimSpace(r.URL.Query().Get("id")); orderID != "" {
			actor := strings.TrimSpace(r.URL.Query().Get("actor"))
			order, err := svc.Get(r.Context(), tenantID, orderID, actor)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, order)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), tenantID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func buildOrderFilters(r *http.Request) (internalorders.Filters, error) {
	filters := internalorders.Filters{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter").
				WithDetails(map[string]any{"status": raw})
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "from must be RFC3339")
		}
		filters.DateFrom = &from
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "to must be RFC3339")
		}
		filters.DateTo = &to
	}
	return filters, nil
}

type importOrdersRequest struct {
	TenantID string                      `json:"tenant_id" validate:"required"`
	Orders   []internalorders.OrderInput `json:"orders" validate:"required,min=1,dive"`
}

// OrdersImport upserts a batch of storefront orders.
func OrdersImport(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importOrdersRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		count, err := svc.Import(r.Context(), req.TenantID, req.Orders)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"imported": count})
	}
}

type deleteOrdersRequest struct {
	TenantID string   `json:"tenant_id" validate:"required"`
	OrderIDs []string `json:"order_ids,omitempty"`
	All      bool     `json:"all,omitempty"`
}

// OrdersDelete removes the named orders, or every order of the tenant when
// all is set.
func OrdersDelete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteOrdersRequest
		if err := decodeLenient(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !req.All && len(req.OrderIDs) == 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order_ids or all required"))
			return
		}

		var (
			deleted int64
			err     error
		)
		if req.All {
			deleted, err = svc.Purge(r.Context(), req.TenantID)
		} else {
			deleted, err = svc.Delete(r.Context(), req.TenantID, req.OrderIDs)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": deleted})
	}
}

// decodeLenient decodes and validates without rejecting unknown fields;
// DELETE bodies come from assorted admin tooling.
func decodeLenient(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	return validators.ValidateStruct(dest)
}
