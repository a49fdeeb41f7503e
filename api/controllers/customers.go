package controllers

import (
	"net/http"

	"github.com/omerfarooqdev/shipdesk-backend/api/responses"
	"github.com/omerfarooqdev/shipdesk-backend/api/validators"
	"github.com/omerfarooqdev/shipdesk-backend/internal/customers"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
)

// CustomerHistory returns the order and return counts for a phone number
// within one tenant, matched on the trailing digits so formatting noise in
// storefront imports does not split a customer's record.
func CustomerHistory(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := validators.RequireQuery(r, "tenant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		phone, err := validators.RequireQuery(r, "phone")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), tenantID, phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
