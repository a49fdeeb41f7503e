package controllers

import (
	"io"
	"net/http"

	"github.com/omerfarooqdev/shipdesk-backend/api/responses"
	"github.com/omerfarooqdev/shipdesk-backend/internal/reconcile"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
)

// webhookBodyLimit guards against courier gateways posting unbounded bodies.
const webhookBodyLimit = 1 << 20

// CourierWebhook ingests delivery-status callbacks in whatever encoding the
// courier chose today. Responds 200 even when the waybill matches no order,
// so courier-side retries stop; only a payload without any waybill is a 400.
func CourierWebhook(svc reconcile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read webhook body"))
			return
		}

		result, err := svc.Process(r.Context(), r.Header.Get("Content-Type"), body, r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
