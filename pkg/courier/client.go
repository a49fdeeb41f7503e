package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/config"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/metrics"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// Dispatcher hands an order to the external courier and returns the tracking
// reference the courier assigned (or activated).
type Dispatcher interface {
	Dispatch(ctx context.Context, order *models.Order, settings types.CourierSettings) (Result, error)
}

// Result carries the courier handshake outcome.
type Result struct {
	TrackingNumber string
}

// Client is the HTTP dispatch client. It never retries: the courier's
// idempotency semantics for duplicate submissions are unknown, so retry
// policy belongs to the caller.
type Client struct {
	httpClient   *http.Client
	logg         *logger.Logger
	metrics      *metrics.DispatchMetrics
	parcelWeight int
	reasonMaxLen int
}

// NewClient builds a dispatch client with a bounded request timeout.
func NewClient(cfg config.CourierConfig, logg *logger.Logger, m *metrics.DispatchMetrics) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	weight := cfg.ParcelWeightKG
	if weight <= 0 {
		weight = 1
	}
	maxLen := cfg.ReasonMaxLen
	if maxLen <= 0 {
		maxLen = 300
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		logg:         logg,
		metrics:      m,
		parcelWeight: weight,
		reasonMaxLen: maxLen,
	}
}

type apiResponse struct {
	Status    json.Number `json:"status"`
	WaybillNo string      `json:"waybill_no"`
	Message   string      `json:"message"`
}

// Dispatch books (or activates) a parcel for the order. The order is not
// mutated; persisting the tracking number is the caller's job.
func (c *Client) Dispatch(ctx context.Context, order *models.Order, settings types.CourierSettings) (Result, error) {
	if order == nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}

	mode, err := enums.ParseCourierMode(settings.Mode)
	if err != nil {
		mode = enums.CourierModeNewParcel
	}
	if settings.APIURL == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "courier api url missing")
	}
	if mode == enums.CourierModeExistingWaybill && (order.TrackingNumber == nil || *order.TrackingNumber == "") {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "existing-waybill mode requires a tracking number")
	}

	form := c.buildForm(order, settings, mode)

	start := time.Now()
	result, err := c.post(ctx, settings.APIURL, form, order, mode)
	c.metrics.ObserveDuration(mode.String(), time.Since(start))
	if err != nil {
		c.metrics.IncFailure(mode.String(), failureClass(err))
		return Result{}, err
	}
	c.metrics.IncSuccess(mode.String())
	return result, nil
}

func (c *Client) buildForm(order *models.Order, settings types.CourierSettings, mode enums.CourierMode) url.Values {
	form := url.Values{}
	form.Set("api_key", settings.APIKey)
	form.Set("client_id", settings.ClientID)
	form.Set("order_id", NumericOrderRef(order.ID))
	form.Set("parcel_weight", fmt.Sprintf("%d", c.parcelWeight))
	form.Set("parcel_description", parcelDescription(order.Items))
	form.Set("recipient_name", order.CustomerName)
	form.Set("recipient_contact_1", DigitsOnly(order.Phone))
	if order.AltPhone != nil && *order.AltPhone != "" {
		form.Set("recipient_contact_2", DigitsOnly(*order.AltPhone))
	}
	form.Set("recipient_address", order.Address)
	form.Set("recipient_city", order.City)
	form.Set("amount", codAmount(order.TotalAmount))
	form.Set("exchange", "0")
	if mode == enums.CourierModeExistingWaybill {
		form.Set("waybill_id", *order.TrackingNumber)
	}
	return form
}

func (c *Client) post(ctx context.Context, apiURL string, form url.Values, order *models.Order, mode enums.CourierMode) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeCourierUnreached, err, "build courier request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeCourierUnreached, err, "courier unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeCourierUnreached, err, "read courier response")
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// The courier is known to return HTML/plain-text error pages.
		reason := c.truncate(strings.TrimSpace(string(body)))
		return Result{}, pkgerrors.New(pkgerrors.CodeCourierRejected, reason).
			WithDetails(map[string]any{"raw": reason})
	}

	code, err := parsed.Status.Int64()
	if err != nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeCourierRejected, c.truncate(parsed.Message))
	}

	if code != 200 {
		reason := reasonForCode(code)
		if parsed.Message != "" {
			reason = fmt.Sprintf("%s: %s", reason, c.truncate(parsed.Message))
		}
		return Result{}, pkgerrors.New(pkgerrors.CodeCourierRejected, reason).
			WithDetails(map[string]any{"status": code})
	}

	tracking := strings.TrimSpace(parsed.WaybillNo)
	if tracking == "" && mode == enums.CourierModeExistingWaybill && order.TrackingNumber != nil {
		tracking = *order.TrackingNumber
	}
	if tracking == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeCourierRejected, "courier accepted parcel but returned no waybill")
	}
	return Result{TrackingNumber: tracking}, nil
}

func (c *Client) truncate(s string) string {
	if len(s) <= c.reasonMaxLen {
		return s
	}
	return s[:c.reasonMaxLen]
}

func failureClass(err error) string {
	switch {
	case pkgerrors.HasCode(err, pkgerrors.CodeCourierUnreached):
		return "unreachable"
	case pkgerrors.HasCode(err, pkgerrors.CodeCourierRejected):
		return "rejected"
	default:
		return "error"
	}
}

func parcelDescription(items []types.OrderItem) string {
	if len(items) == 0 {
		return "parcel"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}
	return strings.Join(parts, ", ")
}

// codAmount rounds a COD total to the nearest integer currency unit.
func codAmount(total decimal.Decimal) string {
	return total.Round(0).String()
}
