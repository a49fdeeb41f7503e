package reconcile

import (
	"bytes"
	"mime/multipart"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
)

func TestParsePayloadEncodingsAreEquivalent(t *testing.T) {
	jsonBody := []byte(`{"waybill_id":"WB-9","delivery_status":"Delivered"}`)

	var multipartBody bytes.Buffer
	writer := multipart.NewWriter(&multipartBody)
	require.NoError(t, writer.WriteField("waybill_id", "WB-9"))
	require.NoError(t, writer.WriteField("delivery_status", "Delivered"))
	require.NoError(t, writer.Close())

	cases := []struct {
		name        string
		contentType string
		body        []byte
		query       url.Values
		source      Source
	}{
		{"json", "application/json", jsonBody, nil, SourceJSON},
		{"multipart", writer.FormDataContentType(), multipartBody.Bytes(), nil, SourceMultipart},
		{"multipart no boundary header", "multipart/form-data", multipartBody.Bytes(), nil, SourceMultipart},
		{"form", "application/x-www-form-urlencoded",
			[]byte("waybill_id=WB-9&delivery_status=Delivered"), nil, SourceForm},
		{"wrapped json", "application/x-www-form-urlencoded",
			[]byte(url.QueryEscape(`{"waybill_id":"WB-9","delivery_status":"Delivered"}`)), nil, SourceWrappedJSON},
		{"query", "text/plain", nil,
			url.Values{"waybillId": {"WB-9"}, "status": {"Delivered"}}, SourceQuery},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := ParsePayload(tc.contentType, tc.body, tc.query)
			require.NoError(t, err)
			assert.Equal(t, "WB-9", payload.Waybill)
			assert.Equal(t, "Delivered", payload.RawStatus)
			assert.Equal(t, tc.source, payload.Source)
		})
	}
}

func TestParsePayloadKeyAliases(t *testing.T) {
	payload, err := ParsePayload("application/json",
		[]byte(`{"waybillId":"WB-1","current_status":"In Transfer"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "WB-1", payload.Waybill)
	assert.Equal(t, "In Transfer", payload.RawStatus)
}

func TestParsePayloadStatusKeyPriority(t *testing.T) {
	payload, err := ParsePayload("application/json",
		[]byte(`{"waybill_id":"WB-1","status":"b","delivery_status":"a"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "a", payload.RawStatus)
}

func TestParsePayloadCourierTimestamp(t *testing.T) {
	payload, err := ParsePayload("application/json",
		[]byte(`{"waybill_id":"WB-3","delivery_status":"Delivered","timestamp":"2026-08-30 14:05:00"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30 14:05:00", payload.Timestamp)
	assert.Equal(t, "Delivered at 2026-08-30 14:05:00", payload.Note())

	payload, err = ParsePayload("application/x-www-form-urlencoded",
		[]byte("waybill_id=WB-3&status=Returned&updated_at=2026-08-30T14%3A05%3A00Z"), nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30T14:05:00Z", payload.Timestamp)
	assert.Equal(t, "Returned at 2026-08-30T14:05:00Z", payload.Note())
}

func TestParsePayloadTimestampMayBeAbsent(t *testing.T) {
	payload, err := ParsePayload("application/json",
		[]byte(`{"waybill_id":"WB-3","status":"Delivered"}`), nil)
	require.NoError(t, err)
	assert.Empty(t, payload.Timestamp)
	assert.Equal(t, "Delivered", payload.Note())
}

func TestParsePayloadMissingWaybill(t *testing.T) {
	_, err := ParsePayload("application/json", []byte(`{"delivery_status":"Delivered"}`), nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeMissingWaybill))

	_, err = ParsePayload("text/plain", []byte("garbage"), nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeMissingWaybill))
}

func TestParsePayloadStatusMayBeAbsent(t *testing.T) {
	payload, err := ParsePayload("application/json", []byte(`{"waybill_id":"WB-2"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "WB-2", payload.Waybill)
	assert.Empty(t, payload.RawStatus)
}

func TestMapStatusRules(t *testing.T) {
	cases := []struct {
		raw  string
		want enums.OrderStatus
	}{
		{"Delivered", enums.OrderStatusDelivered},
		{"Parcel Delivered (POD pending)", enums.OrderStatusDelivered},
		{"Return in Transfer", enums.OrderStatusReturnTransfer},
		{"In Transfer to Hub", enums.OrderStatusTransfer},
		{"Returned", enums.OrderStatusReturned},
		{"Return Handover to Merchant", enums.OrderStatusReturnHandover},
		{"Return as on System", enums.OrderStatusReturnAsOnSystem},
		{"Out for Delivery", enums.OrderStatusDelivery},
		{"Partial Delivery", enums.OrderStatusDelivery},
		{"Residual Parcel", enums.OrderStatusResidual},
		{"Rearrange Requested", enums.OrderStatusRearrange},
		{"Waiting for Pickup", enums.OrderStatusPending},
		{"Picked up by rider", enums.OrderStatusShipped},
		{"", enums.OrderStatusShipped},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapStatus(tc.raw), "raw %q", tc.raw)
	}
}
