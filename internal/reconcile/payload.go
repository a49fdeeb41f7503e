package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"

	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
)

// Source tags which decoding strategy produced a payload. Couriers disagree
// wildly on how they post status callbacks, so the parser records its path
// for observability.
type Source string

const (
	SourceJSON        Source = "json"
	SourceMultipart   Source = "multipart"
	SourceForm        Source = "form"
	SourceWrappedJSON Source = "wrapped_json"
	SourceQuery       Source = "query"
)

// Payload is a decoded courier callback. Timestamp is the courier-reported
// event time, kept verbatim since couriers disagree on formats.
type Payload struct {
	Waybill   string
	RawStatus string
	Timestamp string
	Source    Source
}

// Note renders the log annotation for this callback: the raw status string
// plus the courier-reported timestamp when one was sent.
func (p *Payload) Note() string {
	switch {
	case p.RawStatus != "" && p.Timestamp != "":
		return p.RawStatus + " at " + p.Timestamp
	case p.Timestamp != "":
		return "courier time " + p.Timestamp
	default:
		return p.RawStatus
	}
}

var waybillKeys = []string{"waybill_id", "waybillId"}
var statusKeys = []string{"delivery_status", "current_status", "status"}
var timestampKeys = []string{"timestamp", "status_time", "updated_at"}

// ParsePayload decodes a courier callback body, trying strategies in order:
// a JSON object, multipart form data, url-encoded form data, a JSON blob
// wrapped in a single form key, and finally the request query string. The
// first strategy yielding a waybill wins.
func ParsePayload(contentType string, body []byte, query url.Values) (*Payload, error) {
	if payload := fromJSON(body); payload != nil {
		return payload, nil
	}
	if payload := fromMultipart(contentType, body); payload != nil {
		return payload, nil
	}
	if payload := fromForm(body); payload != nil {
		return payload, nil
	}
	if payload := fromWrappedJSON(body); payload != nil {
		return payload, nil
	}
	if payload := fromQuery(query); payload != nil {
		return payload, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeMissingWaybill, "no waybill reference in callback").
		WithDetails(map[string]string{"content_type": contentType})
}

func firstValue(lookup func(key string) string, keys []string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(lookup(key)); value != "" {
			return value
		}
	}
	return ""
}

func payloadFrom(lookup func(key string) string, source Source) *Payload {
	waybill := firstValue(lookup, waybillKeys)
	if waybill == "" {
		return nil
	}
	return &Payload{
		Waybill:   waybill,
		RawStatus: firstValue(lookup, statusKeys),
		Timestamp: firstValue(lookup, timestampKeys),
		Source:    source,
	}
}

func fromJSON(body []byte) *Payload {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}
	return payloadFrom(func(key string) string {
		return stringField(fields, key)
	}, SourceJSON)
}

func stringField(fields map[string]any, key string) string {
	switch value := fields[key].(type) {
	case string:
		return value
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", value), "0"), ".")
	default:
		return ""
	}
}

// fromMultipart reads a multipart body. When the content type omits the
// boundary, which some courier gateways do, the boundary is recovered from
// the body's first line.
func fromMultipart(contentType string, body []byte) *Payload {
	boundary := ""
	if mediaType, params, err := mime.ParseMediaType(contentType); err == nil &&
		strings.HasPrefix(mediaType, "multipart/") {
		boundary = params["boundary"]
	}
	if boundary == "" {
		boundary = sniffBoundary(body)
	}
	if boundary == "" {
		return nil
	}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	fields := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}
		if name := part.FormName(); name != "" {
			value, _ := io.ReadAll(io.LimitReader(part, 1<<16))
			fields[name] = string(value)
		}
		_ = part.Close()
	}
	if len(fields) == 0 {
		return nil
	}
	return payloadFrom(func(key string) string { return fields[key] }, SourceMultipart)
}

func sniffBoundary(body []byte) string {
	trimmed := bytes.TrimLeft(body, "\r\n")
	if !bytes.HasPrefix(trimmed, []byte("--")) {
		return ""
	}
	line := trimmed
	if idx := bytes.IndexAny(trimmed, "\r\n"); idx >= 0 {
		line = trimmed[:idx]
	}
	boundary := strings.TrimPrefix(string(line), "--")
	if boundary == "" || strings.ContainsAny(boundary, " \"") {
		return ""
	}
	return boundary
}

func fromForm(body []byte) *Payload {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil
	}
	return payloadFrom(values.Get, SourceForm)
}

// fromWrappedJSON handles gateways that post a whole JSON document as the
// key of a single form pair, leaving the value empty.
func fromWrappedJSON(body []byte) *Payload {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil
	}
	for key, vals := range values {
		candidate := key
		if len(vals) > 0 && vals[0] != "" {
			candidate = key + "=" + vals[0]
		}
		if !strings.HasPrefix(strings.TrimSpace(candidate), "{") {
			continue
		}
		if payload := fromJSON([]byte(candidate)); payload != nil {
			payload.Source = SourceWrappedJSON
			return payload
		}
	}
	return nil
}

func fromQuery(query url.Values) *Payload {
	if query == nil {
		return nil
	}
	return payloadFrom(query.Get, SourceQuery)
}
