package courier

import "fmt"

// reasonsByCode maps the courier's documented error codes to operator-facing
// reasons. Codes outside the table get a generic message with the raw code.
var reasonsByCode = map[int64]string{
	201: "Unknown Client",
	202: "Client Suspended",
	203: "Missing Required Field",
	204: "Invalid Parcel Weight",
	205: "Invalid COD Amount",
	206: "Invalid Recipient Contact",
	207: "Invalid Recipient Address",
	208: "Invalid Recipient City",
	209: "Duplicate Order Reference",
	210: "Waybill Not Found",
	211: "Invalid API Key",
	212: "Waybill Already Activated",
	213: "Coverage Area Not Served",
	214: "Courier Under Maintenance",
}

func reasonForCode(code int64) string {
	if reason, ok := reasonsByCode[code]; ok {
		return reason
	}
	return fmt.Sprintf("rejected with code %d", code)
}
