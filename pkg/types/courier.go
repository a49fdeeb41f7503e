package types

// CourierSettings holds a tenant's courier credentials, stored as JSON on the
// tenant row. Read-only input for the dispatch client.
type CourierSettings struct {
	APIKey   string `json:"api_key"`
	ClientID string `json:"client_id"`
	Mode     string `json:"mode"`
	APIURL   string `json:"api_url"`
}
