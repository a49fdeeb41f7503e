package reconcile

import (
	"strings"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
)

// statusRule maps a courier status phrase to a canonical status by substring.
// Rules are ordered: the first rule whose needles all appear in the lowered
// raw status wins, so the compound return rules sit above their fragments.
type statusRule struct {
	needles []string
	status  enums.OrderStatus
}

var statusRules = []statusRule{
	{needles: []string{"delivered"}, status: enums.OrderStatusDelivered},
	{needles: []string{"return", "transfer"}, status: enums.OrderStatusReturnTransfer},
	{needles: []string{"transfer"}, status: enums.OrderStatusTransfer},
	{needles: []string{"returned"}, status: enums.OrderStatusReturned},
	{needles: []string{"handover"}, status: enums.OrderStatusReturnHandover},
	{needles: []string{"system"}, status: enums.OrderStatusReturnAsOnSystem},
	{needles: []string{"delivery"}, status: enums.OrderStatusDelivery},
	{needles: []string{"residual"}, status: enums.OrderStatusResidual},
	{needles: []string{"rearrange"}, status: enums.OrderStatusRearrange},
	{needles: []string{"waiting"}, status: enums.OrderStatusPending},
}

// MapStatus translates a raw courier status phrase into a canonical order
// status. Anything unrecognized means the parcel is still moving, which maps
// to SHIPPED.
func MapStatus(raw string) enums.OrderStatus {
	lowered := strings.ToLower(raw)
	for _, rule := range statusRules {
		matched := true
		for _, needle := range rule.needles {
			if !strings.Contains(lowered, needle) {
				matched = false
				break
			}
		}
		if matched {
			return rule.status
		}
	}
	return enums.OrderStatusShipped
}
