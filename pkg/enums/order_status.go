package enums

import "fmt"

// OrderStatus is the canonical lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusOpenLead         OrderStatus = "OPEN_LEAD"
	OrderStatusNoAnswer         OrderStatus = "NO_ANSWER"
	OrderStatusRejected         OrderStatus = "REJECTED"
	OrderStatusHold             OrderStatus = "HOLD"
	OrderStatusConfirmed        OrderStatus = "CONFIRMED"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusTransfer         OrderStatus = "TRANSFER"
	OrderStatusDelivery         OrderStatus = "DELIVERY"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusReturned         OrderStatus = "RETURNED"
	OrderStatusReturnTransfer   OrderStatus = "RETURN_TRANSFER"
	OrderStatusReturnAsOnSystem OrderStatus = "RETURN_AS_ON_SYSTEM"
	OrderStatusReturnHandover   OrderStatus = "RETURN_HANDOVER"
	OrderStatusReturnCompleted  OrderStatus = "RETURN_COMPLETED"
	OrderStatusResidual         OrderStatus = "RESIDUAL"
	OrderStatusRearrange        OrderStatus = "REARRANGE"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusOpenLead,
	OrderStatusNoAnswer,
	OrderStatusRejected,
	OrderStatusHold,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusTransfer,
	OrderStatusDelivery,
	OrderStatusDelivered,
	OrderStatusReturned,
	OrderStatusReturnTransfer,
	OrderStatusReturnAsOnSystem,
	OrderStatusReturnHandover,
	OrderStatusReturnCompleted,
	OrderStatusResidual,
	OrderStatusRearrange,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the lifecycle for dispatch purposes.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusReturnCompleted
}

// IsReturnLike reports whether the status represents a return flow state.
// Used by the customer-history fraud signal.
func (o OrderStatus) IsReturnLike() bool {
	switch o {
	case OrderStatusReturned,
		OrderStatusReturnTransfer,
		OrderStatusReturnAsOnSystem,
		OrderStatusReturnHandover,
		OrderStatusReturnCompleted:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
