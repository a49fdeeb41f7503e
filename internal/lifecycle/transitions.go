package lifecycle

import (
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
)

type effect int

const (
	effectDeductStock effect = iota
	effectDispatchCourier
	effectRestock
	effectStampConfirmed
	effectStampShipped
	effectStampDelivered
	effectStampReturnCompleted
)

// edge is one legal move in the order lifecycle together with the side
// effects entering the target state triggers. Effects run inside the same
// store transaction as the status write, except the courier handshake which
// happens first and aborts the move when it fails.
type edge struct {
	from    []enums.OrderStatus
	to      enums.OrderStatus
	effects []effect
}

// courierStates are the statuses driven by courier webhooks once a parcel is
// in the courier network. Couriers report hops out of order, so moves within
// this set are all legal.
var courierStates = []enums.OrderStatus{
	enums.OrderStatusShipped,
	enums.OrderStatusTransfer,
	enums.OrderStatusDelivery,
	enums.OrderStatusReturnTransfer,
	enums.OrderStatusResidual,
	enums.OrderStatusRearrange,
	enums.OrderStatusReturned,
	enums.OrderStatusReturnAsOnSystem,
	enums.OrderStatusReturnHandover,
}

var confirmSources = []enums.OrderStatus{
	enums.OrderStatusOpenLead,
	enums.OrderStatusNoAnswer,
	enums.OrderStatusHold,
}

var returnSources = []enums.OrderStatus{
	enums.OrderStatusReturned,
	enums.OrderStatusReturnTransfer,
	enums.OrderStatusReturnAsOnSystem,
	enums.OrderStatusReturnHandover,
}

var transitions = buildTransitions()

func buildTransitions() []edge {
	edges := []edge{
		{from: []enums.OrderStatus{enums.OrderStatusPending}, to: enums.OrderStatusOpenLead},
		{from: []enums.OrderStatus{enums.OrderStatusOpenLead}, to: enums.OrderStatusNoAnswer},
		{from: []enums.OrderStatus{enums.OrderStatusOpenLead}, to: enums.OrderStatusRejected},
		{from: []enums.OrderStatus{enums.OrderStatusOpenLead}, to: enums.OrderStatusHold},
		{from: confirmSources, to: enums.OrderStatusConfirmed,
			effects: []effect{effectDeductStock, effectStampConfirmed}},
		{from: []enums.OrderStatus{enums.OrderStatusConfirmed}, to: enums.OrderStatusShipped,
			effects: []effect{effectDeductStock, effectDispatchCourier, effectStampShipped}},
		{from: courierStates, to: enums.OrderStatusDelivered,
			effects: []effect{effectStampDelivered}},
		{from: returnSources, to: enums.OrderStatusReturnCompleted,
			effects: []effect{effectRestock, effectStampReturnCompleted}},
	}

	// courier hop updates, including a regression to PENDING when the courier
	// reports the parcel as still waiting for pickup
	hopTargets := append([]enums.OrderStatus{enums.OrderStatusPending}, courierStates...)
	for _, target := range hopTargets {
		edges = append(edges, edge{from: courierStates, to: target})
	}
	return edges
}

// findEdge returns the first edge allowing from → to. Earlier entries win, so
// effect-carrying edges shadow the generic courier hop edges.
func findEdge(from, to enums.OrderStatus) (edge, bool) {
	for _, candidate := range transitions {
		if candidate.to != to {
			continue
		}
		for _, source := range candidate.from {
			if source == from {
				return candidate, true
			}
		}
	}
	return edge{}, false
}

func (e edge) hasEffect(target effect) bool {
	for _, candidate := range e.effects {
		if candidate == target {
			return true
		}
	}
	return false
}
