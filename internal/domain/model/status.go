package model

import (
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
)

// OrderStatus is the server-authoritative lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending             OrderStatus = "pending"
	OrderStatusAwaitingPayment     OrderStatus = "awaiting_payment"
	OrderStatusPaymentMade         OrderStatus = "payment_made"
	OrderStatusAwaitingCoinRelease OrderStatus = "awaiting_coin_release"
	OrderStatusCompleted           OrderStatus = "completed"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

// OrderStatuses lists the catalog in canonical progression order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAwaitingPayment,
	OrderStatusPaymentMade,
	OrderStatusAwaitingCoinRelease,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// ParseOrderStatus normalises a wire value into a catalog status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if normalized == "canceled" {
		normalized = string(OrderStatusCancelled)
	}
	status := OrderStatus(normalized)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", domainErrors.ErrUnknownStatus, raw)
	}
	return status, nil
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether s belongs to the catalog.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAwaitingPayment, OrderStatusPaymentMade,
		OrderStatusAwaitingCoinRelease, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition or polling is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Rank orders statuses along the canonical progression. Cancelled sits outside
// the progression and ranks -1.
func (s OrderStatus) Rank() int {
	switch s {
	case OrderStatusPending:
		return 0
	case OrderStatusAwaitingPayment:
		return 1
	case OrderStatusPaymentMade:
		return 2
	case OrderStatusAwaitingCoinRelease:
		return 3
	case OrderStatusCompleted:
		return 4
	}
	return -1
}

// CanTransitionTo reports whether the server may legitimately move from s to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !s.IsValid() || !target.IsValid() || s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return s == OrderStatusPending || s == OrderStatusAwaitingPayment
	}
	return target.Rank() > s.Rank()
}
