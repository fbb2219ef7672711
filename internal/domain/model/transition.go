package model

import "time"

// Transition is a status change observed while reconciling an order.
type Transition struct {
	OrderID    string
	From       OrderStatus
	To         OrderStatus
	ObservedAt time.Time
}
