package model

import "slices"

// Action is something a viewer may ask the desk to do with an order.
type Action string

const (
	ActionAccept              Action = "accept"
	ActionDecline             Action = "decline"
	ActionCancel              Action = "cancel"
	ActionMarkPaymentMade     Action = "mark_payment_made"
	ActionMarkPaymentReceived Action = "mark_payment_received"
	ActionAppeal              Action = "appeal"
	ActionReview              Action = "review"
)

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	switch a {
	case ActionAccept, ActionDecline, ActionCancel, ActionMarkPaymentMade,
		ActionMarkPaymentReceived, ActionAppeal, ActionReview:
		return true
	}
	return false
}

// IsMutating reports whether a changes server-side order status.
func (a Action) IsMutating() bool {
	switch a {
	case ActionAccept, ActionDecline, ActionCancel, ActionMarkPaymentMade, ActionMarkPaymentReceived:
		return true
	}
	return false
}

// ActionSet is an ordered, duplicate-free list of actions.
type ActionSet []Action

// Contains reports whether a is in the set.
func (s ActionSet) Contains(a Action) bool {
	return slices.Contains(s, a)
}

// With returns a copy of s extended with a unless already present.
func (s ActionSet) With(a Action) ActionSet {
	if s.Contains(a) {
		return s
	}
	out := make(ActionSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, a)
}

// Strings renders the set for transport.
func (s ActionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, a := range s {
		out = append(out, string(a))
	}
	return out
}
