// Package lifecycle derives what a viewer sees and may do with a P2P order.
// Everything here is a pure function of its inputs.
package lifecycle

import "github.com/polkiloo/p2pdesk/internal/domain/model"

// RoleStrategy inspects an order and reports trading capabilities for the
// viewer. ok is false when the strategy cannot decide.
type RoleStrategy func(order *model.Order, viewerID string) (caps model.Capabilities, ok bool)

// roleChain is evaluated in order; the first strategy that decides wins.
var roleChain = []RoleStrategy{
	serverFlags,
	participantIDs,
	userActionFallback,
}

// ResolveRole derives the viewer's capability record for order.
func ResolveRole(order *model.Order, viewerID string) model.Capabilities {
	var caps model.Capabilities
	if order == nil {
		return model.Capabilities{IsVendor: true}
	}
	for _, strategy := range roleChain {
		if resolved, ok := strategy(order, viewerID); ok {
			caps = resolved
			break
		}
	}

	caps.OwnsAd = viewerID != "" && viewerID == order.VendorID()
	// The trading role takes precedence; the vendor capability is also the
	// last-resort default so a viewer always ends up with one.
	caps.IsVendor = !caps.Trading()
	return caps
}

func serverFlags(order *model.Order, _ string) (model.Capabilities, bool) {
	if order.ViewerIsBuyer == nil && order.ViewerIsSeller == nil {
		return model.Capabilities{}, false
	}
	var caps model.Capabilities
	if order.ViewerIsBuyer != nil {
		caps.IsBuyer = *order.ViewerIsBuyer
	}
	if order.ViewerIsSeller != nil {
		caps.IsSeller = *order.ViewerIsSeller
	}
	return caps, true
}

func participantIDs(order *model.Order, viewerID string) (model.Capabilities, bool) {
	if viewerID == "" {
		return model.Capabilities{}, false
	}
	caps := model.Capabilities{
		IsBuyer:  viewerID == order.BuyerID(),
		IsSeller: viewerID == order.SellerID(),
	}
	return caps, caps.Trading()
}

// userActionFallback is only consulted for viewers not identified as the
// vendor; an ad owner acting as intermediary must not pick up a trading role
// from the action string.
func userActionFallback(order *model.Order, viewerID string) (model.Capabilities, bool) {
	if viewerID != "" && viewerID == order.VendorID() {
		return model.Capabilities{}, false
	}
	switch order.UserAction {
	case model.SideBuy:
		return model.Capabilities{IsBuyer: true}, true
	case model.SideSell:
		return model.Capabilities{IsSeller: true}, true
	}
	return model.Capabilities{}, false
}
