package lifecycle

import (
	"fmt"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

// Actions returns the permitted action set for (status, caps). Review is not
// part of the gate; the projection adds it for completed orders.
func Actions(status model.OrderStatus, caps model.Capabilities) model.ActionSet {
	role := caps.Effective()
	switch status {
	case model.OrderStatusPending:
		if role == model.RoleVendor {
			return model.ActionSet{model.ActionAccept, model.ActionDecline}
		}
		return model.ActionSet{model.ActionCancel}
	case model.OrderStatusAwaitingPayment:
		switch role {
		case model.RoleBuyer:
			return model.ActionSet{model.ActionMarkPaymentMade, model.ActionCancel}
		case model.RoleSeller:
			return model.ActionSet{model.ActionCancel}
		}
		return model.ActionSet{}
	case model.OrderStatusPaymentMade:
		if role == model.RoleSeller {
			return model.ActionSet{model.ActionMarkPaymentReceived}
		}
		return model.ActionSet{}
	case model.OrderStatusAwaitingCoinRelease, model.OrderStatusCompleted:
		return model.ActionSet{model.ActionAppeal}
	}
	return model.ActionSet{}
}

// Permit returns ErrActionNotPermitted unless action is in the gate for (status, caps).
func Permit(status model.OrderStatus, caps model.Capabilities, action model.Action) error {
	if Actions(status, caps).Contains(action) {
		return nil
	}
	return fmt.Errorf("%s while %s as %s: %w", action, status, caps.Effective(), domainErrors.ErrActionNotPermitted)
}

// CancelPartyFor routes ad owners, trading or not, through the vendor endpoint
// and every other participant through the buyer endpoint.
func CancelPartyFor(caps model.Capabilities) model.CancelParty {
	if caps.OwnsAd || caps.IsVendor {
		return model.CancelAsVendor
	}
	return model.CancelAsBuyer
}
