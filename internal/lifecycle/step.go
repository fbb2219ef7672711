package lifecycle

import (
	"fmt"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

const (
	labelOrderReceived    = "Order Received"
	labelOrderPlaced      = "Order Placed"
	labelAwaitingPayment  = "Awaiting Payment"
	labelConfirmToRelease = "Payment Made – Confirm to Release"
	labelAwaitingRelease  = "Awaiting Coin Release"
	labelOrderCompleted   = "Order Completed"
	labelOrderCancelled   = "Order Cancelled"
)

const stepCount = 4

type stepRow struct {
	index  int
	vendor string
	buyer  string
	seller string
}

var stepTable = map[model.OrderStatus]stepRow{
	model.OrderStatusPending:             {1, labelOrderReceived, labelOrderPlaced, labelOrderPlaced},
	model.OrderStatusAwaitingPayment:     {2, labelAwaitingPayment, labelAwaitingPayment, labelAwaitingPayment},
	model.OrderStatusPaymentMade:         {3, labelConfirmToRelease, labelAwaitingRelease, labelConfirmToRelease},
	model.OrderStatusAwaitingCoinRelease: {3, labelAwaitingRelease, labelAwaitingRelease, labelAwaitingRelease},
	model.OrderStatusCompleted:           {4, labelOrderCompleted, labelOrderCompleted, labelOrderCompleted},
	model.OrderStatusCancelled:           {1, labelOrderCancelled, labelOrderCancelled, labelOrderCancelled},
}

// StepCount is the number of phases on the progress bar.
func StepCount() int { return stepCount }

// MapStep converts a status into the progress step shown to a viewer with caps.
func MapStep(status model.OrderStatus, caps model.Capabilities) (model.Step, error) {
	row, ok := stepTable[status]
	if !ok {
		return model.Step{}, fmt.Errorf("map step: %w: %q", domainErrors.ErrUnknownStatus, status)
	}

	step := model.Step{Index: row.index}
	switch caps.Effective() {
	case model.RoleBuyer:
		step.Label = row.buyer
	case model.RoleSeller:
		step.Label = row.seller
	default:
		step.Label = row.vendor
	}
	return step, nil
}
