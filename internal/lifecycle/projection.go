package lifecycle

import "github.com/polkiloo/p2pdesk/internal/domain/model"

// Projection is everything a screen needs to render an order for one viewer.
type Projection struct {
	Order        model.Order
	ViewerID     string
	Capabilities model.Capabilities
	Role         model.Role
	Step         model.Step
	Actions      model.ActionSet
	// Busy names the action currently in flight; while set no action is offered.
	Busy     model.Action
	Reviewed bool
}

// Terminal reports whether the projected order can no longer change.
func (p Projection) Terminal() bool {
	return p.Order.Status.IsTerminal()
}

// Allows reports whether action is currently offered.
func (p Projection) Allows(action model.Action) bool {
	return p.Busy == "" && p.Actions.Contains(action)
}

// WithBusy returns a copy with action marked as in flight and actions withheld.
func (p Projection) WithBusy(action model.Action) Projection {
	p.Busy = action
	return p
}

// Project derives the viewer's projection from a freshly fetched order.
func Project(order model.Order, viewerID string, reviewed bool) (Projection, error) {
	caps := ResolveRole(&order, viewerID)
	step, err := MapStep(order.Status, caps)
	if err != nil {
		return Projection{}, err
	}

	actions := Actions(order.Status, caps)
	if order.Status == model.OrderStatusCompleted && !reviewed {
		actions = actions.With(model.ActionReview)
	}

	return Projection{
		Order:        order,
		ViewerID:     viewerID,
		Capabilities: caps,
		Role:         caps.Effective(),
		Step:         step,
		Actions:      actions,
		Reviewed:     reviewed,
	}, nil
}
