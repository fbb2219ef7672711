package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

func TestProjectCompletedOffersReviewOnce(t *testing.T) {
	order := baseOrder()
	order.Status = model.OrderStatusCompleted

	p, err := Project(order, "seller-1", false)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, p.Role)
	assert.Equal(t, 4, p.Step.Index)
	assert.True(t, p.Allows(model.ActionReview))
	assert.True(t, p.Terminal())

	p, err = Project(order, "seller-1", true)
	require.NoError(t, err)
	assert.False(t, p.Allows(model.ActionReview))
	assert.Equal(t, model.ActionSet{model.ActionAppeal}, p.Actions)
}

func TestProjectionBusyWithholdsActions(t *testing.T) {
	order := baseOrder()
	order.Status = model.OrderStatusAwaitingPayment

	p, err := Project(order, "buyer-1", false)
	require.NoError(t, err)
	assert.True(t, p.Allows(model.ActionCancel))

	busy := p.WithBusy(model.ActionCancel)
	assert.False(t, busy.Allows(model.ActionCancel))
	assert.False(t, busy.Allows(model.ActionMarkPaymentMade))
	assert.True(t, p.Allows(model.ActionCancel), "original projection must stay untouched")
}

func TestProjectUnknownStatus(t *testing.T) {
	order := baseOrder()
	order.Status = "disputed"
	_, err := Project(order, "buyer-1", false)
	assert.Error(t, err)
}
