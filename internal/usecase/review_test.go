package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/p2pdesk/internal/test"
)

func TestReviewSubmitRecordsLedger(t *testing.T) {
	ex := &testhelpers.ExchangeStub{}
	reviews := &testhelpers.ReviewRepositoryStub{}
	uc := NewReviewUseCase(ex, reviews, discardLogger())
	view := newView(t, testhelpers.NewOrder("o-1", model.OrderStatusCompleted), testhelpers.BuyerID)

	proj, err := uc.Submit(context.Background(), view, model.ReviewPositive, "fast release")
	require.NoError(t, err)

	assert.True(t, proj.Reviewed)
	assert.False(t, proj.Actions.Contains(model.ActionReview))
	assert.Equal(t, []testhelpers.ExchangeCall{{Method: "review", OrderID: "o-1", Review: model.ReviewPositive, Comment: "fast release"}}, ex.Calls())
	require.Len(t, reviews.Reviews, 1)
	assert.Equal(t, testhelpers.BuyerID, reviews.Reviews[0].ViewerID)
}

func TestReviewSubmitRequiresCompletedOrder(t *testing.T) {
	ex := &testhelpers.ExchangeStub{}
	uc := NewReviewUseCase(ex, &testhelpers.ReviewRepositoryStub{}, discardLogger())
	view := newView(t, testhelpers.NewOrder("o-2", model.OrderStatusAwaitingCoinRelease), testhelpers.BuyerID)

	_, err := uc.Submit(context.Background(), view, model.ReviewNegative, "")
	assert.ErrorIs(t, err, domainErrors.ErrReviewUnavailable)
	assert.Empty(t, ex.Calls())
}

func TestReviewSubmitOnlyOnce(t *testing.T) {
	ex := &testhelpers.ExchangeStub{}
	reviews := &testhelpers.ReviewRepositoryStub{Reviews: []model.Review{{OrderID: "o-3", ViewerID: testhelpers.SellerID}}}
	uc := NewReviewUseCase(ex, reviews, discardLogger())
	view := newView(t, testhelpers.NewOrder("o-3", model.OrderStatusCompleted), testhelpers.SellerID)

	_, err := uc.Submit(context.Background(), view, model.ReviewPositive, "")
	assert.ErrorIs(t, err, domainErrors.ErrReviewUnavailable)
	assert.Empty(t, ex.Calls())

	proj, _ := view.Snapshot()
	assert.True(t, proj.Reviewed)
}

func TestReviewSubmitValidatesPayload(t *testing.T) {
	uc := NewReviewUseCase(&testhelpers.ExchangeStub{}, &testhelpers.ReviewRepositoryStub{}, discardLogger())
	view := newView(t, testhelpers.NewOrder("o-4", model.OrderStatusCompleted), testhelpers.BuyerID)

	var validation *domainErrors.ValidationError
	_, err := uc.Submit(context.Background(), view, "meh", "")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "type", validation.Field)

	_, err = uc.Submit(context.Background(), view, model.ReviewPositive, strings.Repeat("я", 501))
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "comment", validation.Field)
}

func TestReviewSubmitUpstreamFailureKeepsReviewOpen(t *testing.T) {
	boom := errors.New("upstream down")
	ex := &testhelpers.ExchangeStub{SubmitReviewFn: func(context.Context, string, model.ReviewType, string) error { return boom }}
	reviews := &testhelpers.ReviewRepositoryStub{}
	uc := NewReviewUseCase(ex, reviews, discardLogger())
	view := newView(t, testhelpers.NewOrder("o-5", model.OrderStatusCompleted), testhelpers.BuyerID)

	_, err := uc.Submit(context.Background(), view, model.ReviewPositive, "")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, reviews.Reviews)

	proj, _ := view.Snapshot()
	assert.True(t, proj.Actions.Contains(model.ActionReview))
}
