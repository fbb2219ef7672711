package desk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/notify"
	testhelpers "github.com/polkiloo/p2pdesk/internal/test"
)

func TestRegistrySharesSessionPerViewer(t *testing.T) {
	f := newFixture(t, scriptedExchange(model.OrderStatusPending), time.Hour)
	viewer := model.Viewer{ID: testhelpers.BuyerID}

	first, releaseFirst, err := f.registry.Acquire(context.Background(), "o-1", viewer)
	require.NoError(t, err)
	second, releaseSecond, err := f.registry.Acquire(context.Background(), "o-1", viewer)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.exchange.Gets(), "shared session does not refetch on acquire")
	assert.Equal(t, 1, f.registry.Len())

	other, releaseOther, err := f.registry.Acquire(context.Background(), "o-1", model.Viewer{ID: testhelpers.SellerID})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, f.registry.Len())

	releaseFirst()
	releaseFirst()
	assert.Equal(t, 2, f.registry.Len())
	releaseSecond()
	releaseOther()
	assert.Equal(t, 0, f.registry.Len())

	_, err = first.Snapshot()
	assert.ErrorIs(t, err, domainErrors.ErrSessionClosed)
}

func TestRegistryConcurrentAcquireOpensOnce(t *testing.T) {
	gate := make(chan struct{})
	ex := &testhelpers.ExchangeStub{GetOrderFn: func(ctx context.Context, id string) (*model.Order, error) {
		<-gate
		return testhelpers.NewOrder(id, model.OrderStatusPending), nil
	}}
	f := newFixture(t, ex, time.Hour)

	var wg sync.WaitGroup
	sessions := make([]*Session, 4)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, release, err := f.registry.Acquire(context.Background(), "o-2", model.Viewer{ID: "v"})
			if err == nil {
				sessions[i] = s
				defer release()
			}
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, ex.Gets())
	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
}

func TestRegistryOpenFailureIsNotCached(t *testing.T) {
	boom := errors.New("unreachable")
	fail := true
	ex := &testhelpers.ExchangeStub{GetOrderFn: func(ctx context.Context, id string) (*model.Order, error) {
		if fail {
			return nil, boom
		}
		return testhelpers.NewOrder(id, model.OrderStatusPending), nil
	}}
	f := newFixture(t, ex, time.Hour)

	_, _, err := f.registry.Acquire(context.Background(), "o-3", model.Viewer{ID: "v"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.registry.Len())

	fail = false
	_, release, err := f.registry.Acquire(context.Background(), "o-3", model.Viewer{ID: "v"})
	require.NoError(t, err)
	release()
}

func TestRegistryNotifyRoutesByOrderAndViewer(t *testing.T) {
	f := newFixture(t, scriptedExchange(model.OrderStatusPending), time.Hour)

	buyer, releaseBuyer, err := f.registry.Acquire(context.Background(), "o-4", model.Viewer{ID: testhelpers.BuyerID})
	require.NoError(t, err)
	defer releaseBuyer()
	seller, releaseSeller, err := f.registry.Acquire(context.Background(), "o-4", model.Viewer{ID: testhelpers.SellerID})
	require.NoError(t, err)
	defer releaseSeller()

	buyerEvents, stopBuyer := buyer.Subscribe()
	defer stopBuyer()
	sellerEvents, stopSeller := seller.Subscribe()
	defer stopSeller()
	<-buyerEvents
	<-sellerEvents

	f.registry.Notify(context.Background(), notify.New("o-4", testhelpers.BuyerID, notify.KindAlert, "cancel failed"))
	ev := <-buyerEvents
	require.NotNil(t, ev.Notice)
	assert.Equal(t, "cancel failed", ev.Notice.Message)
	select {
	case ev := <-sellerEvents:
		t.Fatalf("seller received %+v", ev)
	default:
	}

	f.registry.Notify(context.Background(), notify.New("o-4", "", notify.KindAppeal, "appeal opened"))
	assert.NotNil(t, (<-buyerEvents).Notice)
	assert.NotNil(t, (<-sellerEvents).Notice)
}

func TestRegistryCloseRefusesNewSessions(t *testing.T) {
	f := newFixture(t, scriptedExchange(model.OrderStatusPending), time.Hour)
	s, _, err := f.registry.Acquire(context.Background(), "o-5", model.Viewer{ID: "v"})
	require.NoError(t, err)

	require.NoError(t, f.registry.Close())
	_, err = s.Snapshot()
	assert.ErrorIs(t, err, domainErrors.ErrSessionClosed)

	_, _, err = f.registry.Acquire(context.Background(), "o-5", model.Viewer{ID: "v"})
	assert.ErrorIs(t, err, domainErrors.ErrSessionClosed)
}

func TestRegistryJournalsStatusChangeOncePerOrder(t *testing.T) {
	var status sync.Map
	status.Store("o-9", model.OrderStatusAwaitingPayment)
	ex := &testhelpers.ExchangeStub{GetOrderFn: func(ctx context.Context, id string) (*model.Order, error) {
		v, _ := status.Load(id)
		return testhelpers.NewOrder(id, v.(model.OrderStatus)), nil
	}}
	f := newFixture(t, ex, time.Hour)

	buyer, releaseBuyer, err := f.registry.Acquire(context.Background(), "o-9", model.Viewer{ID: testhelpers.BuyerID})
	require.NoError(t, err)
	seller, releaseSeller, err := f.registry.Acquire(context.Background(), "o-9", model.Viewer{ID: testhelpers.SellerID})
	require.NoError(t, err)

	status.Store("o-9", model.OrderStatusPaymentMade)
	_, err = buyer.Refresh(context.Background())
	require.NoError(t, err)
	_, err = seller.Refresh(context.Background())
	require.NoError(t, err)

	transitions := f.transitions.Snapshot()
	require.Len(t, transitions, 1)
	assert.Equal(t, model.OrderStatusAwaitingPayment, transitions[0].From)
	assert.Equal(t, model.OrderStatusPaymentMade, transitions[0].To)

	releaseBuyer()
	releaseSeller()

	// A later session on the same order journals the next change.
	reopened, release, err := f.registry.Acquire(context.Background(), "o-9", model.Viewer{ID: testhelpers.BuyerID})
	require.NoError(t, err)
	defer release()
	status.Store("o-9", model.OrderStatusCompleted)
	_, err = reopened.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.transitions.Snapshot(), 2)
}

func TestRegistryJournalRetriesAfterAppendFailure(t *testing.T) {
	var status sync.Map
	status.Store("o-10", model.OrderStatusPending)
	ex := &testhelpers.ExchangeStub{GetOrderFn: func(ctx context.Context, id string) (*model.Order, error) {
		v, _ := status.Load(id)
		return testhelpers.NewOrder(id, v.(model.OrderStatus)), nil
	}}
	f := newFixture(t, ex, time.Hour)

	var (
		mu       sync.Mutex
		attempts int
		stored   []model.Transition
	)
	f.transitions.AppendFn = func(_ context.Context, tr model.Transition) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return errors.New("db down")
		}
		stored = append(stored, tr)
		return nil
	}

	buyer, releaseBuyer, err := f.registry.Acquire(context.Background(), "o-10", model.Viewer{ID: testhelpers.BuyerID})
	require.NoError(t, err)
	defer releaseBuyer()
	seller, releaseSeller, err := f.registry.Acquire(context.Background(), "o-10", model.Viewer{ID: testhelpers.SellerID})
	require.NoError(t, err)
	defer releaseSeller()

	status.Store("o-10", model.OrderStatusAwaitingPayment)
	_, err = buyer.Refresh(context.Background())
	require.NoError(t, err)
	_, err = seller.Refresh(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, attempts)
	assert.Len(t, stored, 1, "a failed append does not block the next observer")
}
