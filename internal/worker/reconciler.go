package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

// OrderFetcher loads the authoritative state of one order.
type OrderFetcher interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
}

// Target receives reconciled orders and polling failures.
type Target interface {
	Apply(order *model.Order)
	FetchFailed(err error)
}

// Reconciler periodically refetches a single order until it reaches a terminal
// status, handing every fresh state to its target.
type Reconciler struct {
	orderID  string
	fetcher  OrderFetcher
	target   Target
	interval time.Duration
	logger   *slog.Logger

	group    singleflight.Group
	reset    chan struct{}
	last     atomic.Pointer[model.Order]
	terminal atomic.Bool
	fetches  atomic.Int64

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs a reconciler for orderID.
func NewReconciler(orderID string, fetcher OrderFetcher, target Target, interval time.Duration, logger *slog.Logger) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Reconciler{
		orderID:  orderID,
		fetcher:  fetcher,
		target:   target,
		interval: interval,
		logger:   logger.With(slog.String("order", orderID)),
		reset:    make(chan struct{}, 1),
	}
}

// Start launches background polling. Calling Start twice is a no-op.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(runCtx)
}

// Stop cancels polling and waits for the loop to exit.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// Refresh fetches immediately and pushes the next scheduled tick a full
// interval away. It never settles for a fetch that left before the call;
// concurrent callers share the next one.
func (r *Reconciler) Refresh(ctx context.Context) (*model.Order, error) {
	order, err := r.refresh(ctx, true)
	select {
	case r.reset <- struct{}{}:
	default:
	}
	return order, err
}

// Terminal reports whether polling has been retired for good.
func (r *Reconciler) Terminal() bool {
	return r.terminal.Load()
}

// Fetches returns how many network fetches were issued.
func (r *Reconciler) Fetches() int64 {
	return r.fetches.Load()
}

func (r *Reconciler) run(ctx context.Context) {
	defer r.wg.Done()
	if r.terminal.Load() {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.reset:
			if r.terminal.Load() {
				r.logger.Debug("order reached terminal status, polling stopped")
				return
			}
			ticker.Reset(r.interval)
		case <-ticker.C:
			if _, err := r.refresh(ctx, false); err != nil {
				if ctx.Err() != nil {
					return
				}
				r.logger.Warn("order refetch failed", slog.String("error", err.Error()))
				r.target.FetchFailed(err)
			}
			if r.terminal.Load() {
				r.logger.Debug("order reached terminal status, polling stopped")
				return
			}
		}
	}
}

// flight is the outcome of one network fetch; seq orders flights by start.
type flight struct {
	order *model.Order
	seq   int64
}

// refresh joins the fetch in flight or starts one. With fresh set, a joined
// flight that started before the call is waited out and a new one is issued.
func (r *Reconciler) refresh(ctx context.Context, fresh bool) (*model.Order, error) {
	seen := r.fetches.Load()
	for {
		if r.terminal.Load() {
			return r.last.Load(), nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err, _ := r.group.Do(r.orderID, func() (any, error) {
			return r.fetchAndApply(ctx)
		})
		f, _ := v.(flight)
		if fresh && f.seq <= seen {
			continue
		}
		if err != nil {
			return nil, err
		}
		return f.order, nil
	}
}

// fetchAndApply runs inside the flight so each fetched order reaches the
// target exactly once and in flight order.
func (r *Reconciler) fetchAndApply(ctx context.Context) (flight, error) {
	f := flight{seq: r.fetches.Add(1)}
	order, err := r.fetcher.GetOrder(ctx, r.orderID)
	if err != nil {
		return f, err
	}
	if order == nil {
		return f, errors.New("reconcile: empty order")
	}
	if err := ctx.Err(); err != nil {
		return f, err
	}

	r.last.Store(order)
	if order.Status.IsTerminal() {
		r.terminal.Store(true)
	}
	r.target.Apply(order)
	f.order = order
	return f, nil
}
