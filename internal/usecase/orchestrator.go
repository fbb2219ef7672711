package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/polkiloo/p2pdesk/internal/adapter/exchange"
	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/lifecycle"
	"github.com/polkiloo/p2pdesk/internal/notify"
)

// OrderView is the live projection a mutation is evaluated against.
type OrderView interface {
	OrderID() string
	Viewer() model.Viewer
	Snapshot() (lifecycle.Projection, error)
	Refresh(ctx context.Context) (lifecycle.Projection, error)
	SetBusy(action model.Action)
	ClearBusy()
}

// ActionRequest is a viewer's request to perform an action on an order.
type ActionRequest struct {
	Action    model.Action
	Proof     string
	Confirmed *bool
}

// Orchestrator runs mutations against the exchange: it gates them on the
// current projection, allows one in flight per order and reconciles afterwards.
type Orchestrator struct {
	client exchange.Client
	sink   notify.Sink
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[string]model.Action
}

// NewOrchestrator constructs Orchestrator.
func NewOrchestrator(client exchange.Client, sink notify.Sink, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		client:   client,
		sink:     sink,
		logger:   logger,
		inflight: make(map[string]model.Action),
	}
}

// Invoke performs req on behalf of the view's viewer and returns the
// projection reconciled after the mutation.
func (o *Orchestrator) Invoke(ctx context.Context, view OrderView, req ActionRequest) (lifecycle.Projection, error) {
	if err := ValidateActionRequest(req); err != nil {
		return lifecycle.Projection{}, err
	}

	proj, err := view.Snapshot()
	if err != nil {
		return lifecycle.Projection{}, err
	}
	if !proj.Allows(req.Action) {
		if proj.Busy != "" {
			return lifecycle.Projection{}, domainErrors.ErrActionInFlight
		}
		return lifecycle.Projection{}, lifecycle.Permit(proj.Order.Status, proj.Capabilities, req.Action)
	}

	orderID := view.OrderID()
	viewer := view.Viewer()

	// Appeal is the only non-mutating action that reaches here; it never
	// touches the exchange.
	if !req.Action.IsMutating() {
		o.sink.Notify(ctx, notify.New(orderID, viewer.ID, notify.KindAppeal,
			"Appeal requested. Support will review this order and contact you."))
		return proj, nil
	}
	if req.Action == model.ActionMarkPaymentMade {
		if err := ValidatePaymentLeg(proj.Order); err != nil {
			return lifecycle.Projection{}, err
		}
	}

	if !o.acquire(orderID, req.Action) {
		return lifecycle.Projection{}, domainErrors.ErrActionInFlight
	}
	defer o.release(orderID)

	view.SetBusy(req.Action)
	defer view.ClearBusy()

	log := o.logger.With(
		slog.String("order", orderID),
		slog.String("viewer", viewer.ID),
		slog.String("action", string(req.Action)),
	)

	if err := o.dispatch(exchange.WithCredential(ctx, viewer.Credential), orderID, proj, req); err != nil {
		log.Warn("order action failed", slog.String("error", err.Error()))
		o.sink.Notify(ctx, failureNotice(orderID, viewer.ID, req.Action, err))
		if domainErrors.IsRecoverable(err) {
			if _, rerr := view.Refresh(ctx); rerr != nil {
				log.Warn("reconcile after failure", slog.String("error", rerr.Error()))
			}
		}
		return lifecycle.Projection{}, fmt.Errorf("%s order %s: %w", req.Action, orderID, err)
	}
	log.Info("order action accepted")

	fresh, err := view.Refresh(ctx)
	if err != nil {
		log.Warn("reconcile after action", slog.String("error", err.Error()))
		return view.Snapshot()
	}
	fresh.Busy = ""
	return fresh, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, orderID string, proj lifecycle.Projection, req ActionRequest) error {
	switch req.Action {
	case model.ActionAccept:
		return o.client.AcceptOrder(ctx, orderID)
	case model.ActionDecline:
		return o.client.DeclineOrder(ctx, orderID)
	case model.ActionCancel:
		return o.client.CancelOrder(ctx, orderID, lifecycle.CancelPartyFor(proj.Capabilities))
	case model.ActionMarkPaymentMade:
		return o.client.MarkPaymentMade(ctx, orderID, req.Proof)
	case model.ActionMarkPaymentReceived:
		confirmed := true
		if req.Confirmed != nil {
			confirmed = *req.Confirmed
		}
		return o.client.MarkPaymentReceived(ctx, orderID, confirmed)
	default:
		return &domainErrors.ValidationError{Field: "action", Reason: "not dispatchable"}
	}
}

func (o *Orchestrator) acquire(orderID string, action model.Action) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[orderID]; busy {
		return false
	}
	o.inflight[orderID] = action
	return true
}

func (o *Orchestrator) release(orderID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, orderID)
}

func failureNotice(orderID, viewerID string, action model.Action, err error) notify.Notice {
	verb := strings.ReplaceAll(string(action), "_", " ")

	var (
		authErr     *domainErrors.AuthError
		conflictErr *domainErrors.ConflictError
		networkErr  *domainErrors.NetworkError
	)
	switch {
	case errors.As(err, &authErr):
		return notify.New(orderID, viewerID, notify.KindAuth, "Exchange session expired, sign in again.")
	case errors.As(err, &conflictErr):
		msg := fmt.Sprintf("Could not %s: the order changed.", verb)
		if conflictErr.Reason != "" {
			msg = fmt.Sprintf("Could not %s: %s.", verb, strings.TrimSuffix(conflictErr.Reason, "."))
		}
		return notify.New(orderID, viewerID, notify.KindAlert, msg)
	case errors.As(err, &networkErr):
		return notify.New(orderID, viewerID, notify.KindAlert,
			fmt.Sprintf("Could not %s. Check your connection and try again.", verb))
	default:
		return notify.New(orderID, viewerID, notify.KindAlert, fmt.Sprintf("Could not %s.", verb))
	}
}
