package desk

import (
	"context"
	"sync"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/domain/repository"
)

type statusChange struct {
	from model.OrderStatus
	to   model.OrderStatus
}

// orderJournal records each status change of an order once, however many
// viewer sessions observe it.
type orderJournal struct {
	repo repository.TransitionRepository

	mu   sync.Mutex
	seen map[string]map[statusChange]struct{}
}

func newOrderJournal(repo repository.TransitionRepository) *orderJournal {
	return &orderJournal{repo: repo, seen: make(map[string]map[statusChange]struct{})}
}

func (j *orderJournal) Append(ctx context.Context, t model.Transition) error {
	change := statusChange{from: t.From, to: t.To}

	j.mu.Lock()
	changes, ok := j.seen[t.OrderID]
	if !ok {
		changes = make(map[statusChange]struct{})
		j.seen[t.OrderID] = changes
	}
	if _, dup := changes[change]; dup {
		j.mu.Unlock()
		return nil
	}
	changes[change] = struct{}{}
	j.mu.Unlock()

	if err := j.repo.Append(ctx, t); err != nil {
		j.mu.Lock()
		delete(changes, change)
		j.mu.Unlock()
		return err
	}
	return nil
}

func (j *orderJournal) ListByOrder(ctx context.Context, orderID string) ([]model.Transition, error) {
	return j.repo.ListByOrder(ctx, orderID)
}

// forget drops the dedupe state once no session follows the order.
func (j *orderJournal) forget(orderID string) {
	j.mu.Lock()
	delete(j.seen, orderID)
	j.mu.Unlock()
}
