package test

import (
	"context"
	"sync"

	"github.com/polkiloo/p2pdesk/internal/notify"
)

// NoticeRecorder collects notices in memory.
type NoticeRecorder struct {
	mu      sync.Mutex
	notices []notify.Notice
}

// Notify stores the notice.
func (r *NoticeRecorder) Notify(_ context.Context, n notify.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices.
func (r *NoticeRecorder) Notices() []notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notice(nil), r.notices...)
}

// Kinds lists the kinds of recorded notices in order.
func (r *NoticeRecorder) Kinds() []notify.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]notify.Kind, 0, len(r.notices))
	for _, n := range r.notices {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}
