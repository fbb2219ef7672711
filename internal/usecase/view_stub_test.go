package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polkiloo/p2pdesk/internal/domain/model"
	"github.com/polkiloo/p2pdesk/internal/lifecycle"
)

type viewStub struct {
	mu        sync.Mutex
	viewer    model.Viewer
	proj      lifecycle.Projection
	next      *model.Order
	refreshes int
	busyLog   []model.Action
}

func newView(t *testing.T, order *model.Order, viewerID string) *viewStub {
	t.Helper()
	proj, err := lifecycle.Project(*order, viewerID, false)
	require.NoError(t, err)
	return &viewStub{viewer: model.Viewer{ID: viewerID, Credential: "cred-" + viewerID}, proj: proj}
}

func (v *viewStub) OrderID() string      { return v.proj.Order.ID }
func (v *viewStub) Viewer() model.Viewer { return v.viewer }

func (v *viewStub) Snapshot() (lifecycle.Projection, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.proj, nil
}

func (v *viewStub) Refresh(context.Context) (lifecycle.Projection, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refreshes++
	if v.next != nil {
		proj, err := lifecycle.Project(*v.next, v.viewer.ID, v.proj.Reviewed)
		if err != nil {
			return lifecycle.Projection{}, err
		}
		proj.Busy = v.proj.Busy
		v.proj = proj
	}
	return v.proj, nil
}

func (v *viewStub) SetBusy(action model.Action) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.proj.Busy = action
	v.busyLog = append(v.busyLog, action)
}

func (v *viewStub) ClearBusy() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.proj.Busy = ""
	v.busyLog = append(v.busyLog, "")
}

func (v *viewStub) MarkReviewed() lifecycle.Projection {
	v.mu.Lock()
	defer v.mu.Unlock()
	proj, _ := lifecycle.Project(v.proj.Order, v.viewer.ID, true)
	v.proj = proj
	return proj
}

func (v *viewStub) refreshCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.refreshes
}
