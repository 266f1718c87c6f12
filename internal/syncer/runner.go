package syncer

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
)

// ErrSyncInProgress is returned when Sync is called while another sync is
// still running.
var ErrSyncInProgress = errors.New("sync already in progress")

// Runner serializes sync runs against one container. A second caller does
// not queue; it gets ErrSyncInProgress.
type Runner struct {
	orch      *Orchestrator
	container string
	busy      *semaphore.Weighted
}

func NewRunner(orch *Orchestrator, container string) *Runner {
	return &Runner{orch: orch, container: container, busy: semaphore.NewWeighted(1)}
}

func (r *Runner) Sync(ctx context.Context) (*Report, error) {
	if !r.busy.TryAcquire(1) {
		return nil, ErrSyncInProgress
	}
	defer r.busy.Release(1)
	return r.orch.Run(ctx, r.container)
}
