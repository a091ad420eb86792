package job

import (
	"context"
	"time"

	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/workspace"
)

// WorkspaceRefreshJob evicts idle workspaces and reloads the rest so open
// dashboards pick up records changed by automations.
type WorkspaceRefreshJob struct {
	registry    *workspace.Registry
	ttl         time.Duration
	concurrency int
	timeout     time.Duration
}

func NewWorkspaceRefreshJob(registry *workspace.Registry, ttl time.Duration, concurrency int) *WorkspaceRefreshJob {
	return &WorkspaceRefreshJob{
		registry:    registry,
		ttl:         ttl,
		concurrency: concurrency,
		timeout:     2 * time.Minute,
	}
}

func (j *WorkspaceRefreshJob) Run() {
	evicted := j.registry.EvictIdle(j.ttl)

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	started := time.Now()
	err := j.registry.Refresh(ctx, j.concurrency)

	entry := logger.GetLogger().WithFields(map[string]interface{}{
		"evicted":  evicted,
		"open":     j.registry.Len(),
		"duration": time.Since(started).String(),
	})
	if err != nil {
		entry.WithError(err).Warn("Workspace refresh finished with errors")
		return
	}
	entry.Debug("Workspace refresh finished")
}
