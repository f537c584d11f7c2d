package usage

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"usage-report-server/internal/models"
)

type globalLister struct {
	compute ComputeAPI
}

func (l *globalLister) ListUsage(ctx context.Context, start, end time.Time) ([]*models.ProjectUsage, error) {
	return l.compute.UsageList(ctx, start, end)
}

func (l *globalLister) ShowTerminated() bool {
	return true
}

type projectLister struct {
	compute        ComputeAPI
	clock          clockwork.Clock
	projectID      string
	showTerminated bool
}

func (l *projectLister) ListUsage(ctx context.Context, start, end time.Time) ([]*models.ProjectUsage, error) {
	usage, err := l.compute.UsageGet(ctx, l.projectID, start, end)
	if err != nil {
		return nil, err
	}
	if usage == nil {
		usage = &models.ProjectUsage{ProjectID: l.projectID}
	}

	now := l.clock.Now()
	instances := make([]*models.ServerUsage, 0, len(usage.ServerUsages))
	for _, server := range usage.ServerUsages {
		server.UptimeAt = now.Add(-time.Duration(server.Uptime) * time.Second)
		if server.Terminated() && !l.showTerminated {
			continue
		}
		instances = append(instances, server)
	}
	usage.ServerUsages = instances
	return []*models.ProjectUsage{usage}, nil
}

func (l *projectLister) ShowTerminated() bool {
	return l.showTerminated
}
