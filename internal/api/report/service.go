package report

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"usage-report-server/internal/api/common/messages"
	"usage-report-server/internal/api/common/query"
	"usage-report-server/internal/api/snapshot"
	"usage-report-server/internal/auth"
	"usage-report-server/internal/client/rest"
	"usage-report-server/internal/models"
	"usage-report-server/internal/usage"
)

type usageService struct {
	deps      usage.Deps
	snapshots snapshot.SnapshotService
	logger    *zap.Logger
}

var _ UsageService = (*usageService)(nil)

func NewUsageService(deps usage.Deps, snapshots snapshot.SnapshotService, logger *zap.Logger) UsageService {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	deps.Logger = logger
	return &usageService{
		deps:      deps,
		snapshots: snapshots,
		logger:    logger,
	}
}

func (s *usageService) GlobalUsage(ctx context.Context, q query.Query, identity auth.Identity) *usage.Report {
	ctx = rest.WithToken(ctx, identity.Token)
	u := usage.NewGlobalUsage(s.deps, identity.ProjectID, q.Form, messages.New(s.logger))
	report := u.Build(ctx, true)

	s.logger.Debug("global usage",
		zap.String("id", q.ID),
		zap.Time("start_time", report.Start),
		zap.Time("end_time", report.End),
		zap.Int("projects", len(report.Usages)))
	return report
}

func (s *usageService) ProjectUsage(ctx context.Context, q query.Query, identity auth.Identity) *usage.Report {
	ctx = rest.WithToken(ctx, identity.Token)
	u := usage.NewProjectUsage(s.deps, q.ProjectID, q.Form, q.ShowTerminated, messages.New(s.logger))
	report := u.Build(ctx, false)

	s.logger.Debug("project usage",
		zap.String("id", q.ID),
		zap.String("project", q.ProjectID),
		zap.Time("start_time", report.Start),
		zap.Time("end_time", report.End),
		zap.Int("instances", len(report.Instances)))

	if s.snapshots != nil && len(u.UsageList) > 0 {
		s.snapshots.Record(ctx, q.ProjectID, report.Start, report.End, report.Summary)
	}
	return report
}

func (s *usageService) Limits(ctx context.Context, projectID string, identity auth.Identity) (models.Limits, []messages.Message) {
	ctx = rest.WithToken(ctx, identity.Token)
	u := usage.NewProjectUsage(s.deps, projectID, query.DateForm{}, nil, messages.New(s.logger))
	u.GetLimits(ctx)
	return u.Limits, u.Messages.List()
}

func (s *usageService) Quotas(ctx context.Context, projectID string, identity auth.Identity) ([]models.QuotaUsage, []messages.Message) {
	ctx = rest.WithToken(ctx, identity.Token)
	u := usage.NewProjectUsage(s.deps, projectID, query.DateForm{}, nil, messages.New(s.logger))
	u.GetQuotas(ctx)
	return u.Quotas, u.Messages.List()
}
