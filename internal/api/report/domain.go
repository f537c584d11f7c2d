package report

import (
	"context"

	"usage-report-server/internal/api/common/messages"
	"usage-report-server/internal/api/common/query"
	"usage-report-server/internal/auth"
	"usage-report-server/internal/models"
	"usage-report-server/internal/usage"
)

type UsageService interface {
	GlobalUsage(ctx context.Context, query query.Query, identity auth.Identity) *usage.Report
	ProjectUsage(ctx context.Context, query query.Query, identity auth.Identity) *usage.Report
	Limits(ctx context.Context, projectID string, identity auth.Identity) (models.Limits, []messages.Message)
	Quotas(ctx context.Context, projectID string, identity auth.Identity) ([]models.QuotaUsage, []messages.Message)
}
