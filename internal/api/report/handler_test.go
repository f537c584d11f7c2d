package report

import (
	"context"
	"io/ioutil"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"usage-report-server/internal/api/common/messages"
	"usage-report-server/internal/api/common/query"
	"usage-report-server/internal/auth"
	"usage-report-server/internal/models"
	"usage-report-server/internal/render"
	"usage-report-server/internal/usage"
)

type fakeUsageService struct {
	lastQuery    query.Query
	lastIdentity auth.Identity
}

func (f *fakeUsageService) report(q query.Query, identity auth.Identity, global bool) *usage.Report {
	f.lastQuery, f.lastIdentity = q, identity
	r := &usage.Report{
		Global:    global,
		ProjectID: q.ProjectID,
		Start:     time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2021, 3, 20, 23, 59, 59, 0, time.UTC),
		Summary: map[string]float64{
			models.SummaryInstances:     1,
			models.SummaryVCPUs:         2,
			models.SummaryMemoryMB:      2048,
			models.SummaryLocalGB:       20,
			models.SummaryVCPUHours:     48,
			models.SummaryMemoryMBHours: 98304,
			models.SummaryDiskGBHours:   480,
		},
	}
	if global {
		r.Usages = []*models.ProjectUsage{{ProjectID: "p1", TotalHours: 48}}
	} else {
		r.Instances = []*models.ServerUsage{{Name: "web", VCPUs: 2, MemoryMB: 2048, LocalGB: 20, Hours: 24, State: "active"}}
	}
	return r
}

func (f *fakeUsageService) GlobalUsage(_ context.Context, q query.Query, identity auth.Identity) *usage.Report {
	return f.report(q, identity, true)
}

func (f *fakeUsageService) ProjectUsage(_ context.Context, q query.Query, identity auth.Identity) *usage.Report {
	return f.report(q, identity, false)
}

func (f *fakeUsageService) Limits(_ context.Context, projectID string, identity auth.Identity) (models.Limits, []messages.Message) {
	f.lastIdentity = identity
	return models.Limits{models.MaxTotalInstances: models.Unlimit(-1), models.TotalInstancesUsed: 1}, nil
}

func (f *fakeUsageService) Quotas(_ context.Context, projectID string, identity auth.Identity) ([]models.QuotaUsage, []messages.Message) {
	f.lastIdentity = identity
	return []models.QuotaUsage{models.NewQuotaUsage("instances", 10, 4)}, nil
}

func newApp(t *testing.T, us UsageService) *fiber.App {
	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	app := fiber.New()
	app.Use(requestid.New())
	for _, h := range auth.Middleware("") {
		app.Use(h)
	}
	clock := clockwork.NewFakeClockAt(time.Date(2021, 3, 20, 12, 0, 0, 0, time.UTC))
	ReportRouter(app.Group("/api/v1"), us, renderer, clock, zap.NewNop())
	return app
}

func do(t *testing.T, app *fiber.App, path, project, roles string) (int, string, map[string]string) {
	req := httptest.NewRequest("GET", path, nil)
	if project != "" {
		req.Header.Set(auth.ProjectHeader, project)
	}
	if roles != "" {
		req.Header.Set(auth.RolesHeader, roles)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), map[string]string{
		fiber.HeaderContentType:        resp.Header.Get(fiber.HeaderContentType),
		fiber.HeaderContentDisposition: resp.Header.Get(fiber.HeaderContentDisposition),
	}
}

func TestGlobalUsageRequiresAdmin(t *testing.T) {
	app := newApp(t, &fakeUsageService{})

	status, _, _ := do(t, app, "/api/v1/usage", "p1", "member")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body, headers := do(t, app, "/api/v1/usage", "p1", "admin")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, headers[fiber.HeaderContentType], "text/html")
	assert.Contains(t, body, "Usage Overview")
	assert.Contains(t, body, "<td>p1</td>")
}

func TestProjectUsageFormats(t *testing.T) {
	us := &fakeUsageService{}
	app := newApp(t, us)

	status, body, _ := do(t, app, "/api/v1/projects/p1/usage?format=json&show_terminated=true", "p1", "member")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"project_id":"p1"`)
	require.NotNil(t, us.lastQuery.ShowTerminated)
	assert.True(t, *us.lastQuery.ShowTerminated)
	assert.Equal(t, "p1", us.lastIdentity.ProjectID)

	status, body, headers := do(t, app, "/api/v1/projects/p1/usage?format=csv", "p1", "member")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, `attachment; filename="p1_usage_2021-03-01_2021-03-20.csv"`, headers[fiber.HeaderContentDisposition])
	assert.True(t, strings.HasPrefix(body, "Usage Report For Period:,2021-03-01,/,2021-03-20\n"))
	assert.Contains(t, body, strings.Join(render.ProjectColumns, ",")+"\n")
	assert.Contains(t, body, "web,2,2048,20,24.00,0,active\n")

	status, streamed, _ := do(t, app, "/api/v1/projects/p1/usage?format=csv&stream=true", "p1", "member")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, body, streamed)
}

func TestProjectUsageForbiddenAndBadQuery(t *testing.T) {
	app := newApp(t, &fakeUsageService{})

	status, _, _ := do(t, app, "/api/v1/projects/p2/usage", "p1", "member")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _, _ = do(t, app, "/api/v1/projects/p1/usage?format=xml", "p1", "member")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _, _ = do(t, app, "/api/v1/projects/p2/usage", "p1", "admin")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLimitsAndQuotas(t *testing.T) {
	app := newApp(t, &fakeUsageService{})

	status, body, _ := do(t, app, "/api/v1/projects/p1/limits", "p1", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"maxTotalInstances":"unlimited"`)
	assert.Contains(t, body, `"totalInstancesUsed":1`)

	status, body, _ = do(t, app, "/api/v1/projects/p1/quotas", "p1", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"name":"instances"`)
	assert.Contains(t, body, `"available":6`)

	status, _, _ = do(t, app, "/api/v1/projects/p1/quotas", "p2", "")
	assert.Equal(t, fiber.StatusForbidden, status)
}
